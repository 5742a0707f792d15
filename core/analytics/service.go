package analytics

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/projectzone/backend/core"
	"github.com/projectzone/backend/core/feed"
	"github.com/projectzone/backend/core/lead"
)

type (
	Repository interface {
		CreateVisitor(ctx context.Context, vis Visitor) (Visitor, error)
		CreateClick(ctx context.Context, clk Click) (Click, error)
		// RecentVisitors returns at most `limit` visitors, newest first.
		RecentVisitors(ctx context.Context, limit int) ([]Visitor, error)
		// RecentClicks returns at most `limit` clicks, newest first.
		RecentClicks(ctx context.Context, limit int) ([]Click, error)
	}

	Service struct {
		repo Repository
		conf *core.Config
		bus  *feed.Feed
	}
)

func NewService(repo Repository, conf *core.Config, bus *feed.Feed) *Service {
	return &Service{repo: repo, conf: conf, bus: bus}
}

func (svc *Service) TrackVisit(ctx context.Context, nv NewVisitor) (Visitor, error) {
	vis := Visitor{
		PagePath:  nv.PagePath,
		Referrer:  nv.Referrer,
		UserAgent: nv.UserAgent,
		CreatedAt: time.Now().UTC(),
	}
	vis, err := svc.repo.CreateVisitor(ctx, vis)
	if err != nil {
		return Visitor{}, errors.Wrap(err, "creating visitor")
	}
	svc.bus.Publish(feed.Event{Kind: feed.KindVisitor, Payload: vis})
	return vis, nil
}

func (svc *Service) TrackClick(ctx context.Context, nc NewClick) (Click, error) {
	clk := Click{
		ButtonLocation: nc.ButtonLocation,
		PagePath:       nc.PagePath,
		CreatedAt:      time.Now().UTC(),
	}
	clk, err := svc.repo.CreateClick(ctx, clk)
	if err != nil {
		return Click{}, errors.Wrap(err, "creating click")
	}
	svc.bus.Publish(feed.Event{Kind: feed.KindClick, Payload: clk})
	return clk, nil
}

func (svc *Service) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	return svc.repo.RecentVisitors(ctx, limit)
}

func (svc *Service) RecentClicks(ctx context.Context, limit int) ([]Click, error) {
	return svc.repo.RecentClicks(ctx, limit)
}

// DefaultWhatsAppLink is the chat link opened by the public WhatsApp
// buttons, pre-filled with the configured greeting.
func (svc *Service) DefaultWhatsAppLink() string {
	return lead.DeepLink(svc.conf.WhatsApp.Number, svc.conf.WhatsApp.DefaultMessage)
}
