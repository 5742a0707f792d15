package lead

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/projectzone/backend/core"
	"github.com/projectzone/backend/core/feed"
)

type (
	Repository interface {
		CreateQuery(ctx context.Context, qry Query) (Query, error)
		// RecentQueries returns at most `limit` queries, newest first.
		RecentQueries(ctx context.Context, limit int) ([]Query, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
		bus     *feed.Feed
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config, bus *feed.Feed) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
		bus:     bus,
	}
}

// Create persists a new Query, notifies staff and publishes the row on the
// live feed. Persistence either fully succeeds or fully fails.
func (svc *Service) Create(ctx context.Context, nq NewQuery) (Query, error) {
	qry := Query{
		Name:           nq.Name,
		Email:          nq.Email,
		Phone:          nq.Phone,
		ProjectType:    nq.ProjectType,
		EducationLevel: nq.EducationLevel,
		FieldOfStudy:   nq.FieldOfStudy,
		Deadline:       nq.Deadline,
		Message:        nq.Message,
		Status:         StatusNew,
		CreatedAt:      time.Now().UTC(),
	}
	qry, err := svc.repo.CreateQuery(ctx, qry)
	if err != nil {
		return Query{}, errors.Wrap(err, "creating query")
	}

	svc.notifyStaff(qry)
	svc.bus.Publish(feed.Event{Kind: feed.KindQuery, Payload: qry})
	return qry, nil
}

func (svc *Service) Recent(ctx context.Context, limit int) ([]Query, error) {
	return svc.repo.RecentQueries(ctx, limit)
}

// WhatsAppLink returns the deep link opened after a successful submission.
func (svc *Service) WhatsAppLink(qry Query) string {
	return DeepLink(svc.conf.WhatsApp.Number, Transcript(qry))
}

func (svc *Service) notifyStaff(qry Query) {
	if svc.conf.ContactEmail == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:          []mail.Address{{Address: svc.conf.ContactEmail}},
		Subject:     fmt.Sprintf("New query from %s", qry.Name),
		TextContent: Transcript(qry),
	})
}
