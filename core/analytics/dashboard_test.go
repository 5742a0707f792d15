package analytics

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/projectzone/backend/core"
	"github.com/projectzone/backend/core/feed"
	"github.com/projectzone/backend/core/lead"
	emailsvc "github.com/projectzone/backend/services/email"
	logsvc "github.com/projectzone/backend/services/logger"
)

type stubRepo struct {
	visitors []Visitor
	clicks   []Click
	err      error
}

func (r *stubRepo) CreateVisitor(_ context.Context, vis Visitor) (Visitor, error) {
	if r.err != nil {
		return Visitor{}, r.err
	}
	vis.ID = len(r.visitors) + 1
	r.visitors = append([]Visitor{vis}, r.visitors...)
	return vis, nil
}

func (r *stubRepo) CreateClick(_ context.Context, clk Click) (Click, error) {
	if r.err != nil {
		return Click{}, r.err
	}
	clk.ID = len(r.clicks) + 1
	r.clicks = append([]Click{clk}, r.clicks...)
	return clk, nil
}

func (r *stubRepo) RecentVisitors(_ context.Context, limit int) ([]Visitor, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.visitors) > limit {
		return r.visitors[:limit], nil
	}
	return r.visitors, nil
}

func (r *stubRepo) RecentClicks(_ context.Context, limit int) ([]Click, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.clicks) > limit {
		return r.clicks[:limit], nil
	}
	return r.clicks, nil
}

type stubLeadRepo struct {
	queries []lead.Query
	err     error
}

func (r *stubLeadRepo) CreateQuery(_ context.Context, qry lead.Query) (lead.Query, error) {
	if r.err != nil {
		return lead.Query{}, r.err
	}
	qry.ID = len(r.queries) + 1
	r.queries = append([]lead.Query{qry}, r.queries...)
	return qry, nil
}

func (r *stubLeadRepo) RecentQueries(_ context.Context, limit int) ([]lead.Query, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.queries) > limit {
		return r.queries[:limit], nil
	}
	return r.queries, nil
}

func newTestDashboard(repo *stubRepo, leadRepo *stubLeadRepo, bus *feed.Feed) *Dashboard {
	conf := core.NewConfig()
	logger := logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0))
	svc := NewService(repo, conf, bus)
	leadSvc := lead.NewService(leadRepo, emailsvc.NewConsoleServiceMock(conf), conf, bus)
	return NewDashboard(svc, leadSvc, bus, logger)
}

func someVisitors(n int) []Visitor {
	now := time.Now().UTC()
	visitors := make([]Visitor, 0, n)
	for i := n; i > 0; i-- {
		visitors = append(visitors, Visitor{
			ID:        i,
			PagePath:  "/",
			UserAgent: "test",
			CreatedAt: now.Add(-time.Duration(n-i) * time.Minute),
		})
	}
	return visitors
}

type recordingLogger struct {
	logsvc.StdLogger
	mu        sync.Mutex
	errorMsgs []string
}

func (l *recordingLogger) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	l.errorMsgs = append(l.errorMsgs, msg)
	l.mu.Unlock()
}

func Test_Dashboard_failedStartLogsOnce(t *testing.T) {
	bus := feed.New()
	conf := core.NewConfig()
	logger := new(recordingLogger)
	repo := &stubRepo{err: errors.New("db down")}
	svc := NewService(repo, conf, bus)
	leadSvc := lead.NewService(&stubLeadRepo{}, emailsvc.NewConsoleServiceMock(conf), conf, bus)
	d := NewDashboard(svc, leadSvc, bus, logger)

	d.Start(context.Background())
	defer d.Close()

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.errorMsgs) != 1 {
		t.Errorf("failed initial load produced %d error logs, want 1: %q", len(logger.errorMsgs), logger.errorMsgs)
	}
}

func Test_conversionRate(t *testing.T) {
	tests := []struct {
		clicks   int
		visitors int
		want     string
	}{
		{clicks: 0, visitors: 0, want: "0"},
		{clicks: 5, visitors: 0, want: "0"},
		{clicks: 0, visitors: 10, want: "0.0"},
		{clicks: 5, visitors: 10, want: "50.0"},
		{clicks: 1, visitors: 3, want: "33.3"},
		{clicks: 10, visitors: 4, want: "250.0"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.clicks, tt.visitors), func(t *testing.T) {
			if got := conversionRate(tt.clicks, tt.visitors); got != tt.want {
				t.Errorf("conversionRate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_Dashboard_Refresh(t *testing.T) {
	repo := &stubRepo{
		visitors: someVisitors(3),
		clicks:   []Click{{ID: 1, ButtonLocation: "hero", PagePath: "/", CreatedAt: time.Now().UTC()}},
	}
	leadRepo := &stubLeadRepo{queries: []lead.Query{{ID: 1, Name: "Ali"}}}
	d := newTestDashboard(repo, leadRepo, feed.New())
	ctx := context.Background()

	if err := d.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	snap := d.Snapshot()
	assert.Len(t, snap.Visitors, 3)
	assert.Len(t, snap.Clicks, 1)
	assert.Len(t, snap.Queries, 1)
	assert.False(t, snap.LastRefresh.IsZero())

	// a failed load leaves the previous lists untouched
	repo.err = errors.New("db down")
	if err := d.Refresh(ctx); err == nil {
		t.Fatal("Refresh() succeeded despite repository failure")
	}
	snap2 := d.Snapshot()
	assert.Equal(t, snap.Visitors, snap2.Visitors)
	assert.Equal(t, snap.Clicks, snap2.Clicks)
	assert.Equal(t, snap.Queries, snap2.Queries)
	assert.Equal(t, snap.LastRefresh, snap2.LastRefresh)
}

func Test_Dashboard_mergeCaps(t *testing.T) {
	repo := &stubRepo{visitors: someVisitors(VisitorCap)}
	d := newTestDashboard(repo, &stubLeadRepo{}, feed.New())

	if err := d.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	// a full list stays at its cap as live entries arrive
	for i := 1; i <= VisitorCap+1; i++ {
		d.merge(feed.Event{Kind: feed.KindVisitor, Payload: Visitor{ID: 1000 + i, PagePath: "/"}})
	}
	snap := d.Snapshot()
	if len(snap.Visitors) != VisitorCap {
		t.Fatalf("len(Visitors) = %d, want %d", len(snap.Visitors), VisitorCap)
	}
	if snap.Visitors[0].ID != 1000+VisitorCap+1 {
		t.Errorf("Visitors[0].ID = %d, want %d (newest first)", snap.Visitors[0].ID, 1000+VisitorCap+1)
	}

	// same for queries, with their smaller cap
	for i := 1; i <= QueryCap+5; i++ {
		d.merge(feed.Event{Kind: feed.KindQuery, Payload: lead.Query{ID: i}})
	}
	snap = d.Snapshot()
	if len(snap.Queries) != QueryCap {
		t.Errorf("len(Queries) = %d, want %d", len(snap.Queries), QueryCap)
	}

	for i := 1; i <= ClickCap+2; i++ {
		d.merge(feed.Event{Kind: feed.KindClick, Payload: Click{ID: i}})
	}
	snap = d.Snapshot()
	if len(snap.Clicks) != ClickCap {
		t.Errorf("len(Clicks) = %d, want %d", len(snap.Clicks), ClickCap)
	}
}

func Test_Dashboard_SnapshotStats(t *testing.T) {
	now := time.Now().UTC()
	yesterday := now.Add(-36 * time.Hour)

	repo := &stubRepo{
		visitors: []Visitor{
			{ID: 3, CreatedAt: now},
			{ID: 2, CreatedAt: now.Add(-time.Hour)},
			{ID: 1, CreatedAt: yesterday},
		},
		clicks: []Click{
			{ID: 2, CreatedAt: now},
			{ID: 1, CreatedAt: yesterday},
		},
	}
	leadRepo := &stubLeadRepo{queries: []lead.Query{{ID: 1, CreatedAt: yesterday}}}
	d := newTestDashboard(repo, leadRepo, feed.New())

	if err := d.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	stats := d.Snapshot().Stats

	assert.Equal(t, 3, stats.TotalVisitors)
	assert.Equal(t, 2, stats.TotalClicks)
	assert.Equal(t, 1, stats.TotalQueries)
	assert.Equal(t, 2, stats.TodayVisitors)
	assert.Equal(t, 1, stats.TodayClicks)
	assert.Equal(t, "66.7", stats.ConversionRate)
}

func Test_Dashboard_liveFlow(t *testing.T) {
	bus := feed.New()
	repo := &stubRepo{}
	d := newTestDashboard(repo, &stubLeadRepo{}, bus)

	d.Start(context.Background())
	defer d.Close()

	svc := NewService(repo, core.NewConfig(), bus)
	if _, err := svc.TrackVisit(context.Background(), NewVisitor{PagePath: "/", UserAgent: "test"}); err != nil {
		t.Fatalf("TrackVisit() failed: %v", err)
	}

	assert.Eventually(t, func() bool {
		return len(d.Snapshot().Visitors) == 1
	}, time.Second, 5*time.Millisecond, "live visitor never merged")

	// after Close no further events are merged
	d.Close()
	bus.Publish(feed.Event{Kind: feed.KindVisitor, Payload: Visitor{ID: 99}})
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, d.Snapshot().Visitors, 1)
}
