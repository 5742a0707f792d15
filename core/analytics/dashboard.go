package analytics

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/projectzone/backend/core"
	"github.com/projectzone/backend/core/feed"
	"github.com/projectzone/backend/core/lead"
)

// List caps; live entries are prepended and the tail trimmed so a list
// never grows past its cap.
const (
	VisitorCap = 100
	ClickCap   = 100
	QueryCap   = 50
)

type (
	// Stats are derived metrics recomputed from the current lists on
	// every snapshot; nothing is cached.
	Stats struct {
		TotalVisitors  int    `json:"total_visitors"`
		TodayVisitors  int    `json:"today_visitors"`
		TotalClicks    int    `json:"total_clicks"`
		TodayClicks    int    `json:"today_clicks"`
		TotalQueries   int    `json:"total_queries"`
		ConversionRate string `json:"conversion_rate"` // clicks/visitors as a percentage
	}

	Snapshot struct {
		Visitors    []Visitor    `json:"visitors"`
		Clicks      []Click      `json:"whatsapp_clicks"`
		Queries     []lead.Query `json:"contact_queries"`
		Stats       Stats        `json:"stats"`
		LastRefresh time.Time    `json:"last_refresh"`
	}

	// Dashboard keeps three bounded, newest-first lists consistent between
	// an initial bulk load and the live feed. The lists are only written
	// by Refresh and by the single merge goroutine; an out-of-order or
	// duplicate delivery between bulk load and an early live event is an
	// accepted limitation and is not deduplicated.
	Dashboard struct {
		mu          sync.RWMutex
		visitors    []Visitor
		clicks      []Click
		queries     []lead.Query
		lastRefresh time.Time

		svc     *Service
		leadSvc *lead.Service
		bus     *feed.Feed
		logger  core.Logger

		sub  *feed.Subscription
		done chan struct{}
		once sync.Once
	}
)

func NewDashboard(svc *Service, leadSvc *lead.Service, bus *feed.Feed, logger core.Logger) *Dashboard {
	return &Dashboard{
		svc:     svc,
		leadSvc: leadSvc,
		bus:     bus,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start runs the initial bulk load and opens the live subscription.
// A failed bulk load degrades silently; live merging still starts.
func (d *Dashboard) Start(ctx context.Context) {
	_ = d.Refresh(ctx) // failures are logged in Refresh; lists stay empty
	d.sub = d.bus.Subscribe(64)
	go d.run()
}

// Refresh re-runs the three bulk reads concurrently and stamps the
// refresh time. If any read fails the previously loaded lists are left
// unchanged; there is no partial overwrite. Open subscriptions are not
// affected.
func (d *Dashboard) Refresh(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		visitors []Visitor
		clicks   []Click
		queries  []lead.Query

		visErr, clkErr, qryErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		visitors, visErr = d.svc.RecentVisitors(ctx, VisitorCap)
	}()
	go func() {
		defer wg.Done()
		clicks, clkErr = d.svc.RecentClicks(ctx, ClickCap)
	}()
	go func() {
		defer wg.Done()
		queries, qryErr = d.leadSvc.Recent(ctx, QueryCap)
	}()
	wg.Wait()

	for _, err := range []error{visErr, clkErr, qryErr} {
		if err != nil {
			d.logger.Error("dashboard: bulk load failed", err)
			return err
		}
	}

	d.mu.Lock()
	d.visitors = visitors
	d.clicks = clicks
	d.queries = queries
	d.lastRefresh = time.Now().UTC()
	d.mu.Unlock()
	return nil
}

// run is the single merge goroutine consuming the ordered feed channel.
func (d *Dashboard) run() {
	for {
		select {
		case <-d.done:
			return
		case evt, ok := <-d.sub.C():
			if !ok {
				return
			}
			d.merge(evt)
		}
	}
}

func (d *Dashboard) merge(evt feed.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch row := evt.Payload.(type) {
	case Visitor:
		d.visitors = append([]Visitor{row}, d.visitors...)
		if len(d.visitors) > VisitorCap {
			d.visitors = d.visitors[:VisitorCap]
		}
	case Click:
		d.clicks = append([]Click{row}, d.clicks...)
		if len(d.clicks) > ClickCap {
			d.clicks = d.clicks[:ClickCap]
		}
	case lead.Query:
		d.queries = append([]lead.Query{row}, d.queries...)
		if len(d.queries) > QueryCap {
			d.queries = d.queries[:QueryCap]
		}
	}
}

// Snapshot returns copies of the current lists plus derived metrics.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := Snapshot{
		Visitors:    append([]Visitor(nil), d.visitors...),
		Clicks:      append([]Click(nil), d.clicks...),
		Queries:     append([]lead.Query(nil), d.queries...),
		LastRefresh: d.lastRefresh,
	}

	now := time.Now().UTC()
	stats := Stats{
		TotalVisitors: len(snap.Visitors),
		TotalClicks:   len(snap.Clicks),
		TotalQueries:  len(snap.Queries),
	}
	for _, vis := range snap.Visitors {
		if sameDay(vis.CreatedAt, now) {
			stats.TodayVisitors++
		}
	}
	for _, clk := range snap.Clicks {
		if sameDay(clk.CreatedAt, now) {
			stats.TodayClicks++
		}
	}
	stats.ConversionRate = conversionRate(len(snap.Clicks), len(snap.Visitors))
	snap.Stats = stats
	return snap
}

// Close releases the live subscription; no list mutation occurs afterwards.
func (d *Dashboard) Close() {
	d.once.Do(func() {
		close(d.done)
		if d.sub != nil {
			d.sub.Close()
		}
	})
}

// conversionRate renders clicks/visitors as a percentage with one decimal,
// or "0" when there are no visitors.
func conversionRate(clicks, visitors int) string {
	if visitors == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(clicks)/float64(visitors)*100, 'f', 1, 64)
}

func sameDay(t, ref time.Time) bool {
	ty, tm, td := t.UTC().Date()
	ry, rm, rd := ref.UTC().Date()
	return ty == ry && tm == rm && td == rd
}
