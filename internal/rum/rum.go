// Package rum samples page views for real user monitoring and publishes
// checkpoints for the sampled ones.
package rum

import (
	"context"
	"math/rand/v2"
	"time"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/observability"
	"git.home.luguber.info/inful/pageloader/internal/page"
)

// DefaultWeight samples one page view in a hundred.
const DefaultWeight = 100

// Checkpoint is one published RUM event.
type Checkpoint struct {
	ID         string    `json:"id"`
	Checkpoint string    `json:"checkpoint"`
	URL        string    `json:"url"`
	Weight     int       `json:"weight"`
	Time       time.Time `json:"time"`
}

// Publisher sends checkpoints somewhere.
type Publisher interface {
	Publish(ctx context.Context, c Checkpoint) error
}

// Sampler is the lifecycle's view of RUM.
type Sampler interface {
	Enhance(ctx context.Context, p *page.Page)
}

// Noop samples nothing.
type Noop struct{}

func (Noop) Enhance(context.Context, *page.Page) {}

// RUM selects page views with probability 1/Weight and publishes an enhance
// checkpoint for each selected one.
type RUM struct {
	weight    int
	publisher Publisher
	reporter  observability.Reporter
	random    func() float64
	now       func() time.Time
}

// Option configures RUM.
type Option func(*RUM)

// WithReporter sets where publish failures go.
func WithReporter(r observability.Reporter) Option {
	return func(x *RUM) { x.reporter = r }
}

// WithRandom replaces the random source, for tests.
func WithRandom(f func() float64) Option {
	return func(x *RUM) { x.random = f }
}

// New creates a sampler. A weight below one means DefaultWeight.
func New(weight int, publisher Publisher, opts ...Option) *RUM {
	if weight < 1 {
		weight = DefaultWeight
	}
	r := &RUM{
		weight:    weight,
		publisher: publisher,
		reporter:  observability.NopReporter{},
		random:    rand.Float64,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Selected draws whether a page view is sampled.
func (r *RUM) Selected() bool {
	return r.random()*float64(r.weight) < 1
}

// Enhance publishes the enhance checkpoint when the page view is sampled.
// Failures are reported and never block the page.
func (r *RUM) Enhance(ctx context.Context, p *page.Page) {
	if r.publisher == nil || !r.Selected() {
		return
	}
	c := Checkpoint{
		ID:         p.ID,
		Checkpoint: "enhance",
		URL:        p.URL.String(),
		Weight:     r.weight,
		Time:       r.now().UTC(),
	}
	if err := r.publisher.Publish(ctx, c); err != nil {
		r.reporter.Report(ctx, derrors.WrapError(err, derrors.CategoryResource, "rum checkpoint not published").
			Warning().WithContext("checkpoint", c.Checkpoint).Build())
	}
}
