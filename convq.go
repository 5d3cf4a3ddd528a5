package convq

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robotomize/convq/broker"
	"github.com/robotomize/convq/internal/logging"
	"github.com/robotomize/convq/query"
)

// Resolver turns free-form query text into conversion results backed by the
// broker's cached rate table. The parser is swappable at runtime, settings
// reloads replace it without touching the broker
type Resolver struct {
	broker *broker.Broker

	mtx     sync.RWMutex
	parser  *query.Parser
	timeout time.Duration
}

// Resolution is the outcome of a single query. Results may be served from a
// stale table, Status then carries the last fetch error text
type Resolution struct {
	Results []broker.Conversion
	Status  string
	Updated time.Time
}

func New(b *broker.Broker, opts ...Option) *Resolver {
	r := &Resolver{
		broker: b,
		parser: query.NewDefaultParser(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Resolver) Broker() *broker.Broker {
	return r.broker
}

func (r *Resolver) Parser() *query.Parser {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.parser
}

// SetParser replaces the query parser. Nil is ignored, the previous parser
// stays in place
func (r *Resolver) SetParser(p *query.Parser) {
	if p == nil {
		return
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.parser = p
}

// Resolve parses the input, refreshes the rate table when it is stale and
// converts. Text the grammar rejects degrades to the template request filled
// from broker defaults instead of failing, only missing rates surface as an
// error
func (r *Resolver) Resolve(ctx context.Context, input string) (Resolution, error) {
	r.mtx.RLock()
	parser, timeout := r.parser, r.timeout
	r.mtx.RUnlock()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := r.buildRequest(ctx, parser, input)
	req = r.fillFromBroker(req)

	r.broker.TryUpdate(ctx)

	resolution := Resolution{Updated: r.broker.LastUpdate()}
	if err := r.broker.LastError(); err != nil {
		resolution.Status = err.Error()
	}

	results, err := r.broker.Convert(req)
	if err != nil {
		return resolution, err
	}

	resolution.Results = results

	return resolution, nil
}

func (r *Resolver) buildRequest(ctx context.Context, parser *query.Parser, input string) query.Request {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return parser.Template()
	}

	// bare numeric literals skip the grammar entirely
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && v >= 0 {
		return query.Request{Sources: []query.Amount{{Value: v}}}
	}

	req, err := parser.Parse(trimmed)
	if err != nil {
		logging.FromContext(ctx).Debug().Str("input", trimmed).Msg("query did not parse, degrading to template")
		return parser.Template()
	}

	return req
}

// fillFromBroker completes a request from live broker defaults. The parser
// backfills its own configured defaults first, broker state covers the rest
func (r *Resolver) fillFromBroker(req query.Request) query.Request {
	if req.Sources == nil {
		req.Sources = []query.Amount{{Value: 1}}
	}

	if req.Sources[0].Symbol == "" {
		req.Sources[0].Symbol = r.broker.DefaultSource()
	}

	if req.Destinations == nil {
		req.Destinations = r.broker.DefaultDestinations()
	}

	return req
}
