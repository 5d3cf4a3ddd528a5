package broker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/convq/internal/logging"
	"github.com/robotomize/convq/label"
	"github.com/robotomize/convq/provider"
	"github.com/robotomize/convq/query"
	"github.com/sethvargo/go-retry"
)

var (
	// ErrFetch marks a failed remote refresh. The previous table keeps
	// serving conversions, the error is recorded for display
	ErrFetch = errors.New("rate service failed")
	// ErrRateUnavailable is returned when a requested currency has never been
	// fetched successfully
	ErrRateUnavailable = errors.New("no cached rate for currency")
)

const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultRetryNum       = 1
	DefaultRetryDuration  = 5 * time.Second
)

// DefaultBase is the currency that cached rates are expressed against
const DefaultBase = label.USD

type Options struct {
	RetryNum       uint64
	RetryDuration  time.Duration
	RequestTimeout time.Duration
}

type Option func(*Broker)

// WithUpdateFreq sets the staleness policy
func WithUpdateFreq(freq UpdateFreq) Option {
	return func(b *Broker) {
		b.freq = freq
	}
}

// WithCache sets the persistent snapshot store. The broker loads the snapshot
// on construction and saves after every successful refresh
func WithCache(cache Cache) Option {
	return func(b *Broker) {
		b.cache = cache
	}
}

// WithSources sets rate sources in priority order, the first source that
// succeeds wins
func WithSources(sources ...provider.Source) Option {
	return func(b *Broker) {
		b.sources = sources
	}
}

// WithRetryNum set number of repeated requests for data retrieval errors from the source
func WithRetryNum(n uint64) Option {
	return func(b *Broker) {
		b.opts.RetryNum = n
	}
}

// WithRetryDuration max retry backoff
func WithRetryDuration(t time.Duration) Option {
	return func(b *Broker) {
		b.opts.RetryDuration = t
	}
}

// WithRequestTimeout set a timeout for source requests
func WithRequestTimeout(t time.Duration) Option {
	return func(b *Broker) {
		b.opts.RequestTimeout = t
	}
}

// New returns a Broker. A process creates exactly one Broker and mutates it in
// place across configuration reloads, reconstruction would silently reset
// user configuration
func New(opts ...Option) *Broker {
	b := &Broker{
		opts: Options{
			RetryNum:       DefaultRetryNum,
			RetryDuration:  DefaultRetryDuration,
			RequestTimeout: DefaultRequestTimeout,
		},
		base:    DefaultBase,
		freq:    UpdateFreqDaily,
		cache:   nopCache{},
		aliases: map[string]label.Symbol{},
	}

	for _, opt := range opts {
		opt(b)
	}

	b.table = b.cache.Load()
	if !b.table.Updated.IsZero() {
		b.lastUpdate = b.table.Updated
	}

	return b
}

type Broker struct {
	mtx  sync.RWMutex
	opts Options

	base    label.Symbol
	cache   Cache
	sources []provider.Source

	freq                UpdateFreq
	defaultSource       label.Symbol
	defaultDestinations []label.Symbol
	aliases             map[string]label.Symbol

	table      RateTable
	lastUpdate time.Time
	lastErr    error
}

func (b *Broker) UpdateFreq() UpdateFreq {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	return b.freq
}

func (b *Broker) SetUpdateFreq(freq UpdateFreq) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.freq = freq
}

func (b *Broker) SetSources(sources ...provider.Source) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.sources = sources
}

// DefaultSource returns the default source currency. The zero Symbol means
// the default was never initialized, which is distinct from any configured
// value
func (b *Broker) DefaultSource() label.Symbol {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	return b.defaultSource
}

// SetDefaultSource validates and sets the default source currency. Invalid
// input returns false and leaves the prior value untouched
func (b *Broker) SetDefaultSource(code string) bool {
	symbol, err := label.ValidateCode(code)
	if err != nil {
		return false
	}

	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.defaultSource = symbol

	return true
}

func (b *Broker) DefaultDestinations() []label.Symbol {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	return append([]label.Symbol(nil), b.defaultDestinations...)
}

// SetDefaultDestinations parses a whitespace-separated code list. All codes
// must validate, otherwise the call fails and the prior list is preserved
func (b *Broker) SetDefaultDestinations(spaceSeparated string) bool {
	fields := strings.Fields(spaceSeparated)
	if len(fields) == 0 {
		return false
	}

	symbols := make([]label.Symbol, 0, len(fields))
	for _, field := range fields {
		symbol, err := label.ValidateCode(field)
		if err != nil {
			return false
		}

		symbols = append(symbols, symbol)
	}

	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.defaultDestinations = symbols

	return true
}

func (b *Broker) AddAlias(alias, code string) error {
	normalized, err := label.ValidateAlias(alias)
	if err != nil {
		return err
	}

	symbol, err := label.ValidateCode(code)
	if err != nil {
		return err
	}

	b.mtx.Lock()
	defer b.mtx.Unlock()

	// replace the map wholesale so concurrent readers never observe a
	// half-built mapping
	next := make(map[string]label.Symbol, len(b.aliases)+1)
	for k, v := range b.aliases {
		next[k] = v
	}
	next[normalized] = symbol
	b.aliases = next

	return nil
}

func (b *Broker) ClearAliases() {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.aliases = map[string]label.Symbol{}
}

func (b *Broker) Aliases() map[string]label.Symbol {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	out := make(map[string]label.Symbol, len(b.aliases))
	for k, v := range b.aliases {
		out[k] = v
	}

	return out
}

func (b *Broker) Table() RateTable {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	return b.table
}

func (b *Broker) LastUpdate() time.Time {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	return b.lastUpdate
}

func (b *Broker) LastError() error {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	return b.lastErr
}

// TryUpdate refreshes the table only when it is stale. It reports whether an
// update was attempted, callers distinguish attempted-but-failed via
// LastError
func (b *Broker) TryUpdate(ctx context.Context) bool {
	if !b.stale(time.Now()) {
		return false
	}

	b.Update(ctx)

	return true
}

// Update fetches unconditionally. Success replaces the table wholesale and
// clears LastError, failure records LastError and keeps the table intact
func (b *Broker) Update(ctx context.Context) {
	logger := logging.FromContext(ctx)

	b.mtx.RLock()
	sources := b.sources
	base := b.base
	opts := b.opts
	b.mtx.RUnlock()

	var merr *multierror.Error
	if len(sources) == 0 {
		merr = multierror.Append(merr, errors.New("no rate sources configured"))
	}

	for _, source := range sources {
		snap, err := b.fetch(ctx, source, opts)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		table, err := rebase(snap, base)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		b.mtx.Lock()
		b.table = table
		b.lastUpdate = time.Now()
		b.lastErr = nil
		b.mtx.Unlock()

		if err := b.cache.Save(table); err != nil {
			logger.Warn().Err(err).Msg("persist rate snapshot")
		}

		return
	}

	err := fmt.Errorf("%w: %v", ErrFetch, merr.ErrorOrNil())
	logger.Error().Err(err).Msg("rate refresh failed, previous table keeps serving")

	b.mtx.Lock()
	b.lastErr = err
	b.mtx.Unlock()
}

// ForceUpdate is Update under a name that documents intent: configuration
// changed in a way that affects rates
func (b *Broker) ForceUpdate(ctx context.Context) {
	b.Update(ctx)
}

func (b *Broker) fetch(ctx context.Context, source provider.Source, opts Options) (provider.Snapshot, error) {
	var snap provider.Snapshot

	backoff := retry.NewConstant(opts.RetryDuration)
	backoff = retry.WithMaxRetries(opts.RetryNum, backoff)

	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, opts.RequestTimeout)
		defer cancel()

		latest, err := source.FetchLatest(ctx)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("fetch latest: %w", err))
		}

		snap = latest

		return nil
	}); err != nil {
		return provider.Snapshot{}, err
	}

	return snap, nil
}

// rebase converts a source snapshot to a table expressed against the broker
// base currency
func rebase(snap provider.Snapshot, base label.Symbol) (RateTable, error) {
	baseRate, ok := snap.Rates[base]
	if !ok || baseRate <= 0 {
		return RateTable{}, fmt.Errorf("source does not quote base currency %s", base)
	}

	rates := make(map[label.Symbol]float64, len(snap.Rates))
	for symbol, rate := range snap.Rates {
		rates[symbol] = rate / baseRate
	}

	return RateTable{Base: base, Rates: rates, Updated: snap.Time}, nil
}

func (b *Broker) stale(now time.Time) bool {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	if b.table.IsZero() {
		return true
	}

	threshold, ok := b.freq.Threshold()
	if !ok {
		return false
	}

	return now.Sub(b.lastUpdate) >= threshold
}

// Conversion is one per-destination result of Convert
type Conversion struct {
	Symbol      label.Symbol
	Amount      float64
	Title       string
	Description string
}

// Convert computes, for every source amount a in currency Cs and destination
// currency Cd, the value a * rate[Cd] / rate[Cs]. Multiple source amounts sum
// into a single entry per destination, destination order is preserved
func (b *Broker) Convert(req query.Request) ([]Conversion, error) {
	b.mtx.RLock()
	table := b.table
	b.mtx.RUnlock()

	for _, src := range req.Sources {
		if _, ok := table.Rate(src.Symbol); !ok {
			return nil, fmt.Errorf("%w: %s", ErrRateUnavailable, src.Symbol)
		}
	}

	results := make([]Conversion, 0, len(req.Destinations))
	for _, dest := range req.Destinations {
		destRate, ok := table.Rate(dest)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrRateUnavailable, dest)
		}

		var total float64
		for _, src := range req.Sources {
			srcRate, _ := table.Rate(src.Symbol)
			// ratio first: converting a currency to itself yields the exact
			// input amount
			total += src.Value * (destRate / srcRate)
		}

		results = append(results, Conversion{
			Symbol:      dest,
			Amount:      total,
			Title:       fmt.Sprintf("%s %s", formatAmount(total), dest),
			Description: fmt.Sprintf("%s = %s %s", describeSources(req.Sources), formatAmount(total), dest),
		})
	}

	return results, nil
}

func describeSources(sources []query.Amount) string {
	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		parts = append(parts, fmt.Sprintf("%s %s", formatAmount(src.Value), src.Symbol))
	}

	return strings.Join(parts, " + ")
}

func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")

	return s
}
