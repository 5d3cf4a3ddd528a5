package reconcile

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/convq"
	"github.com/robotomize/convq/broker"
	"github.com/robotomize/convq/internal/logging"
	"github.com/robotomize/convq/label"
	"github.com/robotomize/convq/provider"
	"github.com/robotomize/convq/provider/ecb"
	"github.com/robotomize/convq/provider/oxr"
	"github.com/robotomize/convq/query"
)

// Documented defaults, the middle tier of every fallback chain
const (
	DefaultUpdateFreq       = broker.UpdateFreqDaily
	DefaultInputCurrency    = "USD"
	DefaultOutputCurrencies = "USD EUR JPY"
)

// the last-resort destination list when even the documented default failed
const fallbackOutputCurrencies = "USD EUR"

type Option func(*Reconciler)

// WithHTTPClient sets the HTTP client handed to the rate sources
func WithHTTPClient(client *http.Client) Option {
	return func(r *Reconciler) {
		r.client = client
	}
}

// WithCacheDir enables the persistent rate snapshot in the given directory
func WithCacheDir(dir string) Option {
	return func(r *Reconciler) {
		r.cacheDir = dir
	}
}

// WithBrokerOptions appends options to the broker built on first Apply
func WithBrokerOptions(opts ...broker.Option) Option {
	return func(r *Reconciler) {
		r.brokerOpts = append(r.brokerOpts, opts...)
	}
}

// WithSources replaces the built-in rate sources entirely
func WithSources(sources ...provider.Source) Option {
	return func(r *Reconciler) {
		r.sources = sources
	}
}

// Reconciler owns the process-wide Resolver and keeps it aligned with user
// settings. The broker underneath is built exactly once, every later Apply
// mutates it in place
type Reconciler struct {
	client     *http.Client
	cacheDir   string
	brokerOpts []broker.Option
	sources    []provider.Source

	mtx      sync.Mutex
	resolver *convq.Resolver
	oxrSrc   *oxr.Source
	last     Settings
}

func New(opts ...Option) *Reconciler {
	r := &Reconciler{}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolver returns the managed resolver, nil before the first Apply
func (r *Reconciler) Resolver() *convq.Resolver {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.resolver
}

// Apply reconciles the live broker and parser with one settings snapshot.
// The first call constructs the broker, every later call diffs against the
// previously applied snapshot and touches only what changed. Apply never
// fails, recoverable problems land in the Report
func (r *Reconciler) Apply(ctx context.Context, settings Settings) Report {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	logger := logging.FromContext(ctx)

	var merr *multierror.Error
	var report Report

	first := r.resolver == nil
	if first {
		r.initialize()
		report.Initialized = true
	}

	b := r.resolver.Broker()
	forced := false

	if first || !strEqual(settings.UpdateFreq, r.last.UpdateFreq) {
		prior := b.UpdateFreq()

		tier := TierDefault
		freq := DefaultUpdateFreq
		keep := false

		if v, ok := strValue(settings.UpdateFreq); ok {
			parsed, err := broker.ParseUpdateFreq(v)
			switch {
			case err == nil:
				freq, tier = parsed, TierUser
			default:
				merr = multierror.Append(merr, fmt.Errorf("update_freq: %w", err))
				// an invalid value on reload keeps the prior frequency
				keep = !first
			}
		}

		if !keep {
			b.SetUpdateFreq(freq)
			report.setTier("update_freq", tier)
		}

		if !first && b.UpdateFreq() != prior {
			report.markChanged("update_freq")
			forced = true
		}
	}

	if first || !strEqual(settings.AppID, r.last.AppID) {
		priorID, _ := strValue(r.last.AppID)
		priorID = strings.TrimSpace(priorID)

		appID, _ := strValue(settings.AppID)
		appID = strings.TrimSpace(appID)

		tier := TierDefault
		if appID != "" {
			tier = TierUser
		}

		if r.oxrSrc != nil {
			r.oxrSrc.SetAppID(appID)
		}
		report.setTier("app_id", tier)

		if !first && appID != priorID {
			report.markChanged("app_id")
			forced = true
		}
	}

	if first || !strEqual(settings.InputCurrency, r.last.InputCurrency) {
		prior := b.DefaultSource()

		switch v, ok := strValue(settings.InputCurrency); {
		case ok && b.SetDefaultSource(v):
			report.setTier("input_cur", TierUser)
		case ok && !first:
			// an invalid value on reload keeps the prior currency
			merr = multierror.Append(merr, fmt.Errorf("input_cur: %w: %q", label.ErrInvalidCurrency, v))
		default:
			if ok {
				merr = multierror.Append(merr, fmt.Errorf("input_cur: %w: %q", label.ErrInvalidCurrency, v))
			}

			tier := TierFallback
			if b.SetDefaultSource(DefaultInputCurrency) {
				tier = TierDefault
			}
			report.setTier("input_cur", tier)
		}

		if !first && b.DefaultSource() != prior {
			report.markChanged("input_cur")
			forced = true
		}
	}

	if first || !strEqual(settings.OutputCurrencies, r.last.OutputCurrencies) {
		prior := b.DefaultDestinations()

		switch v, ok := strValue(settings.OutputCurrencies); {
		case ok && b.SetDefaultDestinations(v):
			report.setTier("output_cur", TierUser)
		case ok && !first:
			// an invalid list on reload keeps the prior destinations
			merr = multierror.Append(merr, fmt.Errorf("output_cur: %w: %q", label.ErrInvalidCurrency, v))
		default:
			if ok {
				merr = multierror.Append(merr, fmt.Errorf("output_cur: %w: %q", label.ErrInvalidCurrency, v))
			}

			tier := TierDefault
			if !b.SetDefaultDestinations(DefaultOutputCurrencies) {
				b.SetDefaultDestinations(fallbackOutputCurrencies)
				tier = TierFallback
			}
			report.setTier("output_cur", tier)
		}

		if !first && !symbolsEqual(b.DefaultDestinations(), prior) {
			report.markChanged("output_cur")
			forced = true
		}
	}

	if !first && !strEqual(settings.Separators, r.last.Separators) {
		report.markChanged("separators")
	}

	if !first && !strEqual(settings.DestinationSeparators, r.last.DestinationSeparators) {
		report.markChanged("destination_separators")
	}

	if !first && !strEqual(settings.Aliases, r.last.Aliases) {
		report.markChanged("aliases")
	}

	// the alias table is rebuilt from scratch on every run, a reload can
	// only remove entries this way
	aliasBlock, _ := strValue(settings.Aliases)
	aliases, skipped := parseAliasBlock(aliasBlock)

	b.ClearAliases()
	for alias, symbol := range aliases {
		if err := b.AddAlias(alias, symbol.String()); err != nil {
			skipped++
			logger.Warn().Err(err).Str("alias", alias).Msg("alias rejected")
		}
	}

	report.AliasCount = len(b.Aliases())
	report.SkippedAliasLines = skipped

	tier, parserErrs := r.rebuildParser(settings, b)
	report.ParserTier = tier
	for _, err := range parserErrs {
		merr = multierror.Append(merr, err)
	}

	if forced {
		report.ForcedUpdate = true
		b.ForceUpdate(ctx)
	}

	r.last = settings
	report.Err = merr.ErrorOrNil()

	if report.Err != nil {
		logger.Warn().Err(report.Err).Msg("settings applied with problems")
	}

	return report
}

// initialize builds the one broker and resolver of the process lifetime
func (r *Reconciler) initialize() {
	sources := r.sources
	if sources == nil {
		client := r.client
		if client == nil {
			client = http.DefaultClient
		}

		// oxr first: it needs a credential and bails out instantly without
		// one, the keyless ecb source picks up the slack
		r.oxrSrc = oxr.NewSource(client, "")
		sources = []provider.Source{r.oxrSrc, ecb.NewSource(client)}
	}

	opts := []broker.Option{broker.WithSources(sources...)}
	if r.cacheDir != "" {
		opts = append(opts, broker.WithCache(broker.NewFileCache(r.cacheDir)))
	}
	opts = append(opts, r.brokerOpts...)

	r.resolver = convq.New(broker.New(opts...))
}

// rebuildParser walks the parser fallback chain: full settings, then broker
// currencies only, then the bare default grammar. The previous parser stays
// in place only if every tier failed, which the final tier makes impossible
func (r *Reconciler) rebuildParser(settings Settings, b *broker.Broker) (Tier, []error) {
	var errs []error

	full := query.Properties{
		DefaultSource:       b.DefaultSource(),
		DefaultDestinations: b.DefaultDestinations(),
		ToKeywords:          keywordList(settings.Separators, query.DefaultToKeywords),
		DestKeywords:        keywordList(settings.DestinationSeparators, query.DefaultDestKeywords),
		Aliases:             b.Aliases(),
	}

	p, err := query.NewParser(full)
	if err == nil {
		r.resolver.SetParser(p)
		return TierUser, errs
	}
	errs = append(errs, fmt.Errorf("parser: %w", err))

	currenciesOnly := query.Properties{
		DefaultSource:       b.DefaultSource(),
		DefaultDestinations: b.DefaultDestinations(),
		ToKeywords:          query.DefaultToKeywords,
		DestKeywords:        query.DefaultDestKeywords,
	}

	p, err = query.NewParser(currenciesOnly)
	if err == nil {
		r.resolver.SetParser(p)
		return TierDefault, errs
	}
	errs = append(errs, fmt.Errorf("parser without keywords and aliases: %w", err))

	r.resolver.SetParser(query.NewDefaultParser())

	return TierFallback, errs
}

func symbolsEqual(a, b []label.Symbol) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func keywordList(p *string, fallback []string) []string {
	if p == nil {
		return fallback
	}

	if fields := strings.Fields(*p); len(fields) > 0 {
		return fields
	}

	return fallback
}

// parseAliasBlock reads the "CODE = alias1 alias2" line format. Lines that do
// not match are skipped and counted, one bad line never discards the rest
func parseAliasBlock(block string) (map[string]label.Symbol, int) {
	aliases := map[string]label.Symbol{}
	var skipped int

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		left, right, found := strings.Cut(line, "=")
		if !found {
			skipped++
			continue
		}

		symbol, err := label.ValidateCode(left)
		if err != nil {
			skipped++
			continue
		}

		names := strings.Fields(right)
		if len(names) == 0 {
			skipped++
			continue
		}

		for _, name := range names {
			aliases[strings.ToLower(name)] = symbol
		}
	}

	return aliases, skipped
}
