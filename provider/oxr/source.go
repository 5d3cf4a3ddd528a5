package oxr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/robotomize/convq/label"
	"github.com/robotomize/convq/provider"
	"github.com/robotomize/convq/provider/httputil"
)

const hostname = "openexchangerates.org"

const latestRawPath = "/api/latest.json"

var defaultLatestResource = url.URL{Scheme: "https", Host: hostname, Path: latestRawPath}

var (
	ErrMissingAppID = errors.New("app id is not set")
	ErrBadPayload   = errors.New("rates payload is not valid")
)

var _ provider.Source = (*Source)(nil)

// NewSource returns an openexchangerates.org source. The service requires an
// application id credential for every request
func NewSource(client *http.Client, appID string) *Source {
	return &Source{
		appID:     appID,
		latestURL: defaultLatestResource,
		client:    httputil.NewHTTPClient(client),
	}
}

type Source struct {
	mtx       sync.RWMutex
	appID     string
	latestURL url.URL
	client    httputil.SourceHTTPClient
}

// AppID returns the currently configured credential
func (s *Source) AppID() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.appID
}

// SetAppID swaps the credential in place. The source instance survives
// configuration reloads, only the credential changes
func (s *Source) SetAppID(appID string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.appID = appID
}

func (s *Source) GetExchangeable() []label.Symbol {
	symbols := make([]label.Symbol, 0, len(label.Currencies))
	for symbol := range label.Currencies {
		symbols = append(symbols, symbol)
	}

	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	return symbols
}

func (s *Source) FetchLatest(ctx context.Context) (provider.Snapshot, error) {
	s.mtx.RLock()
	appID := s.appID
	u := s.latestURL
	s.mtx.RUnlock()

	if appID == "" {
		return provider.Snapshot{}, ErrMissingAppID
	}

	query := u.Query()
	query.Set("app_id", appID)
	u.RawQuery = query.Encode()

	b, err := s.client.Get(ctx, u)
	if err != nil {
		return provider.Snapshot{}, fmt.Errorf("fetching: %w", err)
	}

	snap, err := decode(b)
	if err != nil {
		return provider.Snapshot{}, fmt.Errorf("decode: %w", err)
	}

	return snap, nil
}

type latestResponse struct {
	Timestamp int64              `json:"timestamp"`
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
}

func decode(b []byte) (provider.Snapshot, error) {
	var resp latestResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return provider.Snapshot{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	base, err := label.ValidateCode(resp.Base)
	if err != nil {
		return provider.Snapshot{}, fmt.Errorf("%w: base %q", ErrBadPayload, resp.Base)
	}

	if len(resp.Rates) == 0 {
		return provider.Snapshot{}, fmt.Errorf("%w: empty rates", ErrBadPayload)
	}

	rates := make(map[label.Symbol]float64, len(resp.Rates)+1)
	rates[base] = 1

	for code, rate := range resp.Rates {
		symbol, err := label.ValidateCode(code)
		if err != nil {
			// the service quotes more currencies than the registry knows
			continue
		}

		if rate <= 0 {
			return provider.Snapshot{}, fmt.Errorf("%w: rate %s=%f", ErrBadPayload, code, rate)
		}

		rates[symbol] = rate
	}

	return provider.Snapshot{
		Base:  base,
		Time:  time.Unix(resp.Timestamp, 0).UTC(),
		Rates: rates,
	}, nil
}
