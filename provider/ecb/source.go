package ecb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/convq/label"
	"github.com/robotomize/convq/provider"
	"github.com/robotomize/convq/provider/httputil"
)

const hostname = "www.ecb.europa.eu"

const (
	latestXMLRawPath = "/stats/eurofxref/eurofxref-daily.xml"
	latestCSVRawPath = "/stats/eurofxref/eurofxref.zip"
)

var (
	defaultLatestResourceCSV = url.URL{Scheme: "https", Host: hostname, Path: latestCSVRawPath}
	defaultLatestResourceXML = url.URL{Scheme: "https", Host: hostname, Path: latestXMLRawPath}
)

var exchangeableSymbols = []label.Symbol{
	label.USD, label.EUR, label.JPY, label.BGN, label.CZK, label.DKK, label.GBP, label.HUF, label.PLN,
	label.RON, label.SEK, label.CHF, label.ISK, label.NOK, label.HRK, label.RUB, label.TRY, label.AUD,
	label.BRL, label.CAD, label.CNY, label.HKD, label.IDR, label.ILS, label.INR, label.KRW, label.MXN,
	label.MYR, label.NZD, label.PHP, label.SGD, label.THB, label.ZAR,
}

var _ provider.Source = (*Source)(nil)

type fetcher struct {
	latestURL url.URL
	decodeFunc
	httputil.SourceHTTPClient
}

// NewSource returns the European central bank reference-rate source. It needs
// no credential and serves as a fallback when no rate-service key is set
func NewSource(client *http.Client) *Source {
	httpClient := httputil.NewHTTPClient(client)

	return &Source{
		fetchers: []fetcher{{
			latestURL:        defaultLatestResourceCSV,
			decodeFunc:       decodeCSV(),
			SourceHTTPClient: httpClient,
		}, {
			latestURL:        defaultLatestResourceXML,
			decodeFunc:       decodeXML(),
			SourceHTTPClient: httpClient,
		}},
	}
}

type Source struct {
	fetchers []fetcher
}

func (s *Source) GetExchangeable() []label.Symbol {
	return exchangeableSymbols
}

func (s *Source) FetchLatest(ctx context.Context) (provider.Snapshot, error) {
	latest, err := s.fetchingPlan(ctx)
	if err != nil {
		return provider.Snapshot{}, fmt.Errorf("fetching plan: %w", err)
	}

	rates := make(map[label.Symbol]float64, len(latest.rates)+1)
	rates[label.EUR] = 1
	for _, r := range latest.rates {
		rates[r.symbol] = r.rate
	}

	return provider.Snapshot{
		Base:  label.EUR,
		Time:  latest.time,
		Rates: rates,
	}, nil
}

// fetchingPlan races the CSV and XML endpoints, the first decodable response
// wins, failures are aggregated
func (s *Source) fetchingPlan(ctx context.Context) (euroLatestRates, error) {
	type fetchingDat struct {
		err    error
		latest euroLatestRates
	}

	var dat fetchingDat
	var ferr *multierror.Error

	wg := sync.WaitGroup{}
	wg.Add(1)

	ch := make(chan fetchingDat)
	stopCh := make(chan struct{})

	for _, fet := range s.fetchers {
		fet := fet
		go func() {
			select {
			case <-stopCh:
				return
			default:
			}

			var d fetchingDat
			b, err := fet.Get(ctx, fet.latestURL)
			if err != nil {
				d.err = err
			} else {
				d.latest, d.err = fet.decodeFunc(b)
			}

			select {
			case <-stopCh:
				return
			case ch <- d:
			}
		}()
	}

	go func() {
		defer wg.Done()
		defer close(stopCh)
		n := len(s.fetchers)
		for {
			select {
			case <-ctx.Done():
				ferr = multierror.Append(ferr, fmt.Errorf("ctx cancelled: %w", ctx.Err()))
				return
			case dat = <-ch:
				n--
				if dat.err == nil {
					return
				}
				ferr = multierror.Append(ferr, dat.err)
				if n == 0 {
					return
				}
			}
		}
	}()

	wg.Wait()

	if dat.err != nil || len(dat.latest.rates) == 0 {
		if err := ferr.ErrorOrNil(); err != nil {
			return euroLatestRates{}, err
		}

		return euroLatestRates{}, errEmptyDocument
	}

	return dat.latest, nil
}
