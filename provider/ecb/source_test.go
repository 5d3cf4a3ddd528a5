package ecb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/robotomize/convq/label"
	"github.com/robotomize/convq/provider"
)

const testXMLBody = `
	<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01" xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
		<gesmes:subject>Reference rates</gesmes:subject>
		<gesmes:Sender>
			<gesmes:name>European Central Bank</gesmes:name>
		</gesmes:Sender>
		<Cube>
			<Cube time="2021-06-18">
				<Cube currency="USD" rate="1.1898"/>
				<Cube currency="JPY" rate="131.12"/>
			</Cube>
		</Cube>
	</gesmes:Envelope>
`

const testCSVBody = "Date, USD, JPY\n18 June 2021, 1.1898, 131.12"

const (
	testXMLLatestPattern = "/latest/xml"
	testCSVLatestPattern = "/latest/csv"
)

func testSource(t *testing.T, xmlHandler, csvHandler http.HandlerFunc) *Source {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(testXMLLatestPattern, xmlHandler)
	mux.HandleFunc(testCSVLatestPattern, csvHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	source := NewSource(srv.Client())
	base, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("url parse: %v", err)
	}

	csvURL := *base
	csvURL.Path = testCSVLatestPattern
	source.fetchers[0].latestURL = csvURL

	xmlURL := *base
	xmlURL.Path = testXMLLatestPattern
	source.fetchers[1].latestURL = xmlURL

	return source
}

func TestSource_GetExchangeable(t *testing.T) {
	t.Parallel()

	source := NewSource(http.DefaultClient)
	if len(source.GetExchangeable()) != len(exchangeableSymbols) {
		t.Errorf("exchangeable length mismatch")
	}
}

func TestSource_FetchLatest(t *testing.T) {
	t.Parallel()

	expected := provider.Snapshot{
		Base: label.EUR,
		Time: time.Date(2021, 6, 18, 0, 0, 0, 0, time.UTC),
		Rates: map[label.Symbol]float64{
			label.EUR: 1,
			label.USD: 1.1898,
			label.JPY: 131.12,
		},
	}

	ok := func(body, contentType string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(body))
		}
	}
	failed := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}

	testCases := []struct {
		name       string
		xmlHandler http.HandlerFunc
		csvHandler http.HandlerFunc
		wantErr    bool
	}{
		{
			name:       "test_both_endpoints_healthy",
			xmlHandler: ok(testXMLBody, "text/xml"),
			csvHandler: ok(testCSVBody, "text/csv"),
		},
		{
			name:       "test_csv_down_xml_wins",
			xmlHandler: ok(testXMLBody, "text/xml"),
			csvHandler: failed,
		},
		{
			name:       "test_xml_down_csv_wins",
			xmlHandler: failed,
			csvHandler: ok(testCSVBody, "text/csv"),
		},
		{
			name:       "test_both_down",
			xmlHandler: failed,
			csvHandler: failed,
			wantErr:    true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			source := testSource(t, tc.xmlHandler, tc.csvHandler)

			snap, err := source.FetchLatest(context.Background())
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("fetch latest: %v", err)
			}

			if diff := cmp.Diff(expected, snap); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}
