package broker

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/robotomize/convq/label"
	"github.com/robotomize/convq/provider"
	"github.com/robotomize/convq/query"
)

func testSnapshot() provider.Snapshot {
	return provider.Snapshot{
		Base: label.USD,
		Time: time.Date(2021, 6, 18, 0, 0, 0, 0, time.UTC),
		Rates: map[label.Symbol]float64{
			label.USD: 1,
			label.EUR: 0.9,
			label.JPY: 150,
		},
	}
}

func TestBroker_TryUpdate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	source.EXPECT().FetchLatest(gomock.Any()).Return(testSnapshot(), nil).Times(1)

	b := New(WithSources(source), WithUpdateFreq(UpdateFreqDaily))

	if !b.TryUpdate(context.Background()) {
		t.Fatal("first TryUpdate: expected an attempt, table is empty")
	}

	if err := b.LastError(); err != nil {
		t.Fatalf("first TryUpdate: unexpected error %v", err)
	}

	before := b.Table()

	// immediately fresh again, no second fetch may happen
	if b.TryUpdate(context.Background()) {
		t.Fatal("second TryUpdate: expected no attempt while fresh")
	}

	if diff := cmp.Diff(before, b.Table()); diff != "" {
		t.Errorf("table changed without an update (-want, +got):\n%s", diff)
	}
}

func TestBroker_UpdateFailureKeepsTable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	first := source.EXPECT().FetchLatest(gomock.Any()).Return(testSnapshot(), nil).Times(1)
	source.EXPECT().FetchLatest(gomock.Any()).
		Return(provider.Snapshot{}, errors.New("connection refused")).
		AnyTimes().
		After(first)

	b := New(WithSources(source), WithRetryNum(0), WithRetryDuration(time.Millisecond))

	b.Update(context.Background())
	if err := b.LastError(); err != nil {
		t.Fatalf("first update: unexpected error %v", err)
	}

	before := b.Table()
	lastUpdate := b.LastUpdate()

	b.Update(context.Background())

	if err := b.LastError(); !errors.Is(err, ErrFetch) {
		t.Fatalf("failed update: got err %v, want %v", err, ErrFetch)
	}

	if diff := cmp.Diff(before, b.Table()); diff != "" {
		t.Errorf("failed update mutated the table (-want, +got):\n%s", diff)
	}

	if !b.LastUpdate().Equal(lastUpdate) {
		t.Errorf("failed update advanced lastUpdate")
	}
}

func TestBroker_UpdateFallbackSource(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	primary := provider.NewMockSource(ctrl)
	primary.EXPECT().FetchLatest(gomock.Any()).
		Return(provider.Snapshot{}, errors.New("missing app id")).
		AnyTimes()

	fallback := provider.NewMockSource(ctrl)
	fallback.EXPECT().FetchLatest(gomock.Any()).Return(provider.Snapshot{
		Base: label.EUR,
		Time: time.Date(2021, 6, 18, 0, 0, 0, 0, time.UTC),
		Rates: map[label.Symbol]float64{
			label.EUR: 1,
			label.USD: 1.25,
		},
	}, nil).Times(1)

	b := New(WithSources(primary, fallback), WithRetryNum(0), WithRetryDuration(time.Millisecond))
	b.Update(context.Background())

	if err := b.LastError(); err != nil {
		t.Fatalf("update: unexpected error %v", err)
	}

	// the EUR-base snapshot must be rebased against USD
	table := b.Table()
	if table.Base != label.USD {
		t.Fatalf("table base: got %s, want %s", table.Base, label.USD)
	}

	rate, ok := table.Rate(label.EUR)
	if !ok {
		t.Fatal("EUR missing from rebased table")
	}

	if math.Abs(rate-0.8) > 1e-9 {
		t.Errorf("EUR rate: got %f, want 0.8", rate)
	}
}

func TestBroker_SetDefaultSource(t *testing.T) {
	t.Parallel()

	b := New()
	if !b.SetDefaultSource("usd") {
		t.Fatal("SetDefaultSource(usd) failed")
	}

	if b.SetDefaultSource("not-a-code") {
		t.Fatal("SetDefaultSource accepted garbage")
	}

	if got := b.DefaultSource(); got != label.USD {
		t.Errorf("default source reset on invalid input: got %s, want %s", got, label.USD)
	}
}

func TestBroker_SetDefaultDestinations(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		ok       bool
		expected []label.Symbol
	}{
		{
			name:     "test_valid_list",
			input:    "usd EUR jpy",
			ok:       true,
			expected: []label.Symbol{label.USD, label.EUR, label.JPY},
		},
		{
			name:  "test_one_bad_code_rejects_all",
			input: "USD XXX JPY",
		},
		{
			name:  "test_empty",
			input: "   ",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b := New()
			prior := []label.Symbol{label.GBP}
			if !b.SetDefaultDestinations("GBP") {
				t.Fatal("seed destinations failed")
			}

			ok := b.SetDefaultDestinations(tc.input)
			if ok != tc.ok {
				t.Fatalf("SetDefaultDestinations(%q): got %v, want %v", tc.input, ok, tc.ok)
			}

			want := tc.expected
			if !tc.ok {
				want = prior
			}

			if diff := cmp.Diff(want, b.DefaultDestinations()); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestBroker_AliasLifecycle(t *testing.T) {
	t.Parallel()

	b := New()

	add := func() {
		t.Helper()
		if err := b.AddAlias("euro", "EUR"); err != nil {
			t.Fatalf("add alias: %v", err)
		}
		if err := b.AddAlias("bucks", "USD"); err != nil {
			t.Fatalf("add alias: %v", err)
		}
	}

	add()
	fresh := b.Aliases()

	// clear twice, then rebuild: the mapping must equal one built fresh
	b.ClearAliases()
	b.ClearAliases()

	if len(b.Aliases()) != 0 {
		t.Fatal("ClearAliases left residual entries")
	}

	add()

	if diff := cmp.Diff(fresh, b.Aliases()); diff != "" {
		t.Errorf("rebuilt aliases differ (-want, +got):\n%s", diff)
	}

	if err := b.AddAlias("usd", "USD"); err == nil {
		t.Error("alias colliding with a code was accepted")
	}

	if err := b.AddAlias("euro", "XXX"); err == nil {
		t.Error("alias to unknown code was accepted")
	}
}

func TestBroker_Convert(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	source.EXPECT().FetchLatest(gomock.Any()).Return(testSnapshot(), nil).Times(1)

	b := New(WithSources(source))
	b.Update(context.Background())

	testCases := []struct {
		name     string
		req      query.Request
		expected []float64
		err      error
	}{
		{
			name: "test_usd_to_eur_jpy",
			req: query.Request{
				Sources:      []query.Amount{{Symbol: label.USD, Value: 100}},
				Destinations: []label.Symbol{label.EUR, label.JPY},
			},
			expected: []float64{90, 15000},
		},
		{
			name: "test_eur_to_usd",
			req: query.Request{
				Sources:      []query.Amount{{Symbol: label.EUR, Value: 50}},
				Destinations: []label.Symbol{label.USD},
			},
			expected: []float64{50 / 0.9},
		},
		{
			name: "test_same_currency_exact",
			req: query.Request{
				Sources:      []query.Amount{{Symbol: label.JPY, Value: 123.45}},
				Destinations: []label.Symbol{label.JPY},
			},
			expected: []float64{123.45},
		},
		{
			name: "test_unfetched_destination",
			req: query.Request{
				Sources:      []query.Amount{{Symbol: label.USD, Value: 1}},
				Destinations: []label.Symbol{label.GBP},
			},
			err: ErrRateUnavailable,
		},
		{
			name: "test_unfetched_source",
			req: query.Request{
				Sources:      []query.Amount{{Symbol: label.GBP, Value: 1}},
				Destinations: []label.Symbol{label.USD},
			},
			err: ErrRateUnavailable,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			results, err := b.Convert(tc.req)
			if !errors.Is(err, tc.err) {
				t.Fatalf("got err %v, want %v", err, tc.err)
			}

			if tc.err != nil {
				return
			}

			if len(results) != len(tc.expected) {
				t.Fatalf("results len: got %d, want %d", len(results), len(tc.expected))
			}

			for i, want := range tc.expected {
				if tc.name == "test_same_currency_exact" {
					if results[i].Amount != want {
						t.Errorf("result %d: got %v, want exactly %v", i, results[i].Amount, want)
					}
					continue
				}

				if math.Abs(results[i].Amount-want) > 1e-9 {
					t.Errorf("result %d: got %v, want %v", i, results[i].Amount, want)
				}

				if results[i].Symbol != tc.req.Destinations[i] {
					t.Errorf("result %d symbol: got %s, want %s", i, results[i].Symbol, tc.req.Destinations[i])
				}
			}
		})
	}
}

func TestBroker_ConvertEmptyTable(t *testing.T) {
	t.Parallel()

	b := New()
	_, err := b.Convert(query.Request{
		Sources:      []query.Amount{{Symbol: label.USD, Value: 1}},
		Destinations: []label.Symbol{label.EUR},
	})

	if !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("got err %v, want %v", err, ErrRateUnavailable)
	}
}
