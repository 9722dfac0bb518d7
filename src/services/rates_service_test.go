package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/kopilka/backend/src/models"
)

type fakeCurrencyLister struct {
	codes []string
	err   error
}

func (f *fakeCurrencyLister) ActiveCurrencyCodes() ([]string, error) {
	return f.codes, f.err
}

func newRatesTestServer(t *testing.T, requests *atomic.Int64, failing *atomic.Bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if failing != nil && failing.Load() {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("symbols") == "RUB" {
			fmt.Fprint(w, `{"rates":{"RUB":90}}`)
			return
		}
		fmt.Fprint(w, `{"rates":{"USD":1,"EUR":0.5}}`)
	}))
}

func newTestRatesService(baseURL string, lister CurrencyLister) RatesService {
	return NewRatesService(lister, cache.New(time.Hour, time.Hour), RatesConfig{
		BaseURL:   baseURL,
		Reference: "RUB",
		Pivot:     "USD",
		CacheTTL:  time.Hour,
	})
}

func rateFor(rates []models.ExchangeRate, code string) (float64, bool) {
	for _, r := range rates {
		if r.Currency == code {
			return r.Rate, true
		}
	}
	return 0, false
}

func TestGetExchangeRatesPivotMath(t *testing.T) {
	var requests atomic.Int64
	server := newRatesTestServer(t, &requests, nil)
	defer server.Close()

	svc := newTestRatesService(server.URL, &fakeCurrencyLister{codes: []string{"RUB", "USD", "EUR"}})
	rates := svc.GetExchangeRates()

	if got, ok := rateFor(rates, "RUB"); !ok || got != 1 {
		t.Errorf("RUB rate = %v, want 1", got)
	}
	if got, ok := rateFor(rates, "USD"); !ok || got != 90 {
		t.Errorf("USD rate = %v, want 90", got)
	}
	if got, ok := rateFor(rates, "EUR"); !ok || got != 180 {
		t.Errorf("EUR rate = %v, want 180 (90 / 0.5)", got)
	}
	if rates[0].Currency != "RUB" {
		t.Errorf("first rate = %q, want reference currency first", rates[0].Currency)
	}
}

func TestGetExchangeRatesServesFromCache(t *testing.T) {
	var requests atomic.Int64
	server := newRatesTestServer(t, &requests, nil)
	defer server.Close()

	svc := newTestRatesService(server.URL, &fakeCurrencyLister{codes: []string{"RUB", "USD"}})
	svc.GetExchangeRates()
	after := requests.Load()
	svc.GetExchangeRates()

	if requests.Load() != after {
		t.Errorf("second call hit the API, want cached rates (requests %d -> %d)", after, requests.Load())
	}
}

func TestGetExchangeRatesStaticFallback(t *testing.T) {
	var requests atomic.Int64
	var failing atomic.Bool
	failing.Store(true)
	server := newRatesTestServer(t, &requests, &failing)
	defer server.Close()

	svc := newTestRatesService(server.URL, &fakeCurrencyLister{codes: []string{"RUB", "USD"}})
	rates := svc.GetExchangeRates()

	if got, ok := rateFor(rates, "RUB"); !ok || got != 1 {
		t.Errorf("RUB rate = %v, want 1", got)
	}
	if got, ok := rateFor(rates, "USD"); !ok || got != 95 {
		t.Errorf("USD fallback rate = %v, want 95", got)
	}
}

func TestGetExchangeRatesLastGoodBeatsStaticFallback(t *testing.T) {
	var requests atomic.Int64
	var failing atomic.Bool
	server := newRatesTestServer(t, &requests, &failing)
	defer server.Close()

	ratesCache := cache.New(time.Hour, time.Hour)
	svc := NewRatesService(&fakeCurrencyLister{codes: []string{"RUB", "USD"}}, ratesCache, RatesConfig{
		BaseURL:   server.URL,
		Reference: "RUB",
		Pivot:     "USD",
		CacheTTL:  time.Hour,
	})

	fresh := svc.GetExchangeRates()
	if got, _ := rateFor(fresh, "USD"); got != 90 {
		t.Fatalf("fresh USD rate = %v, want 90", got)
	}

	// Expire the hot entry and break the upstream: the last fetched set must
	// win over the static table.
	ratesCache.Delete(ratesCacheKey)
	failing.Store(true)

	degraded := svc.GetExchangeRates()
	if got, _ := rateFor(degraded, "USD"); got != 90 {
		t.Errorf("degraded USD rate = %v, want last good 90", got)
	}
}

func TestGetExchangeRatesListerFailureFallsBack(t *testing.T) {
	svc := newTestRatesService("http://127.0.0.1:0", &fakeCurrencyLister{err: fmt.Errorf("db locked")})
	rates := svc.GetExchangeRates()
	if len(rates) == 0 {
		t.Fatal("GetExchangeRates() returned empty set, want fallback rates")
	}
}

func TestConvert(t *testing.T) {
	var requests atomic.Int64
	server := newRatesTestServer(t, &requests, nil)
	defer server.Close()

	svc := newTestRatesService(server.URL, &fakeCurrencyLister{codes: []string{"RUB", "USD", "EUR"}})

	tests := []struct {
		name   string
		amount string
		code   string
		want   string
	}{
		{"reference passthrough", "150.25", "RUB", "150.25"},
		{"pivot currency", "2", "USD", "180"},
		{"derived currency", "3", "EUR", "540"},
		{"lowercase code", "2", "usd", "180"},
		{"unknown currency passthrough", "42", "XXX", "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			want := decimal.RequireFromString(tt.want)
			if got := svc.Convert(amount, tt.code); !got.Equal(want) {
				t.Errorf("Convert(%s, %s) = %s, want %s", tt.amount, tt.code, got, want)
			}
		})
	}
}
