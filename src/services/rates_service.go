package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/kopilka/backend/src/logger"
	"github.com/username/kopilka/backend/src/models"
)

const (
	ratesCacheKey    = "exchange_rates"
	lastGoodRatesKey = "exchange_rates_last_good"

	// Used when the pivot-to-reference quote cannot be fetched.
	fallbackPivotRate = 95.0
)

// fallbackRateTable is the static last resort when the rates API is down and
// no previously fetched set is cached. Rates are pivot-free multipliers into
// the reference currency.
var fallbackRateTable = []models.ExchangeRate{
	{Currency: "USD", Rate: 95},
	{Currency: "EUR", Rate: 102},
	{Currency: "GBP", Rate: 118},
	{Currency: "GEL", Rate: 35},
	{Currency: "THB", Rate: 2.7},
	{Currency: "KRW", Rate: 0.073},
	{Currency: "CNY", Rate: 13.2},
	{Currency: "MYR", Rate: 20.2},
	{Currency: "RSD", Rate: 0.88},
}

// RatesConfig carries the tunables for the external rates API.
type RatesConfig struct {
	BaseURL   string
	Reference string
	Pivot     string
	CacheTTL  time.Duration
}

type ratesServiceImpl struct {
	currencies CurrencyLister
	cache      *cache.Cache
	client     *http.Client
	cfg        RatesConfig
}

func NewRatesService(currencies CurrencyLister, ratesCache *cache.Cache, cfg RatesConfig) RatesService {
	return &ratesServiceImpl{
		currencies: currencies,
		cache:      ratesCache,
		client:     &http.Client{Timeout: 10 * time.Second},
		cfg:        cfg,
	}
}

func (s *ratesServiceImpl) ReferenceCurrency() string {
	return s.cfg.Reference
}

// GetExchangeRates returns the current rate set without ever failing: a fresh
// fetch if the cache expired, otherwise the cached set, degrading to the last
// successful fetch and finally to the static table.
func (s *ratesServiceImpl) GetExchangeRates() []models.ExchangeRate {
	if cached, found := s.cache.Get(ratesCacheKey); found {
		return cached.([]models.ExchangeRate)
	}

	rates, err := s.fetchRates()
	if err != nil {
		logger.L.Warn("exchange rate fetch failed, serving degraded rates", "error", err)
		if last, found := s.cache.Get(lastGoodRatesKey); found {
			return last.([]models.ExchangeRate)
		}
		return s.staticFallback()
	}

	s.cache.Set(ratesCacheKey, rates, s.cfg.CacheTTL)
	s.cache.Set(lastGoodRatesKey, rates, cache.NoExpiration)
	return rates
}

// Convert turns an amount in fromCode into the reference currency. An unknown
// currency passes through at face value rather than failing the caller.
func (s *ratesServiceImpl) Convert(amount decimal.Decimal, fromCode string) decimal.Decimal {
	fromCode = strings.ToUpper(fromCode)
	if fromCode == s.cfg.Reference {
		return amount
	}
	for _, rate := range s.GetExchangeRates() {
		if rate.Currency == fromCode {
			return amount.Mul(decimal.NewFromFloat(rate.Rate))
		}
	}
	logger.L.Warn("no exchange rate for currency, passing amount through unconverted", "currency", fromCode)
	return amount
}

type ratesAPIResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (s *ratesServiceImpl) fetchRates() ([]models.ExchangeRate, error) {
	codes, err := s.currencies.ActiveCurrencyCodes()
	if err != nil {
		return nil, fmt.Errorf("list active currencies: %w", err)
	}

	symbols := make([]string, 0, len(codes))
	for _, code := range codes {
		if code != s.cfg.Reference {
			symbols = append(symbols, code)
		}
	}
	if len(symbols) == 0 {
		return []models.ExchangeRate{{Currency: s.cfg.Reference, Rate: 1}}, nil
	}

	quotes, err := s.fetchQuotes(symbols)
	if err != nil {
		return nil, err
	}
	pivotToReference := s.pivotToReferenceRate()

	rates := []models.ExchangeRate{{Currency: s.cfg.Reference, Rate: 1}}
	ordered := make([]string, 0, len(quotes))
	for code := range quotes {
		ordered = append(ordered, code)
	}
	sort.Strings(ordered)
	for _, code := range ordered {
		pivotToCode := quotes[code]
		if code == s.cfg.Reference || pivotToCode <= 0 {
			continue
		}
		rates = append(rates, models.ExchangeRate{Currency: code, Rate: pivotToReference / pivotToCode})
	}
	return rates, nil
}

func (s *ratesServiceImpl) fetchQuotes(symbols []string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/latest/%s?symbols=%s", s.cfg.BaseURL, s.cfg.Pivot, strings.Join(symbols, ","))
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates API returned status %d", resp.StatusCode)
	}
	var payload ratesAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}
	return payload.Rates, nil
}

// pivotToReferenceRate fetches how much reference currency one pivot unit
// buys. Any failure falls back to a fixed rate so a partial outage does not
// break the whole set.
func (s *ratesServiceImpl) pivotToReferenceRate() float64 {
	quotes, err := s.fetchQuotes([]string{s.cfg.Reference})
	if err != nil {
		logger.L.Warn("pivot rate fetch failed, using fallback", "fallback", fallbackPivotRate, "error", err)
		return fallbackPivotRate
	}
	rate, ok := quotes[s.cfg.Reference]
	if !ok || rate <= 0 {
		return fallbackPivotRate
	}
	return rate
}

func (s *ratesServiceImpl) staticFallback() []models.ExchangeRate {
	rates := []models.ExchangeRate{{Currency: s.cfg.Reference, Rate: 1}}
	for _, rate := range fallbackRateTable {
		if rate.Currency != s.cfg.Reference {
			rates = append(rates, rate)
		}
	}
	return rates
}
