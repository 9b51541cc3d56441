package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/sirupsen/logrus"

	fxreturns "github.com/ftsfr/fx-returns"
)

type (
	// BloombergFetcher pulls daily history through the terminal HTTP gateway.
	BloombergFetcher struct {
		Ctx    context.Context
		URL    string
		APIKey string
		Logger *logrus.Logger
	}

	historyObservation struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	}

	historySeries struct {
		Ticker       string               `json:"ticker"`
		Observations []historyObservation `json:"observations"`
	}

	historyResponse struct {
		Series []historySeries `json:"series"`
	}
)

func (b BloombergFetcher) logger() *logrus.Logger {
	if b.Logger != nil {
		return b.Logger
	}

	return logrus.StandardLogger()
}

func (b BloombergFetcher) handleHTTPStatusCodeError(res *http.Response) error {
	if res.StatusCode == http.StatusOK {
		return nil
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return ErrUnAuthorized
	case res.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	case res.StatusCode >= http.StatusBadRequest:
		return ErrClient
	}

	return ErrUnknown
}

// fetchHistory requests one batch of daily series and indexes them by ticker.
// Every failure wraps ErrDataSourceUnavailable so the pipeline halts instead
// of computing on partial input.
func (b BloombergFetcher) fetchHistory(tickers []string, dateRange fxreturns.DateRange) (map[string][]historyObservation, error) {
	ctx := b.Ctx

	if ctx == nil {
		ctx = context.Background()
	}

	url := b.URL

	if url == "" {
		url = BloombergGatewayURL
	}

	req, err := newHistoryRequest(ctx, url, b.APIKey, tickers, dateRange)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSourceUnavailable, err)
	}

	client := &http.Client{}
	res, err := client.Do(req)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSourceUnavailable, err)
	}

	defer res.Body.Close()

	if err := b.handleHTTPStatusCodeError(res); err != nil {
		return nil, err
	}

	body, err := ioutil.ReadAll(res.Body)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSourceUnavailable, err)
	}

	var data historyResponse

	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSourceUnavailable, err)
	}

	series := make(map[string][]historyObservation, len(data.Series))
	total := 0

	for _, s := range data.Series {
		series[s.Ticker] = s.Observations
		total += len(s.Observations)
	}

	if total == 0 {
		return nil, ErrNoObservations
	}

	return series, nil
}

func (b BloombergFetcher) FetchSpotRates(dateRange fxreturns.DateRange, currencies []fxreturns.Currency) ([]fxreturns.SpotRate, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	tickers, byTicker, err := resolveTickers(spotTickers, currencies)

	if err != nil {
		return nil, err
	}

	series, err := b.fetchHistory(tickers, dateRange)

	if err != nil {
		return nil, err
	}

	rates := make([]fxreturns.SpotRate, 0, len(tickers))

	for ticker, observations := range series {
		currency, ok := byTicker[ticker]

		if !ok {
			b.logger().WithField("ticker", ticker).Warn("gateway returned an unrequested ticker, skipping")
			continue
		}

		for _, observation := range observations {
			date, err := parseGatewayDate(observation.Date)

			if err != nil {
				return nil, err
			}

			value := observation.Value

			if usdPerForeignQuoted[currency] {
				if value == 0 {
					b.logger().WithFields(logrus.Fields{
						"currency": currency,
						"date":     observation.Date,
					}).Warn("cannot invert zero quote, dropping observation")
					continue
				}

				value = 1.0 / value
			}

			rates = append(rates, fxreturns.SpotRate{
				Date:     date,
				Currency: currency,
				Rate:     value,
			})
		}
	}

	return rates, nil
}

func (b BloombergFetcher) FetchForeignReturns(dateRange fxreturns.DateRange, currencies []fxreturns.Currency) ([]fxreturns.ForeignReturn, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	tickers, byTicker, err := resolveTickers(oisTickers, currencies)

	if err != nil {
		return nil, err
	}

	series, err := b.fetchHistory(tickers, dateRange)

	if err != nil {
		return nil, err
	}

	returns := make([]fxreturns.ForeignReturn, 0, len(tickers))

	for ticker, observations := range series {
		currency, ok := byTicker[ticker]

		if !ok {
			b.logger().WithField("ticker", ticker).Warn("gateway returned an unrequested ticker, skipping")
			continue
		}

		for _, observation := range observations {
			date, err := parseGatewayDate(observation.Date)

			if err != nil {
				return nil, err
			}

			returns = append(returns, fxreturns.ForeignReturn{
				Date:     date,
				Currency: currency,
				// quoted annualized percent -> overnight return
				Return: observation.Value / 100.0 / oisDayCountBasis,
			})
		}
	}

	return returns, nil
}

// resolveTickers maps the requested currencies onto tickers, skipping the
// numeraire, and returns the reverse index used to label the response.
func resolveTickers(table map[fxreturns.Currency]string, currencies []fxreturns.Currency) ([]string, map[string]fxreturns.Currency, error) {
	tickers := make([]string, 0, len(currencies))
	byTicker := make(map[string]fxreturns.Currency, len(currencies))

	for _, currency := range currencies {
		if currency == fxreturns.Numeraire {
			continue
		}

		ticker, ok := table[currency]

		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
		}

		tickers = append(tickers, ticker)
		byTicker[ticker] = currency
	}

	return tickers, byTicker, nil
}
