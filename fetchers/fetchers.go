package fetchers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	fxreturns "github.com/ftsfr/fx-returns"
)

const (
	// BloombergGatewayURL is the default address of the HTTP sidecar exposing
	// terminal history data. Connectivity and authentication to the terminal
	// itself happen behind the gateway.
	BloombergGatewayURL = "http://localhost:18194/blp/refdata/history"

	historyField      = "PX_LAST"
	gatewayDateLayout = "2006-01-02"

	// oisDayCountBasis converts the quoted annualized OIS rate (in percent)
	// into the overnight return: money market ACT/360 convention.
	oisDayCountBasis = 360.0
)

var (
	ErrDataSourceUnavailable = errors.New("market data source unavailable")

	ErrUnAuthorized    = fmt.Errorf("%w: credentials rejected by gateway", ErrDataSourceUnavailable)
	ErrClient          = fmt.Errorf("%w: client error", ErrDataSourceUnavailable)
	ErrServer          = fmt.Errorf("%w: server error", ErrDataSourceUnavailable)
	ErrUnknown         = fmt.Errorf("%w: unknown error", ErrDataSourceUnavailable)
	ErrNoObservations  = fmt.Errorf("%w: gateway returned no observations", ErrDataSourceUnavailable)
	ErrUnknownCurrency = errors.New("no ticker mapping for currency")
)

// spotTickers maps each foreign currency to its terminal spot ticker. The
// numeraire has no spot against itself and is absent on purpose.
var spotTickers = map[fxreturns.Currency]string{
	fxreturns.AUD: "AUD Curncy",
	fxreturns.CAD: "CAD Curncy",
	fxreturns.CHF: "CHF Curncy",
	fxreturns.EUR: "EUR Curncy",
	fxreturns.GBP: "GBP Curncy",
	fxreturns.JPY: "JPY Curncy",
	fxreturns.NZD: "NZD Curncy",
	fxreturns.SEK: "SEK Curncy",
}

// oisTickers maps each foreign currency to its overnight index swap ticker.
var oisTickers = map[fxreturns.Currency]string{
	fxreturns.AUD: "ADSOA Curncy",
	fxreturns.CAD: "CDSOA Curncy",
	fxreturns.CHF: "SFSOA Curncy",
	fxreturns.EUR: "EUSOA Curncy",
	fxreturns.GBP: "BPSOA Curncy",
	fxreturns.JPY: "JYSOA Curncy",
	fxreturns.NZD: "NDSOA Curncy",
	fxreturns.SEK: "SKSOA Curncy",
}

// usdPerForeignQuoted marks currencies the terminal quotes as USD per foreign
// unit. Their spot observations are inverted on ingest so every spot in the
// pipeline is foreign units per 1 USD.
var usdPerForeignQuoted = map[fxreturns.Currency]bool{
	fxreturns.AUD: true,
	fxreturns.EUR: true,
	fxreturns.GBP: true,
	fxreturns.NZD: true,
}

func newHistoryRequest(ctx context.Context, url, apiKey string, tickers []string, dateRange fxreturns.DateRange) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "application/json")

	if apiKey != "" {
		req.Header.Add("Authorization", "Bearer "+apiKey)
	}

	var builder strings.Builder

	for _, ticker := range tickers {
		builder.WriteString(ticker)
		builder.WriteRune(',')
	}

	q := req.URL.Query()
	q.Add("tickers", strings.TrimRight(builder.String(), ","))
	q.Add("fields", historyField)
	q.Add("start", dateRange.Start.Format(gatewayDateLayout))
	q.Add("end", dateRange.End.Format(gatewayDateLayout))
	req.URL.RawQuery = q.Encode()

	return req, nil
}

func parseGatewayDate(value string) (time.Time, error) {
	date, err := time.Parse(gatewayDateLayout, value)

	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse gateway date %s: %w", value, err)
	}

	return date, nil
}
