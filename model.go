package fxreturns

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Currency is one of the fixed set of ISO codes the pipeline knows about.
// USD is the numeraire: spot rates are quoted as foreign units per 1 USD and
// no return series is ever produced for USD itself.
type Currency string

const (
	AUD Currency = "AUD"
	CAD Currency = "CAD"
	CHF Currency = "CHF"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	NZD Currency = "NZD"
	SEK Currency = "SEK"
	USD Currency = "USD"
)

// Numeraire is the base currency all returns are measured against.
const Numeraire = USD

var ErrInvalidDateRange = errors.New("start date is after end date")

func Currencies() []Currency {
	return []Currency{AUD, CAD, CHF, EUR, GBP, JPY, NZD, SEK, USD}
}

func ConvertToCurrenciesFromStringSlice(strings []string) ([]Currency, error) {
	currencies := make([]Currency, 0, len(strings))

	for _, str := range strings {
		currency, err := ConvertToCurrencyFromString(str)
		if err != nil {
			return nil, err
		}

		currencies = append(currencies, currency)
	}

	return currencies, nil
}

func ConvertToCurrencyFromString(str string) (Currency, error) {
	switch strings.ToUpper(str) {
	case "AUD":
		return AUD, nil
	case "CAD":
		return CAD, nil
	case "CHF":
		return CHF, nil
	case "EUR":
		return EUR, nil
	case "GBP":
		return GBP, nil
	case "JPY":
		return JPY, nil
	case "NZD":
		return NZD, nil
	case "SEK":
		return SEK, nil
	case "USD":
		return USD, nil
	}

	return "", fmt.Errorf("value %s is not valid Currency", str)
}

type (
	// SpotRate is one observation of an exchange rate, foreign units per 1 USD.
	SpotRate struct {
		Date     time.Time
		Currency Currency
		Rate     float64
	}

	// ForeignReturn is the daily overnight return ("fret") earned by holding
	// the currency in its local repo/OIS market on the given date.
	ForeignReturn struct {
		Date     time.Time
		Currency Currency
		Return   float64
	}

	// FxReturn is the daily return of USD invested in the foreign currency:
	// converted at spot on t-1, held overnight, converted back at spot on t.
	FxReturn struct {
		Date     time.Time
		Currency Currency
		Return   float64
	}

	FxReturnWithID struct {
		FxReturn
		ID interface{}
	}
)

type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return ErrInvalidDateRange
	}

	return nil
}

// Day truncates a timestamp to its calendar date in UTC. All tables are keyed
// on calendar dates, never intraday timestamps.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
