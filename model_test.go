package fxreturns_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fxreturns "github.com/ftsfr/fx-returns"
)

func TestConvertToCurrenciesFromStringSlice(t *testing.T) {
	assert := require.New(t)

	values := []struct {
		value    []string
		expected interface{}
		err      error
	}{
		{[]string{"eur", "JPY", "Sek"}, []fxreturns.Currency{fxreturns.EUR, fxreturns.JPY, fxreturns.SEK}, nil},
		{[]string{"not-valid-value"}, []fxreturns.Currency(nil), errors.New("value not-valid-value is not valid Currency")},
	}
	for _, value := range values {
		currencies, err := fxreturns.ConvertToCurrenciesFromStringSlice(value.value)
		assert.Equal(value.expected, currencies)
		assert.Equal(value.err, err)
	}
}

func TestConvertToCurrencyFromString(t *testing.T) {
	assert := require.New(t)
	values := []struct {
		value    string
		expected interface{}
		err      error
	}{
		{"aud", fxreturns.AUD, nil},
		{"USD", fxreturns.USD, nil},
		{"", fxreturns.Currency(""), errors.New("value  is not valid Currency")},
		{"BTC", fxreturns.Currency(""), errors.New("value BTC is not valid Currency")},
	}

	for _, value := range values {
		currency, err := fxreturns.ConvertToCurrencyFromString(value.value)
		assert.Equal(value.expected, currency)
		assert.Equal(value.err, err)
	}
}

func TestConvertToProviderFromString(t *testing.T) {
	assert := require.New(t)

	provider, err := fxreturns.ConvertToProviderFromString("bloomberg")
	assert.Nil(err)
	assert.Equal(fxreturns.BloombergGatewayProvider, provider)

	provider, err = fxreturns.ConvertToProviderFromString("not-valid-value")
	assert.Equal(fxreturns.EmptyProvider, provider)
	assert.Equal(errors.New("value not-valid-value is not valid Provider"), err)
}

func TestDateRangeValidate(t *testing.T) {
	assert := require.New(t)

	valid := fxreturns.DateRange{
		Start: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Nil(valid.Validate())

	inverted := fxreturns.DateRange{Start: valid.End, End: valid.Start}
	assert.Equal(fxreturns.ErrInvalidDateRange, inverted.Validate())
}

func TestDay(t *testing.T) {
	assert := require.New(t)

	loc := time.FixedZone("CET", 3600)
	stamp := time.Date(2020, time.June, 15, 17, 30, 12, 0, loc)

	assert.Equal(time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC), fxreturns.Day(stamp))
}
