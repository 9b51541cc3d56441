// Package returns implements the FX return transform: the daily return of
// USD converted into a foreign currency at the previous close, held in that
// currency's overnight repo/OIS market, and converted back at the next close.
//
//	ret(t,i) = spot(t-1,i) / spot(t,i) * fret(t,i)
//
// The alignment policy is strict: spot and foreign-return tables are
// inner-joined on (date, currency); nothing is forward-filled or interpolated.
package returns

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	fxreturns "github.com/ftsfr/fx-returns"
)

type (
	Calculator struct {
		Logger *logrus.Logger
	}

	observation struct {
		date time.Time
		spot float64
		fret float64
	}

	seriesKey struct {
		date     time.Time
		currency fxreturns.Currency
	}
)

func (c Calculator) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return logrus.StandardLogger()
}

// Compute aligns the two input tables and produces the return series. Output
// is sorted by (currency, date) so identical inputs always yield identical
// output. The numeraire never appears in the result; currencies with fewer
// than two joined observations contribute no rows.
func (c Calculator) Compute(spots []fxreturns.SpotRate, frets []fxreturns.ForeignReturn) []fxreturns.FxReturn {
	joined := c.join(spots, frets)

	currencies := make([]fxreturns.Currency, 0, len(joined))

	for currency := range joined {
		currencies = append(currencies, currency)
	}

	sort.Slice(currencies, func(i, j int) bool {
		return currencies[i] < currencies[j]
	})

	result := make([]fxreturns.FxReturn, 0, len(spots))

	for _, currency := range currencies {
		series := joined[currency]

		sort.Slice(series, func(i, j int) bool {
			return series[i].date.Before(series[j].date)
		})

		// The first joined date has no predecessor and emits nothing. The
		// lag is row-previous within this currency's series: a missing date
		// makes the lag skip to the nearest earlier available one.
		for i := 1; i < len(series); i++ {
			previous, current := series[i-1], series[i]

			ratio := decimal.NewFromFloat(previous.spot).Div(decimal.NewFromFloat(current.spot))
			value, _ := ratio.Mul(decimal.NewFromFloat(current.fret)).Float64()

			result = append(result, fxreturns.FxReturn{
				Date:     current.date,
				Currency: currency,
				Return:   value,
			})
		}
	}

	return result
}

// join inner-joins spots and frets on (date, currency), dropping the
// numeraire and any non-positive spot observation.
func (c Calculator) join(spots []fxreturns.SpotRate, frets []fxreturns.ForeignReturn) map[fxreturns.Currency][]observation {
	fretIndex := make(map[seriesKey]float64, len(frets))

	for _, fret := range frets {
		key := seriesKey{date: fxreturns.Day(fret.Date), currency: fret.Currency}

		if _, exists := fretIndex[key]; exists {
			c.logger().WithFields(logrus.Fields{
				"currency": fret.Currency,
				"date":     key.date.Format("2006-01-02"),
			}).Debug("duplicate foreign return observation, keeping the last one")
		}

		fretIndex[key] = fret.Return
	}

	joined := make(map[fxreturns.Currency]map[time.Time]observation)

	for _, spot := range spots {
		if spot.Currency == fxreturns.Numeraire {
			continue
		}

		date := fxreturns.Day(spot.Date)

		if spot.Rate <= 0 {
			c.logger().WithFields(logrus.Fields{
				"currency": spot.Currency,
				"date":     date.Format("2006-01-02"),
				"rate":     spot.Rate,
			}).Warn("non-positive spot rate, excluding observation")
			continue
		}

		fret, exists := fretIndex[seriesKey{date: date, currency: spot.Currency}]

		if !exists {
			continue
		}

		series, exists := joined[spot.Currency]

		if !exists {
			series = make(map[time.Time]observation)
			joined[spot.Currency] = series
		}

		if _, exists := series[date]; exists {
			c.logger().WithFields(logrus.Fields{
				"currency": spot.Currency,
				"date":     date.Format("2006-01-02"),
			}).Debug("duplicate spot observation, keeping the last one")
		}

		series[date] = observation{date: date, spot: spot.Rate, fret: fret}
	}

	flattened := make(map[fxreturns.Currency][]observation, len(joined))

	for currency, series := range joined {
		observations := make([]observation, 0, len(series))

		for _, obs := range series {
			observations = append(observations, obs)
		}

		flattened[currency] = observations
	}

	return flattened
}
