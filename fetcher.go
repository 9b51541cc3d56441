package fxreturns

type (
	// Fetcher pulls the two raw daily series from the market data provider.
	// Both calls use the same trading calendar; dates for which the provider
	// has no observation for a currency are simply absent from the result.
	Fetcher interface {
		FetchSpotRates(dateRange DateRange, currencies []Currency) ([]SpotRate, error)
		FetchForeignReturns(dateRange DateRange, currencies []Currency) ([]ForeignReturn, error)
	}
)
