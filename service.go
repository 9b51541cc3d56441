package fxreturns

type (
	// Service runs one full pipeline pass: fetch, compute, persist. The
	// returned map is keyed by storage provider name. Each run recomputes
	// the whole series from raw inputs; there is no incremental state.
	Service interface {
		Run(dateRange DateRange) (map[string][]FxReturnWithID, error)
	}
)
