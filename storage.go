package fxreturns

type Storage interface {
	Store(returns []FxReturn) ([]FxReturnWithID, error)
	GetByCurrency(currency Currency, page, perPage int64) ([]FxReturnWithID, error)
	GetByDateRange(dateRange DateRange, page, perPage int64) ([]FxReturnWithID, error)
	GetStorageProviderName() string
	Migrate() error
	Drop() error
	Close() error
}
