package services

import (
	"sync"

	"github.com/sirupsen/logrus"

	fxreturns "github.com/ftsfr/fx-returns"
	"github.com/ftsfr/fx-returns/returns"
)

// PipelineService composes one full run: fetch both raw series, compute the
// return table, fan it out to every configured storage. A fetch failure halts
// the run before anything is written.
type PipelineService struct {
	Fetcher    fxreturns.Fetcher
	Calculator returns.Calculator
	Storages   []fxreturns.Storage
	Currencies []fxreturns.Currency
	Logger     *logrus.Logger
}

func (p PipelineService) logger() *logrus.Logger {
	if p.Logger != nil {
		return p.Logger
	}

	return logrus.StandardLogger()
}

func saveToStorage(
	wg *sync.WaitGroup,
	computed []fxreturns.FxReturn,
	data *map[string][]fxreturns.FxReturnWithID,
	storage fxreturns.Storage,
	errorChannel chan<- error,
	mutex sync.Locker,
) {
	defer wg.Done()
	rows, err := storage.Store(computed)

	if err != nil {
		errorChannel <- err
		return
	}

	mutex.Lock()
	(*data)[storage.GetStorageProviderName()] = rows
	mutex.Unlock()
}

func (p PipelineService) Run(dateRange fxreturns.DateRange) (map[string][]fxreturns.FxReturnWithID, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	currencies := p.Currencies

	if len(currencies) == 0 {
		currencies = fxreturns.Currencies()
	}

	spots, err := p.Fetcher.FetchSpotRates(dateRange, currencies)
	if err != nil {
		return nil, err
	}

	frets, err := p.Fetcher.FetchForeignReturns(dateRange, currencies)
	if err != nil {
		return nil, err
	}

	computed := p.Calculator.Compute(spots, frets)

	seen := make(map[fxreturns.Currency]struct{})

	for _, row := range computed {
		seen[row.Currency] = struct{}{}
	}

	p.logger().WithFields(logrus.Fields{
		"rows":       len(computed),
		"currencies": len(seen),
		"start":      dateRange.Start.Format("2006-01-02"),
		"end":        dateRange.End.Format("2006-01-02"),
	}).Info("computed fx return series")

	var wg sync.WaitGroup
	mutex := &sync.RWMutex{}

	// Buffered so that every failing storage can send without blocking;
	// Run only reports the first error.
	errorChannel := make(chan error, len(p.Storages))
	data := make(map[string][]fxreturns.FxReturnWithID)

	wg.Add(len(p.Storages))
	for _, storage := range p.Storages {
		go saveToStorage(&wg, computed, &data, storage, errorChannel, mutex)
	}

	go func(wg *sync.WaitGroup, errorChannel chan error) {
		wg.Wait()
		close(errorChannel)
	}(&wg, errorChannel)

	if err, more := <-errorChannel; more {
		return nil, err
	}

	return data, nil
}
