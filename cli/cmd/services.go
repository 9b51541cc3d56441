package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	fxreturns "github.com/ftsfr/fx-returns"
	"github.com/ftsfr/fx-returns/fetchers"
	"github.com/ftsfr/fx-returns/returns"
	"github.com/ftsfr/fx-returns/services"
	"github.com/ftsfr/fx-returns/storage"
)

func createStorages(config *Config) ([]fxreturns.Storage, error) {
	storages := make([]fxreturns.Storage, 0, len(config.Storage))
	for _, s := range config.Storage {
		c, ok := config.StorageConfig[s]
		if !ok {
			return nil, fmt.Errorf("storage %s does not exist", s)
		}

		st, err := storage.NewStorage(s, c)

		if err != nil {
			return nil, err
		}

		storages = append(storages, st)
	}

	return storages, nil
}

func createPipelineService(config *Config, storages []fxreturns.Storage, logger *logrus.Logger) (fxreturns.Service, error) {
	c, ok := config.FetcherConfig[config.Fetcher]

	if !ok {
		return nil, fmt.Errorf("fetcher %s does not exist", config.Fetcher)
	}

	return services.PipelineService{
		Fetcher:    fetchers.NewFetcher(config.Fetcher, c),
		Calculator: returns.Calculator{Logger: logger},
		Storages:   storages,
		Currencies: config.Currencies,
		Logger:     logger,
	}, nil
}
