package fetchers

import (
	"context"

	"github.com/sirupsen/logrus"

	fxreturns "github.com/ftsfr/fx-returns"
)

type (
	BaseConfig struct {
		Ctx context.Context
		URL string
	}
	BloombergGatewayConfig struct {
		BaseConfig
		APIKey string
		Logger *logrus.Logger
	}
)

func NewFetcher(provider fxreturns.Provider, config interface{}) fxreturns.Fetcher {
	switch provider {
	case fxreturns.BloombergGatewayProvider:
		c := config.(BloombergGatewayConfig)

		return BloombergFetcher{
			Ctx:    c.Ctx,
			URL:    c.URL,
			APIKey: c.APIKey,
			Logger: c.Logger,
		}
	}

	return nil
}
