package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	fxreturns "github.com/ftsfr/fx-returns"
	"github.com/ftsfr/fx-returns/fetchers"
	"github.com/ftsfr/fx-returns/storage"
)

const (
	configDateLayout  = "2006-01-02"
	defaultOutputPath = "./_data/ftsfr_fx_returns.parquet"
)

type (
	FetcherConfig map[fxreturns.Provider]interface{}
	StorageConfig map[storage.Provider]interface{}
	Config        struct {
		Fetcher       fxreturns.Provider
		Storage       []storage.Provider
		FetcherConfig FetcherConfig
		StorageConfig StorageConfig
		Currencies    []fxreturns.Currency
		Range         fxreturns.DateRange
	}
)

func getMysqlDSN(config map[string]string) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = config["user"]
	mysqlDriverConfig.Passwd = config["password"]
	mysqlDriverConfig.Addr = config["addr"]
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = config["db"]

	return mysqlDriverConfig.FormatDSN()
}

func getDateRange(start, end string) (fxreturns.DateRange, error) {
	if start == "" {
		start = viper.GetString("range.start")
	}

	if end == "" {
		end = viper.GetString("range.end")
	}

	startDate, err := time.Parse(configDateLayout, start)

	if err != nil {
		return fxreturns.DateRange{}, fmt.Errorf("error while parsing range.start: %v", err)
	}

	var endDate time.Time

	if end == "" {
		endDate = fxreturns.Day(time.Now())
	} else {
		endDate, err = time.Parse(configDateLayout, end)

		if err != nil {
			return fxreturns.DateRange{}, fmt.Errorf("error while parsing range.end: %v", err)
		}
	}

	dateRange := fxreturns.DateRange{Start: startDate, End: endDate}

	return dateRange, dateRange.Validate()
}

func getConfig(ctx context.Context, start, end, output string, logger *logrus.Logger) (*Config, error) {
	currencies, err := fxreturns.ConvertToCurrenciesFromStringSlice(viper.GetStringSlice("currencies"))

	if err != nil {
		return nil, err
	}

	if len(currencies) == 0 {
		currencies = fxreturns.Currencies()
	}

	storages, err := storage.ConvertToProvidersFromStringSlice(viper.GetStringSlice("storage"))

	if err != nil {
		return nil, err
	}

	if len(storages) == 0 {
		storages = []storage.Provider{storage.Parquet}
	}

	dateRange, err := getDateRange(start, end)

	if err != nil {
		return nil, err
	}

	if output == "" {
		output = viper.GetString("output.path")
	}

	if output == "" {
		output = defaultOutputPath
	}

	fetcher := fxreturns.BloombergGatewayProvider

	if str := viper.GetString("fetchers.provider"); str != "" {
		fetcher, err = fxreturns.ConvertToProviderFromString(str)

		if err != nil {
			return nil, err
		}
	}

	mysqlConfig := viper.GetStringMapString("databases.mysql")
	mongodbConfig := viper.GetStringMapString("databases.mongodb")

	storageBaseConfig := storage.BaseConfig{
		Cxt:     ctx,
		Migrate: viper.GetBool("migrate"),
	}

	return &Config{
		Fetcher: fetcher,
		Storage: storages,
		StorageConfig: StorageConfig{
			storage.Parquet: storage.ParquetConfig{
				BaseConfig: storageBaseConfig,
				Path:       output,
			},
			storage.MySQL: storage.MySQLConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: getMysqlDSN(mysqlConfig),
				TableName:        mysqlConfig["table"],
				IDGenerator:      nil,
			},
			storage.MongoDB: storage.MongoDBConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: mongodbConfig["uri"],
				Database:         mongodbConfig["db"],
				Collection:       mongodbConfig["collection"],
			},
		},
		FetcherConfig: FetcherConfig{
			fxreturns.BloombergGatewayProvider: fetchers.BloombergGatewayConfig{
				BaseConfig: fetchers.BaseConfig{
					Ctx: ctx,
					URL: viper.GetString("fetchers.bloomberg.url"),
				},
				APIKey: viper.GetString("fetchers.bloomberg.apikey"),
				Logger: logger,
			},
		},
		Currencies: currencies,
		Range:      dateRange,
	}, nil
}
