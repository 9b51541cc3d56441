package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debug {
		logger.SetLevel(logrus.DebugLevel)
		return logger
	}

	if level, err := logrus.ParseLevel(viper.GetString("log.level")); err == nil {
		logger.SetLevel(level)
	}

	return logger
}

func runPipeline(ctx context.Context, start, end, output string) error {
	if err := readInConfig(); err != nil {
		return fmt.Errorf("error while reading in the config file: %v", err)
	}

	logger := newLogger()

	config, err := getConfig(ctx, start, end, output, logger)

	if err != nil {
		return err
	}

	storages, err := createStorages(config)

	if err != nil {
		return err
	}

	defer func() {
		for _, st := range storages {
			if err := st.Close(); err != nil {
				logger.WithField("storage", st.GetStorageProviderName()).Warnf("error while closing storage: %v", err)
			}
		}
	}()

	service, err := createPipelineService(config, storages, logger)

	if err != nil {
		return err
	}

	results, err := service.Run(config.Range)

	if err != nil {
		return err
	}

	for storageName, rows := range results {
		logger.WithFields(logrus.Fields{
			"storage": storageName,
			"rows":    len(rows),
		}).Info("stored fx returns")

		if !debug {
			continue
		}

		for i, row := range rows {
			logger.Debugf("%d\t%s %s stored to %s: Return: %.10f", i, row.Currency, row.Date.Format(configDateLayout), storageName, row.Return)
		}
	}

	return nil
}

func run(ctx context.Context) *cobra.Command {
	var start, end, output string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch market data and compute the daily FX return series",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(ctx, start, end, output)
		},
	}

	runCmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD), overrides range.start")
	runCmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD), overrides range.end")
	runCmd.Flags().StringVar(&output, "output", "", "Output parquet path, overrides output.path")

	return runCmd
}
