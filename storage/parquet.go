package storage

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	fxreturns "github.com/ftsfr/fx-returns"
)

const ParquetDateFormat = "2006-01-02"

type (
	fxReturnRow struct {
		Date     string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
		Currency string  `parquet:"name=currency, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
		Return   float64 `parquet:"name=return, type=DOUBLE"`
	}

	parquetStorage struct {
		path string
	}
)

// NewParquetStorage writes the computed series to a single columnar file.
// Each Store call replaces the whole file; the pipeline is a full-refresh
// batch, so there is nothing to append to.
func NewParquetStorage(config ParquetConfig) (fxreturns.Storage, error) {
	if config.Path == "" {
		return nil, errors.New("parquet storage requires an output path")
	}

	st := parquetStorage{path: config.Path}

	if config.Migrate {
		if err := st.Migrate(); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func (p parquetStorage) Store(computed []fxreturns.FxReturn) ([]fxreturns.FxReturnWithID, error) {
	// Written to a temp file first and renamed into place, so a failed run
	// never leaves a partial output file behind.
	tmp, err := ioutil.TempFile(filepath.Dir(p.path), ".fx-returns-*.parquet")

	if err != nil {
		return nil, err
	}

	tmpName := tmp.Name()

	if err := tmp.Close(); err != nil {
		return nil, err
	}

	published := false

	defer func() {
		if !published {
			_ = os.Remove(tmpName)
		}
	}()

	fw, err := local.NewLocalFileWriter(tmpName)

	if err != nil {
		return nil, err
	}

	pw, err := writer.NewParquetWriter(fw, new(fxReturnRow), 1)

	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	rows := make([]fxreturns.FxReturnWithID, 0, len(computed))

	for i, ret := range computed {
		row := fxReturnRow{
			Date:     ret.Date.Format(ParquetDateFormat),
			Currency: string(ret.Currency),
			Return:   ret.Return,
		}

		if err := pw.Write(row); err != nil {
			_ = fw.Close()
			return nil, err
		}

		rows = append(rows, fxreturns.FxReturnWithID{FxReturn: ret, ID: int64(i)})
	}

	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return nil, err
	}

	if err := fw.Close(); err != nil {
		return nil, err
	}

	if err := os.Rename(tmpName, p.path); err != nil {
		return nil, err
	}

	published = true

	return rows, nil
}

func (p parquetStorage) read() ([]fxreturns.FxReturnWithID, error) {
	fr, err := local.NewLocalFileReader(p.path)

	if err != nil {
		return nil, err
	}

	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(fxReturnRow), 1)

	if err != nil {
		return nil, err
	}

	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	rows := make([]fxReturnRow, num)

	if err := pr.Read(&rows); err != nil {
		return nil, err
	}

	result := make([]fxreturns.FxReturnWithID, 0, num)

	for i, row := range rows {
		date, err := time.Parse(ParquetDateFormat, row.Date)

		if err != nil {
			return nil, err
		}

		result = append(result, fxreturns.FxReturnWithID{
			FxReturn: fxreturns.FxReturn{
				Date:     date,
				Currency: fxreturns.Currency(row.Currency),
				Return:   row.Return,
			},
			ID: int64(i),
		})
	}

	return result, nil
}

func paginate(rows []fxreturns.FxReturnWithID, page, perPage int64) []fxreturns.FxReturnWithID {
	start := (page - 1) * perPage

	if start < 0 || start >= int64(len(rows)) {
		return []fxreturns.FxReturnWithID{}
	}

	end := start + perPage

	if end > int64(len(rows)) {
		end = int64(len(rows))
	}

	return rows[start:end]
}

func (p parquetStorage) GetByCurrency(currency fxreturns.Currency, page, perPage int64) ([]fxreturns.FxReturnWithID, error) {
	rows, err := p.read()

	if err != nil {
		return nil, err
	}

	filtered := make([]fxreturns.FxReturnWithID, 0, len(rows))

	for _, row := range rows {
		if row.Currency == currency {
			filtered = append(filtered, row)
		}
	}

	return paginate(filtered, page, perPage), nil
}

func (p parquetStorage) GetByDateRange(dateRange fxreturns.DateRange, page, perPage int64) ([]fxreturns.FxReturnWithID, error) {
	rows, err := p.read()

	if err != nil {
		return nil, err
	}

	filtered := make([]fxreturns.FxReturnWithID, 0, len(rows))

	for _, row := range rows {
		if row.Date.Before(dateRange.Start) || row.Date.After(dateRange.End) {
			continue
		}

		filtered = append(filtered, row)
	}

	return paginate(filtered, page, perPage), nil
}

func (p parquetStorage) GetStorageProviderName() string {
	return string(Parquet)
}

func (p parquetStorage) Migrate() error {
	return os.MkdirAll(filepath.Dir(p.path), 0755)
}

func (p parquetStorage) Drop() error {
	err := os.Remove(p.path)

	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (p parquetStorage) Close() error {
	return nil
}
