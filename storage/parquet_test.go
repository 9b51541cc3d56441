package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fxreturns "github.com/ftsfr/fx-returns"
	"github.com/ftsfr/fx-returns/storage"
)

func testReturns() []fxreturns.FxReturn {
	day := func(offset int) time.Time {
		return time.Date(2020, time.March, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	return []fxreturns.FxReturn{
		{Date: day(1), Currency: fxreturns.EUR, Return: 0.00014732},
		{Date: day(2), Currency: fxreturns.EUR, Return: -0.00003},
		{Date: day(1), Currency: fxreturns.JPY, Return: 0.00001},
	}
}

func newParquetStorage(t *testing.T) (fxreturns.Storage, string) {
	path := filepath.Join(t.TempDir(), "ftsfr_fx_returns.parquet")

	st, err := storage.NewParquetStorage(storage.ParquetConfig{Path: path})
	require.Nil(t, err)

	return st, path
}

func TestParquetStorage_StoreAndReadBack(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	st, path := newParquetStorage(t)

	computed := testReturns()
	rows, err := st.Store(computed)
	assert.Nil(err)
	assert.Len(rows, len(computed))

	_, err = os.Stat(path)
	assert.Nil(err)

	stored, err := st.GetByDateRange(fxreturns.DateRange{
		Start: computed[0].Date.AddDate(0, 0, -1),
		End:   computed[1].Date,
	}, 1, 100)
	assert.Nil(err)
	assert.Len(stored, len(computed))

	for i, row := range stored {
		assert.Equal(computed[i].Currency, row.Currency)
		assert.Equal(computed[i].Date, row.Date)
		assert.InDelta(computed[i].Return, row.Return, 1e-15)
	}
}

func TestParquetStorage_GetByCurrency(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	st, _ := newParquetStorage(t)

	_, err := st.Store(testReturns())
	assert.Nil(err)

	rows, err := st.GetByCurrency(fxreturns.EUR, 1, 100)
	assert.Nil(err)
	assert.Len(rows, 2)

	rows, err = st.GetByCurrency(fxreturns.EUR, 1, 1)
	assert.Nil(err)
	assert.Len(rows, 1)

	rows, err = st.GetByCurrency(fxreturns.EUR, 2, 1)
	assert.Nil(err)
	assert.Len(rows, 1)

	rows, err = st.GetByCurrency(fxreturns.CHF, 1, 100)
	assert.Nil(err)
	assert.Empty(rows)
}

func TestParquetStorage_StoreReplacesPreviousFile(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	st, _ := newParquetStorage(t)

	computed := testReturns()

	_, err := st.Store(computed)
	assert.Nil(err)

	_, err = st.Store(computed)
	assert.Nil(err)

	rows, err := st.GetByDateRange(fxreturns.DateRange{
		Start: computed[0].Date.AddDate(0, 0, -1),
		End:   computed[1].Date,
	}, 1, 100)
	assert.Nil(err)
	assert.Len(rows, len(computed))
}

func TestParquetStorage_Drop(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	st, path := newParquetStorage(t)

	_, err := st.Store(testReturns())
	assert.Nil(err)

	assert.Nil(st.Drop())

	_, err = os.Stat(path)
	assert.True(os.IsNotExist(err))

	// dropping again is a no-op
	assert.Nil(st.Drop())
}

func TestNewParquetStorage_RequiresPath(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	_, err := storage.NewParquetStorage(storage.ParquetConfig{})
	assert.NotNil(err)
}
