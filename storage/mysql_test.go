package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bxcodec/faker/v3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	fxreturns "github.com/ftsfr/fx-returns"
	"github.com/ftsfr/fx-returns/storage"
)

const mysqlTableName = "fx_returns"

type IDGeneratorMock struct {
	mock.Mock
}

func (i *IDGeneratorMock) Generate() string {
	args := i.Called()
	return args.String(0)
}

func newMysqlStorage(t *testing.T, generator storage.IDGenerator) (fxreturns.Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)

	st, err := storage.NewMySQLStorage(storage.MySQLConfig{
		BaseConfig: storage.BaseConfig{
			Cxt: context.Background(),
		},
		TableName:   mysqlTableName,
		IDGenerator: generator,
		DB:          db,
	})
	require.Nil(t, err)

	return st, mock
}

func TestMySQLStorage_Store(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	id := faker.UUIDHyphenated()
	generator := &IDGeneratorMock{}
	generator.On("Generate").Return(id)

	st, dbMock := newMysqlStorage(t, generator)

	computed := []fxreturns.FxReturn{
		{
			Date:     time.Date(2020, time.March, 3, 0, 0, 0, 0, time.UTC),
			Currency: fxreturns.EUR,
			Return:   0.00014732,
		},
		{
			Date:     time.Date(2020, time.March, 3, 0, 0, 0, 0, time.UTC),
			Currency: fxreturns.JPY,
			Return:   -0.00001,
		},
	}

	dbMock.ExpectBegin()
	prepare := dbMock.ExpectPrepare(regexp.QuoteMeta(
		"INSERT INTO fx_returns(id, date, currency, return_value, created_at) VALUES (?,?,?,?,?);",
	))
	prepare.ExpectExec().
		WithArgs(id, "2020-03-03", "EUR", 0.00014732, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prepare.ExpectExec().
		WithArgs(id, "2020-03-03", "JPY", -0.00001, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	rows, err := st.Store(computed)
	assert.Nil(err)
	assert.Len(rows, 2)
	assert.Equal(id, rows[0].ID)
	assert.Equal(computed[0], rows[0].FxReturn)

	assert.Nil(dbMock.ExpectationsWereMet())
}

func TestMySQLStorage_StoreRollsBackOnError(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	generator := &IDGeneratorMock{}
	generator.On("Generate").Return(faker.UUIDHyphenated())

	st, dbMock := newMysqlStorage(t, generator)

	dbMock.ExpectBegin()
	prepare := dbMock.ExpectPrepare(regexp.QuoteMeta(
		"INSERT INTO fx_returns(id, date, currency, return_value, created_at) VALUES (?,?,?,?,?);",
	))
	prepare.ExpectExec().WillReturnError(errors.New("duplicate entry"))
	dbMock.ExpectRollback()

	_, err := st.Store([]fxreturns.FxReturn{
		{
			Date:     time.Date(2020, time.March, 3, 0, 0, 0, 0, time.UTC),
			Currency: fxreturns.EUR,
			Return:   0.0001,
		},
	})
	assert.NotNil(err)

	assert.Nil(dbMock.ExpectationsWereMet())
}

func TestMySQLStorage_GetByCurrency(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	st, dbMock := newMysqlStorage(t, nil)

	dbMock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, DATE_FORMAT(date, '%Y-%m-%d'), currency, return_value FROM fx_returns WHERE currency = ? ORDER BY date LIMIT ? OFFSET ?;",
	)).
		WithArgs("EUR", int64(10), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "currency", "return_value"}).
			AddRow(faker.UUIDHyphenated(), "2020-03-03", "EUR", 0.00014732).
			AddRow(faker.UUIDHyphenated(), "2020-03-04", "EUR", -0.00002))

	rows, err := st.GetByCurrency(fxreturns.EUR, 1, 10)
	assert.Nil(err)
	assert.Len(rows, 2)
	assert.Equal(fxreturns.EUR, rows[0].Currency)
	assert.Equal(time.Date(2020, time.March, 3, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.InDelta(0.00014732, rows[0].Return, 1e-15)

	assert.Nil(dbMock.ExpectationsWereMet())
}

func TestMySQLStorage_Migrate(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	st, dbMock := newMysqlStorage(t, nil)

	dbMock.ExpectExec("CREATE TABLE IF NOT EXISTS fx_returns").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Nil(st.Migrate())
	assert.Nil(dbMock.ExpectationsWereMet())
}

func TestMySQLStorage_Drop(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	st, dbMock := newMysqlStorage(t, nil)

	dbMock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS fx_returns;")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Nil(st.Drop())
	assert.Nil(dbMock.ExpectationsWereMet())
}
