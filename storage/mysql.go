package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	fxreturns "github.com/ftsfr/fx-returns"
)

const (
	MySQLDateFormat = "2006-01-02"
	MySQLTimeFormat = "2006-01-02 15:04:05"
)

type (
	IDGenerator interface {
		Generate() string
	}

	uuidGenerator struct{}

	mysqlStorage struct {
		ctx         context.Context
		db          *sql.DB
		tableName   string
		idGenerator IDGenerator
	}
)

func (uuidGenerator) Generate() string {
	return uuid.New().String()
}

func NewMySQLStorage(config MySQLConfig) (fxreturns.Storage, error) {
	ctx := config.Cxt

	if ctx == nil {
		ctx = context.Background()
	}

	db := config.DB

	if db == nil {
		var err error
		db, err = sql.Open("mysql", config.ConnectionString)

		if err != nil {
			return nil, err
		}
	}

	idGenerator := config.IDGenerator

	if idGenerator == nil {
		idGenerator = uuidGenerator{}
	}

	st := mysqlStorage{
		ctx:         ctx,
		db:          db,
		tableName:   config.TableName,
		idGenerator: idGenerator,
	}

	if config.Migrate {
		if err := st.Migrate(); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func (m mysqlStorage) Store(computed []fxreturns.FxReturn) ([]fxreturns.FxReturnWithID, error) {
	createdAt := time.Now()

	tx, err := m.db.Begin()

	if err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(m.ctx, fmt.Sprintf(
		"INSERT INTO %s(id, date, currency, return_value, created_at) VALUES (?,?,?,?,?);",
		m.tableName,
	))

	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	rows := make([]fxreturns.FxReturnWithID, 0, len(computed))

	for _, ret := range computed {
		id := m.idGenerator.Generate()

		_, err := stmt.ExecContext(
			m.ctx,
			id,
			ret.Date.Format(MySQLDateFormat),
			string(ret.Currency),
			ret.Return,
			createdAt.Format(MySQLTimeFormat),
		)

		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}

		rows = append(rows, fxreturns.FxReturnWithID{FxReturn: ret, ID: id})
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	return rows, nil
}

func (m mysqlStorage) scanRows(rows *sql.Rows) ([]fxreturns.FxReturnWithID, error) {
	result := make([]fxreturns.FxReturnWithID, 0)

	for rows.Next() {
		var (
			id          string
			date        string
			currency    string
			returnValue float64
		)

		if err := rows.Scan(&id, &date, &currency, &returnValue); err != nil {
			return nil, err
		}

		parsedDate, err := time.Parse(MySQLDateFormat, date)

		if err != nil {
			return nil, err
		}

		result = append(result, fxreturns.FxReturnWithID{
			FxReturn: fxreturns.FxReturn{
				Date:     parsedDate,
				Currency: fxreturns.Currency(currency),
				Return:   returnValue,
			},
			ID: id,
		})
	}

	return result, rows.Err()
}

func (m mysqlStorage) GetByCurrency(currency fxreturns.Currency, page, perPage int64) ([]fxreturns.FxReturnWithID, error) {
	rows, err := m.db.QueryContext(m.ctx, fmt.Sprintf(
		"SELECT id, DATE_FORMAT(date, '%%Y-%%m-%%d'), currency, return_value FROM %s WHERE currency = ? ORDER BY date LIMIT ? OFFSET ?;",
		m.tableName,
	), string(currency), perPage, (page-1)*perPage)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return m.scanRows(rows)
}

func (m mysqlStorage) GetByDateRange(dateRange fxreturns.DateRange, page, perPage int64) ([]fxreturns.FxReturnWithID, error) {
	rows, err := m.db.QueryContext(m.ctx, fmt.Sprintf(
		"SELECT id, DATE_FORMAT(date, '%%Y-%%m-%%d'), currency, return_value FROM %s WHERE date BETWEEN ? AND ? ORDER BY currency, date LIMIT ? OFFSET ?;",
		m.tableName,
	), dateRange.Start.Format(MySQLDateFormat), dateRange.End.Format(MySQLDateFormat), perPage, (page-1)*perPage)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return m.scanRows(rows)
}

func (m mysqlStorage) GetStorageProviderName() string {
	return string(MySQL)
}

func (m mysqlStorage) Migrate() error {
	_, err := m.db.ExecContext(m.ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s(
			id CHAR(36) PRIMARY KEY,
			date DATE NOT NULL,
			currency VARCHAR(3) NOT NULL,
			return_value DOUBLE NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE KEY date_currency (date, currency)
		);`,
		m.tableName,
	))

	return err
}

func (m mysqlStorage) Drop() error {
	_, err := m.db.ExecContext(m.ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", m.tableName))

	return err
}

func (m mysqlStorage) Close() error {
	return m.db.Close()
}
