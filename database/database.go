// Package database mirrors labeled trades into Postgres so the training
// dataset can be queried without pulling batch files from object storage.
// The mirror is optional; runs without DATABASE_URL skip it.
package database

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/optionlabs/screener/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS labeled_trades (
    signature              text PRIMARY KEY,
    snapshot_date          date NOT NULL,
    ticker                 text NOT NULL,
    strike                 double precision NOT NULL,
    expiration_date        date NOT NULL,
    stock_price            double precision NOT NULL,
    premium                double precision NOT NULL,
    final_price            double precision NOT NULL,
    assigned               boolean NOT NULL,
    realized_value         double precision NOT NULL,
    realized_return_pct    double precision NOT NULL,
    days_held              integer NOT NULL,
    realized_annual_return double precision NOT NULL,
    target_profitable      boolean NOT NULL,
    target_high_quality    boolean NOT NULL
);`

// Store wraps one Postgres connection pool.
type Store struct {
	db *sqlx.DB
}

// Connect opens the mirror described by DATABASE_URL. An empty URL means
// the mirror is disabled and both the *Store and the error are nil.
func Connect() (*Store, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, nil
	}
	return ConnectDSN(dsn)
}

func ConnectDSN(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertLabeledTrades upserts a batch. Conflicting signatures are rows that
// were already mirrored by an earlier run and are left untouched.
func (s *Store) InsertLabeledTrades(trades []models.LabeledTrade) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, trade := range trades {
		record := recordFromTrade(trade)
		_, err := tx.NamedExec(`insert into labeled_trades(
			signature, snapshot_date, ticker, strike, expiration_date,
			stock_price, premium, final_price, assigned, realized_value,
			realized_return_pct, days_held, realized_annual_return,
			target_profitable, target_high_quality)
		values (
			:signature, :snapshot_date, :ticker, :strike, :expiration_date,
			:stock_price, :premium, :final_price, :assigned, :realized_value,
			:realized_return_pct, :days_held, :realized_annual_return,
			:target_profitable, :target_high_quality)
		ON CONFLICT (signature) DO NOTHING;`, record)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %v: %w", record.Signature, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CountLabeledTrades is a health probe for the mirror.
func (s *Store) CountLabeledTrades() (int, error) {
	var count int
	if err := s.db.Get(&count, "select count(*) from labeled_trades;"); err != nil {
		return 0, fmt.Errorf("count labeled trades: %w", err)
	}
	return count, nil
}
