package repository

import (
	"context"
	"database/sql"

	"gstskill/pkg/rates"
)

// RateRepository serves the GST rate table from the gst_rate table:
//
//	CREATE TABLE gst_rate (item TEXT PRIMARY KEY, rate TEXT NOT NULL);
type RateRepository struct {
	db *sql.DB
}

func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

func (r *RateRepository) Name() string {
	return "postgres"
}

func (r *RateRepository) Load(ctx context.Context) ([]rates.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item, COALESCE(rate, '')
		FROM gst_rate
		ORDER BY item ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []rates.Entry
	for rows.Next() {
		var e rates.Entry
		if err := rows.Scan(&e.Item, &e.Rate); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *RateRepository) Upsert(ctx context.Context, entry rates.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO gst_rate(item, rate)
		VALUES($1, $2)
		ON CONFLICT (item) DO UPDATE SET rate = EXCLUDED.rate
	`, entry.Item, entry.Rate)
	return err
}
