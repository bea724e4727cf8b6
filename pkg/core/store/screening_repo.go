package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"noncore_agent/pkg/core/analysis"
)

// ScreeningRepo stores one row per company, holding the latest screening
// run as a JSONB blob.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS asset_screenings (
//	  company TEXT PRIMARY KEY,
//	  ticker TEXT,
//	  run_id TEXT,
//	  result_json JSONB,
//	  updated_at TIMESTAMPTZ
//	);
type ScreeningRepo struct{}

func NewScreeningRepo() *ScreeningRepo {
	return &ScreeningRepo{}
}

// Save upserts the screening result keyed by company name.
func (r *ScreeningRepo) Save(ctx context.Context, res *analysis.ScreeningResult) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal screening result: %w", err)
	}

	query := `
		INSERT INTO asset_screenings (company, ticker, run_id, result_json, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company)
		DO UPDATE SET
			ticker = EXCLUDED.ticker,
			run_id = EXCLUDED.run_id,
			result_json = EXCLUDED.result_json,
			updated_at = EXCLUDED.updated_at;
	`

	if _, err := pool.Exec(ctx, query, res.Company, res.Ticker, res.RunID, jsonData, time.Now()); err != nil {
		return fmt.Errorf("failed to save screening result: %w", err)
	}
	return nil
}

// Load retrieves the latest screening result for a company.
func (r *ScreeningRepo) Load(ctx context.Context, company string) (*analysis.ScreeningResult, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT result_json FROM asset_screenings WHERE company = $1`

	var jsonData []byte
	if err := pool.QueryRow(ctx, query, company).Scan(&jsonData); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no screening found for %s", company)
		}
		return nil, fmt.Errorf("failed to load screening result: %w", err)
	}

	var res analysis.ScreeningResult
	if err := json.Unmarshal(jsonData, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal screening result: %w", err)
	}
	return &res, nil
}
