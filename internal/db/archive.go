package db

import (
	"context"
	"encoding/json"
	"fmt"

	"shelfwise/internal/game"

	"github.com/jackc/pgx/v5/pgconn"
)

const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS shelf;

CREATE TABLE IF NOT EXISTS shelf.day_reports (
	id           bigserial PRIMARY KEY,
	game_id      uuid        NOT NULL,
	day          integer     NOT NULL,
	event_kind   text,
	revenue      numeric(14,2) NOT NULL,
	storage_cost numeric(14,2) NOT NULL,
	budget_after numeric(14,2) NOT NULL,
	report       jsonb       NOT NULL,
	created_at   timestamptz NOT NULL DEFAULT now(),
	UNIQUE (game_id, day)
);
`

// Execer is the part of *pgxpool.Pool the archive uses.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ReportArchive appends finished day reports to shelf.day_reports. It never
// reads them back.
type ReportArchive struct {
	db Execer
}

func NewReportArchive(db Execer) *ReportArchive {
	return &ReportArchive{db: db}
}

func (a *ReportArchive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure report schema: %w", err)
	}
	return nil
}

func (a *ReportArchive) SaveReport(ctx context.Context, gameID string, r game.DayReport) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode day report: %w", err)
	}
	var eventKind *string
	if r.Event != nil {
		kind := string(r.Event.Kind)
		eventKind = &kind
	}
	_, err = a.db.Exec(ctx, `
		INSERT INTO shelf.day_reports (game_id, day, event_kind, revenue, storage_cost, budget_after, report)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::jsonb)
		ON CONFLICT (game_id, day) DO NOTHING
	`, gameID, r.Day, eventKind, r.Revenue.String(), r.StorageCost.String(), r.BudgetAfter.String(), string(payload))
	if err != nil {
		return fmt.Errorf("insert day report: %w", err)
	}
	return nil
}
