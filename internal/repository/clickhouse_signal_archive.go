package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
)

// ClickHouseArchive writes published signal sets into ClickHouse for
// offline audit. It is a pure sink; nothing in the subsystem reads it
// back.
type ClickHouseArchive struct {
	db    *sql.DB
	table string
}

var _ domrepo.SignalArchive = (*ClickHouseArchive)(nil)

// NewClickHouseArchive creates an archive writing into the given table.
func NewClickHouseArchive(db *sql.DB, table string) *ClickHouseArchive {
	return &ClickHouseArchive{db: db, table: table}
}

// Archive inserts every signal of the set as one multi-row statement.
// An empty set still records the cycle via a zero-signal marker row so
// cycle completion is auditable.
func (a *ClickHouseArchive) Archive(ctx context.Context, set *models.SignalSet) error {
	if set == nil {
		return nil
	}

	if len(set.Signals) == 0 {
		query := fmt.Sprintf(
			"INSERT INTO %s (cross_type, symbol, exchange, pairing, fast_ma, slow_ma, detected_at, scanned_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			a.table,
		)
		if _, err := a.db.ExecContext(ctx, query,
			string(set.Type), "", "", "", 0.0, 0.0, set.ScannedAt, set.ScannedAt); err != nil {
			return fmt.Errorf("archive empty cycle: %w", err)
		}
		return nil
	}

	placeholders := make([]string, 0, len(set.Signals))
	args := make([]interface{}, 0, len(set.Signals)*8)
	for _, sig := range set.Signals {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			string(set.Type), sig.Symbol, sig.Exchange, sig.Pairing,
			sig.FastMA, sig.SlowMA, sig.DetectedAt, set.ScannedAt,
		)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (cross_type, symbol, exchange, pairing, fast_ma, slow_ma, detected_at, scanned_at) VALUES %s",
		a.table, strings.Join(placeholders, ", "),
	)
	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("archive %d signals: %w", len(set.Signals), err)
	}
	return nil
}

// Close is a no-op; the underlying client owns the connection.
func (a *ClickHouseArchive) Close() error { return nil }
