package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"kalaur/internal/domain"
)

type SalesRepo struct{ db *sqlx.DB }

func NewSalesRepo(db *sqlx.DB) *SalesRepo { return &SalesRepo{db: db} }

// Append inserts all records in one transaction and returns the ones that
// were stored. Records are append-only; a repeated id is skipped.
func (r *SalesRepo) Append(ctx context.Context, recs []domain.SaleRecord) ([]domain.SaleRecord, error) {
	inserted := []domain.SaleRecord{}
	if len(recs) == 0 {
		return inserted, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()
	for _, s := range recs {
		res, err := tx.NamedExecContext(ctx, `
			INSERT INTO sales(id, kind, ref_id, quantity, amount_uah, created_at)
			VALUES (:id, :kind, :ref_id, :quantity, :amount_uah, :created_at)
			ON CONFLICT(id) DO NOTHING
		`, s)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			inserted = append(inserted, s)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}

func (r *SalesRepo) List(ctx context.Context) ([]domain.SaleRecord, error) {
	out := []domain.SaleRecord{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, kind, ref_id, quantity, amount_uah, created_at
		FROM sales
		ORDER BY created_at DESC, id
	`)
	return out, err
}

// Totals sums quantity and amount for one product or service over
// created_at in [from, to].
func (r *SalesRepo) Totals(ctx context.Context, kind domain.SaleKind, refID string, from, to int64) (int, float64, error) {
	var row struct {
		Qty    int     `db:"qty"`
		Amount float64 `db:"amount"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT COALESCE(SUM(quantity), 0) AS qty, COALESCE(SUM(amount_uah), 0) AS amount
		FROM sales
		WHERE kind = ? AND ref_id = ? AND created_at BETWEEN ? AND ?
	`, kind, refID, from, to)
	return row.Qty, row.Amount, err
}
