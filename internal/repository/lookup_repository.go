package repository

import (
	"context"
	"database/sql"
	"sort"

	"gatelog/internal/entity"
)

type LookupRepository struct {
	db *sql.DB
}

func NewLookupRepository(db *sql.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) Values(ctx context.Context, typ entity.LookupType) ([]entity.LookupValue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, value FROM lookups WHERE type = $1 ORDER BY value
	`, string(typ))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []entity.LookupValue
	for rows.Next() {
		var lv entity.LookupValue
		if err := rows.Scan(&lv.ID, &lv.Type, &lv.Value); err != nil {
			return nil, err
		}
		values = append(values, lv)
	}
	return values, rows.Err()
}

func (r *LookupRepository) Add(ctx context.Context, typ entity.LookupType, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lookups (type, value) VALUES ($1, $2)`, string(typ), value)
	return err
}

// ReplaceAll swaps the full reference lists for the given types in one
// transaction: delete everything for those types, then insert the new
// values sorted. The bulk import depends on this being all-or-nothing.
func (r *LookupRepository) ReplaceAll(ctx context.Context, lists map[entity.LookupType][]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for typ, values := range lists {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM lookups WHERE type = $1`, string(typ)); err != nil {
			return err
		}

		sorted := append([]string(nil), values...)
		sort.Strings(sorted)

		for _, v := range sorted {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO lookups (type, value) VALUES ($1, $2)`, string(typ), v); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
