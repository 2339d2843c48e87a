package database

import (
	"context"
	"database/sql"

	"golang.org/x/crypto/bcrypt"

	"gatelog/internal/entity"
)

// DefaultPassword is the seed password for the bootstrap accounts.
// Deployments change it through the admin screen on first login.
const DefaultPassword = "changeme"

var seedUsers = []struct {
	email    string
	fullName string
	role     entity.Role
}{
	{"admin@gatelog.local", "Administrator", entity.RoleAdmin},
	{"employee@gatelog.local", "Example Employee", entity.RoleEmployee},
	{"gatehouse@gatelog.local", "Gatehouse", entity.RoleGatehouse},
	{"security@gatelog.local", "Security Chief", entity.RoleSecurityChief},
}

var seedLookups = map[entity.LookupType][]string{
	entity.LookupEmployee: {"Example Employee"},
	entity.LookupObject:   {"Main building", "Warehouse"},
}

// Seed inserts the bootstrap accounts and initial dropdown values.
// Existing accounts are left alone; a lookup list is only filled when
// it is completely empty, so imported or admin-managed lists survive
// restarts untouched.
func Seed(ctx context.Context, db *sql.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, u := range seedUsers {
		_, err := db.ExecContext(ctx, `
			INSERT INTO users (email, full_name, password_hash, role, is_active)
			VALUES ($1, $2, $3, $4, TRUE)
			ON CONFLICT (email) DO NOTHING
		`, u.email, u.fullName, string(hash), string(u.role))
		if err != nil {
			return err
		}
	}

	for typ, values := range seedLookups {
		var count int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM lookups WHERE type = $1`, string(typ),
		).Scan(&count)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		for _, v := range values {
			_, err := db.ExecContext(ctx,
				`INSERT INTO lookups (type, value) VALUES ($1, $2)`, string(typ), v)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
