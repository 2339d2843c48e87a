package repository

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"gatelog/internal/entity"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, COALESCE(full_name, ''), password_hash, role, is_active`

func scanUser(row *sql.Row) (entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive)
	return u, err
}

// Authenticate checks the password of an active account. Inactive and
// unknown accounts fail the same way as a wrong password.
func (r *UserRepository) Authenticate(ctx context.Context, email, password string) (entity.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1 AND is_active = TRUE
	`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return entity.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return entity.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, ErrNotFound
	}
	return u, err
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create hashes the password and inserts the account. A taken email
// reports ErrDuplicateEmail instead of bubbling a driver error.
func (r *UserRepository) Create(ctx context.Context, email, fullName, password string, role entity.Role) (int, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	var id int
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`, email, fullName, string(hash), string(role)).Scan(&id)
	return id, err
}

func (r *UserRepository) UpdateRoleActive(ctx context.Context, id int, role entity.Role, active bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET role = $1, is_active = $2 WHERE id = $3
	`, string(role), active, id)
	return err
}

func (r *UserRepository) SetPassword(ctx context.Context, id int, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $1 WHERE id = $2
	`, string(hash), id)
	return err
}

// ChangePassword verifies the current password before replacing it.
func (r *UserRepository) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	return r.SetPassword(ctx, u.ID, newPassword)
}
