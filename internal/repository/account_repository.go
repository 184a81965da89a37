package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lucasmtls/energy-monitor/internal/utils"
)

// Role labels form a closed set; anything else is rejected at the edge.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Account mirrors the 'accounts' table. Usernames are case-sensitive and
// stored as entered (trimmed); PasswordHash holds a bcrypt digest.
type Account struct {
	ID           uint64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// Create hashes the password and inserts the account, returning its ID.
// A username collision yields ErrUsernameExists.
func (r *AccountRepo) Create(ctx context.Context, username, password, role string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (username, password_hash, role) VALUES (?,?,?)",
		username, hash, role)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches an account by exact username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (Account, error) {
	username = strings.TrimSpace(username)
	var a Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,role,created_at FROM accounts WHERE username=? LIMIT 1",
		username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	return a, err
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (Account, error) {
	var a Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,role,created_at FROM accounts WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	return a, err
}

// List returns all accounts ordered by id. Password hashes are included in
// the struct but never serialized by handlers.
func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,username,password_hash,role,created_at FROM accounts ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update overwrites username and role for the given id. A rename onto a
// username held by a different account returns ErrUsernameExists; a missing
// id returns ErrAccountNotFound.
func (r *AccountRepo) Update(ctx context.Context, id uint64, username, role string) error {
	username = strings.TrimSpace(username)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET username=?, role=? WHERE id=?",
		username, role, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Delete removes an account by id. No cascade: energy records carry no
// owner reference. Returns ErrAccountNotFound when the row is already gone.
func (r *AccountRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM accounts WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Count reports the number of accounts; used by the startup bootstrap to
// decide whether to seed the first admin.
func (r *AccountRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&n)
	return n, err
}

// isUniqueViolation matches the sqlite UNIQUE constraint error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
