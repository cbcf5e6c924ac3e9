package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/internal/auth/store"
)

type accountsRepo struct {
	db *sql.DB
}

const accountColumns = `id, email, role, society_id, password_hash, token_version, is_active, created_at, updated_at`

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.AccountSnapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.AccountSnapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanAccount(row)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.AccountSnapshot) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, role, society_id, password_hash, token_version, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		strings.ToLower(strings.TrimSpace(a.Email)),
		string(a.Role),
		a.SocietyID,
		a.PasswordHash,
		a.TokenVersion,
		boolToInt(a.IsActive),
		now,
		now,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *accountsRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) BumpTokenVersion(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET token_version = token_version + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func scanAccount(row *sql.Row) (domain.AccountSnapshot, error) {
	var (
		a        domain.AccountSnapshot
		role     string
		isActive int
	)
	err := row.Scan(&a.ID, &a.Email, &role, &a.SocietyID, &a.PasswordHash,
		&a.TokenVersion, &isActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.AccountSnapshot{}, mapNotFound(err)
	}
	a.Role = domain.Role(role)
	a.IsActive = isActive != 0
	return a, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
