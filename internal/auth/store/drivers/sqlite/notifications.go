package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/strataworks/gatehouse/internal/auth/domain"
)

type notificationsRepo struct {
	db *sql.DB
}

func (r *notificationsRepo) Append(ctx context.Context, n domain.Notification) error {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, account_id, kind, message, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.AccountID, n.Kind, n.Message, boolToInt(n.Read), createdAt)
	return err
}

func (r *notificationsRepo) ListForAccount(ctx context.Context, accountID string, unreadOnly bool) ([]domain.Notification, error) {
	query := `SELECT id, account_id, kind, message, read, created_at
	          FROM notifications WHERE account_id = ?`
	if unreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var (
			n    domain.Notification
			read int
		)
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Kind, &n.Message, &read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Read = read != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationsRepo) MarkRead(ctx context.Context, id, accountID string) error {
	// Scoped to the account so one principal cannot mark another's
	// notifications.
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? AND account_id = ?`,
		id, accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *notificationsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE created_at < ?`, cutoff.UTC())
	if err == sql.ErrNoRows {
		return nil
	}
	return err
}
