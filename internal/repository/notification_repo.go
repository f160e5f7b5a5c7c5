package repository

import (
	"context"
	"database/sql"

	"github.com/pujakart/promotion-service/internal/models"
)

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// InsertBatch writes all rows inside a single transaction. A broadcast either
// reaches every recipient or none; there is no partially delivered state.
func (r *NotificationRepo) InsertBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := `
		INSERT INTO notifications (id, user_id, title, message, read, type, admin_generated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, n := range notifications {
		if _, err := tx.ExecContext(ctx, stmt,
			n.ID, n.UserID, n.Title, n.Message, n.Read, n.Type, n.AdminGenerated, n.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, read, type, admin_generated, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message, &n.Read, &n.Type, &n.AdminGenerated, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
