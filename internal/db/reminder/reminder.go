package dbreminder

import (
	"context"
	"fmt"
	c "thursday/internal/core/domain/common"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/reminder"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const reminderColumns = "id, message, trigger_at, created_at, fired, conversation_id"

type PgxReminderRepository struct {
	db DBTX
}

func NewPgxReminderRepository(db DBTX) *PgxReminderRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxReminderRepository{db: db}
}

func (r *PgxReminderRepository) Create(
	ctx context.Context,
	input reminder.CreateInput,
) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO reminders (message, trigger_at, created_at, fired, conversation_id)
		VALUES ($1, $2, $3, FALSE, $4)
		RETURNING `+reminderColumns,
		input.Message,
		reminder.TruncateTimestamp(input.TriggerAt),
		reminder.TruncateTimestamp(input.CreatedAt),
		input.ConversationID.Pointer(),
	)
	rem, err = decodeReminder(row)
	if err != nil {
		return rem, storeError("create reminder", err)
	}
	return rem, nil
}

func (r *PgxReminderRepository) GetDue(ctx context.Context, now time.Time) ([]reminder.Reminder, error) {
	return r.query(
		ctx,
		"get due reminders",
		`SELECT `+reminderColumns+` FROM reminders
		WHERE trigger_at <= $1 AND fired = FALSE
		ORDER BY trigger_at ASC, id ASC`,
		now,
	)
}

func (r *PgxReminderRepository) MarkFired(ctx context.Context, id reminder.ID) error {
	_, err := r.db.Exec(ctx, `UPDATE reminders SET fired = TRUE WHERE id = $1 AND fired = FALSE`, int64(id))
	if err != nil {
		return storeError("mark reminder fired", err)
	}
	return nil
}

func (r *PgxReminderRepository) ListActive(ctx context.Context) ([]reminder.Reminder, error) {
	return r.query(
		ctx,
		"list active reminders",
		`SELECT `+reminderColumns+` FROM reminders
		WHERE fired = FALSE
		ORDER BY trigger_at ASC, id ASC`,
	)
}

func (r *PgxReminderRepository) ListAll(ctx context.Context, limit uint) ([]reminder.Reminder, error) {
	return r.query(
		ctx,
		"list all reminders",
		`SELECT `+reminderColumns+` FROM reminders
		ORDER BY trigger_at DESC, id DESC
		LIMIT $1`,
		int64(limit),
	)
}

func (r *PgxReminderRepository) Delete(ctx context.Context, id reminder.ID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, int64(id))
	if err != nil {
		return false, storeError("delete reminder", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgxReminderRepository) query(
	ctx context.Context,
	op string,
	query string,
	args ...interface{},
) ([]reminder.Reminder, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	reminders := make([]reminder.Reminder, 0)
	for rows.Next() {
		rem, err := decodeReminder(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return reminders, nil
}

func decodeReminder(row pgx.Row) (rem reminder.Reminder, err error) {
	var (
		id             int64
		conversationID *string
	)
	err = row.Scan(&id, &rem.Message, &rem.TriggerAt, &rem.CreatedAt, &rem.Fired, &conversationID)
	if err != nil {
		return rem, err
	}
	rem.ID = reminder.ID(id)
	rem.ConversationID = c.FromPointer(conversationID)
	return rem, nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, reminder.ErrStoreUnavailable, err)
}
