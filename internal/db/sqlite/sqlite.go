package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	c "thursday/internal/core/domain/common"
	"thursday/internal/core/domain/reminder"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS reminders (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	message         TEXT    NOT NULL,
	trigger_at      INTEGER NOT NULL,
	created_at      INTEGER NOT NULL,
	fired           INTEGER NOT NULL DEFAULT 0,
	conversation_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_rem_trigger ON reminders(trigger_at);
CREATE INDEX IF NOT EXISTS idx_rem_fired   ON reminders(fired);
`

const reminderColumns = "id, message, trigger_at, created_at, fired, conversation_id"

// ReminderRepository keeps reminders in a SQLite file. All statements go
// through a single connection, which serializes writers and readers.
type ReminderRepository struct {
	db *sql.DB
}

func Open(ctx context.Context, path string) (*ReminderRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &ReminderRepository{db: db}, nil
}

func (r *ReminderRepository) Close() error {
	return r.db.Close()
}

func (r *ReminderRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *ReminderRepository) Create(
	ctx context.Context,
	input reminder.CreateInput,
) (rem reminder.Reminder, err error) {
	triggerAt, createdAt := input.TriggerAt.Unix(), input.CreatedAt.Unix()
	result, err := r.db.ExecContext(
		ctx,
		`INSERT INTO reminders (message, trigger_at, created_at, fired, conversation_id)
		VALUES (?, ?, ?, 0, ?)`,
		input.Message,
		triggerAt,
		createdAt,
		input.ConversationID.Pointer(),
	)
	if err != nil {
		return rem, storeError("create reminder", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return rem, storeError("create reminder", err)
	}
	return reminder.Reminder{
		ID:             reminder.ID(id),
		Message:        input.Message,
		TriggerAt:      time.Unix(triggerAt, 0),
		CreatedAt:      time.Unix(createdAt, 0),
		ConversationID: input.ConversationID,
	}, nil
}

func (r *ReminderRepository) GetDue(ctx context.Context, now time.Time) ([]reminder.Reminder, error) {
	return r.query(
		ctx,
		"get due reminders",
		`SELECT `+reminderColumns+` FROM reminders
		WHERE trigger_at <= ? AND fired = 0
		ORDER BY trigger_at ASC, id ASC`,
		now.Unix(),
	)
}

func (r *ReminderRepository) MarkFired(ctx context.Context, id reminder.ID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE reminders SET fired = 1 WHERE id = ? AND fired = 0`, int64(id))
	if err != nil {
		return storeError("mark reminder fired", err)
	}
	return nil
}

func (r *ReminderRepository) ListActive(ctx context.Context) ([]reminder.Reminder, error) {
	return r.query(
		ctx,
		"list active reminders",
		`SELECT `+reminderColumns+` FROM reminders
		WHERE fired = 0
		ORDER BY trigger_at ASC, id ASC`,
	)
}

func (r *ReminderRepository) ListAll(ctx context.Context, limit uint) ([]reminder.Reminder, error) {
	return r.query(
		ctx,
		"list all reminders",
		`SELECT `+reminderColumns+` FROM reminders
		ORDER BY trigger_at DESC, id DESC
		LIMIT ?`,
		int64(limit),
	)
}

func (r *ReminderRepository) Delete(ctx context.Context, id reminder.ID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, int64(id))
	if err != nil {
		return false, storeError("delete reminder", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, storeError("delete reminder", err)
	}
	return affected > 0, nil
}

func (r *ReminderRepository) query(
	ctx context.Context,
	op string,
	query string,
	args ...interface{},
) ([]reminder.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

func decodeReminder(rows *sql.Rows) (rem reminder.Reminder, err error) {
	var (
		id             int64
		triggerAt      int64
		createdAt      int64
		fired          int64
		conversationID sql.NullString
	)
	err = rows.Scan(&id, &rem.Message, &triggerAt, &createdAt, &fired, &conversationID)
	if err != nil {
		return rem, err
	}
	rem.ID = reminder.ID(id)
	rem.TriggerAt = time.Unix(triggerAt, 0)
	rem.CreatedAt = time.Unix(createdAt, 0)
	rem.Fired = fired != 0
	rem.ConversationID = c.NewOptional(conversationID.String, conversationID.Valid)
	return rem, nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, reminder.ErrStoreUnavailable, err)
}
