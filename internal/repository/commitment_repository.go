package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

// dbTimeFormat is how DATETIME columns are written; with parseTime=true and
// loc=UTC on the DSN they scan back as UTC time.Time values.
const dbTimeFormat = "2006-01-02 15:04:05"

const mysqlErrDuplicateEntry = 1062

// CommitmentRepo persists bookings and schedule blocks. It performs no
// overlap validation of its own: the conflict detector runs first, inside
// the same transaction, on every write path.
type CommitmentRepo struct {
	db *sql.DB
}

// NewCommitmentRepo returns a CommitmentRepo bound to the provided database.
func NewCommitmentRepo(db *sql.DB) *CommitmentRepo {
	return &CommitmentRepo{db: db}
}

// WithTx runs fn inside a single transaction; repository calls made with the
// context passed to fn join it.
func (r *CommitmentRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// CommitmentsFor returns every commitment on the field whose interval
// overlaps the window, ordered by start time. The predicate is half-open:
// commitments that merely touch the window boundary are excluded.
func (r *CommitmentRepo) CommitmentsFor(ctx context.Context, fieldID string, window model.Interval) ([]model.Commitment, error) {
	const q = `SELECT id, field_id, kind, status, reason, note, owner_ref, starts_at, ends_at, created_at
               FROM commitments
               WHERE field_id = ? AND NOT (ends_at <= ? OR starts_at >= ?)
               ORDER BY starts_at`
	rows, err := r.query(ctx, q, fieldID,
		window.Start.UTC().Format(dbTimeFormat),
		window.End.UTC().Format(dbTimeFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("query commitments: %w", err)
	}
	defer rows.Close()

	var out []model.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single commitment by id, or model.ErrCommitmentNotFound.
func (r *CommitmentRepo) Get(ctx context.Context, id string) (model.Commitment, error) {
	const q = `SELECT id, field_id, kind, status, reason, note, owner_ref, starts_at, ends_at, created_at
               FROM commitments WHERE id = ?`
	rows, err := r.query(ctx, q, id)
	if err != nil {
		return model.Commitment{}, fmt.Errorf("get commitment: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Commitment{}, err
		}
		return model.Commitment{}, model.ErrCommitmentNotFound
	}
	return scanCommitment(rows)
}

// Insert appends a commitment. The id must be unique; model.ErrDuplicateID is
// returned when it already exists.
func (r *CommitmentRepo) Insert(ctx context.Context, c model.Commitment) error {
	const q = `INSERT INTO commitments (id, field_id, kind, status, reason, note, owner_ref, starts_at, ends_at, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.exec(ctx, q,
		c.ID,
		c.FieldID,
		string(c.Kind),
		nullable(string(c.Status)),
		nullable(string(c.Reason)),
		nullable(c.Note),
		c.OwnerRef,
		c.Interval.Start.UTC().Format(dbTimeFormat),
		c.Interval.End.UTC().Format(dbTimeFormat),
		c.CreatedAt.UTC().Format(dbTimeFormat),
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return model.ErrDuplicateID
		}
		return fmt.Errorf("insert commitment: %w", err)
	}
	return nil
}

// Remove deletes a commitment by id. model.ErrCommitmentNotFound when absent, so
// callers can decide whether a repeat delete is an error or a no-op.
func (r *CommitmentRepo) Remove(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM commitments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove commitment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrCommitmentNotFound
	}
	return nil
}

func scanCommitment(rows *sql.Rows) (model.Commitment, error) {
	var (
		c                    model.Commitment
		kind                 string
		status, reason, note sql.NullString
	)
	if err := rows.Scan(
		&c.ID, &c.FieldID, &kind, &status, &reason, &note,
		&c.OwnerRef, &c.Interval.Start, &c.Interval.End, &c.CreatedAt,
	); err != nil {
		return model.Commitment{}, err
	}
	c.Kind = model.CommitmentKind(kind)
	c.Status = model.BookingStatus(status.String)
	c.Reason = model.BlockReason(reason.String)
	c.Note = note.String
	return c, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *CommitmentRepo) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.ExecContext(ctx, q, args...)
	}
	return r.db.ExecContext(ctx, q, args...)
}

func (r *CommitmentRepo) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryContext(ctx, q, args...)
	}
	return r.db.QueryContext(ctx, q, args...)
}
