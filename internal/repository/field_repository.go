package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

// FieldRepo reads the external catalog's fields table. The catalog owns
// field lifecycle; this service only needs existence checks and the
// per-field row lock that serializes concurrent writers.
type FieldRepo struct {
	db *sql.DB
}

// NewFieldRepo returns a FieldRepo bound to the provided database.
func NewFieldRepo(db *sql.DB) *FieldRepo {
	return &FieldRepo{db: db}
}

// Exists reports whether the field is present in the catalog.
func (r *FieldRepo) Exists(ctx context.Context, fieldID string) (bool, error) {
	var id string
	err := r.queryRow(ctx, `SELECT id FROM fields WHERE id = ?`, fieldID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("field exists: %w", err)
	}
	return true, nil
}

// LockField takes a row lock on the field for the duration of the enclosing
// transaction. Every check-then-write sequence locks the field first, so two
// concurrent writers on the same field serialize and the second always sees
// the first's commitment during its own conflict check. Must be called with
// a context produced by CommitmentRepo.WithTx; outside a transaction the
// lock is released immediately and protects nothing.
func (r *FieldRepo) LockField(ctx context.Context, fieldID string) error {
	var id string
	err := r.queryRow(ctx, `SELECT id FROM fields WHERE id = ? FOR UPDATE`, fieldID).Scan(&id)
	if err == sql.ErrNoRows {
		return model.ErrFieldNotFound
	}
	if err != nil {
		return fmt.Errorf("lock field: %w", err)
	}
	return nil
}

func (r *FieldRepo) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRowContext(ctx, q, args...)
	}
	return r.db.QueryRowContext(ctx, q, args...)
}
