package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
)

// Record is one stored candidate payload.
type Record struct {
	ID        string              `json:"id"`
	Kind      candidate.Kind      `json:"kind"`
	Payload   candidate.RawRecord `json:"payload"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// RecordRepository reads and writes candidate records.
type RecordRepository struct {
	db DB
}

// NewRecordRepository creates a new record repository.
func NewRecordRepository(db DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Upsert stores rec, assigning an id when the payload has none. The payload's
// "id" and "kind" fields are kept in sync with the row.
func (r *RecordRepository) Upsert(ctx context.Context, rec *Record) error {
	if rec.Payload == nil {
		return fmt.Errorf("%w: empty payload", ErrInvalidRecord)
	}
	if rec.ID == "" {
		if id, ok := rec.Payload["id"].(string); ok && strings.TrimSpace(id) != "" {
			rec.ID = strings.TrimSpace(id)
		} else {
			rec.ID = uuid.NewString()
		}
	}
	if rec.Kind == "" {
		kind, _ := rec.Payload["kind"].(string)
		rec.Kind = candidate.ParseKind(kind)
	}
	rec.Payload["id"] = rec.ID
	rec.Payload["kind"] = string(rec.Kind)

	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrInvalidRecord, err)
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	query := `
		INSERT INTO candidate_records (id, kind, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			kind = excluded.kind,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query,
		rec.ID, string(rec.Kind), string(payload), rec.CreatedAt, rec.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert record %s: %w", rec.ID, err)
	}
	return nil
}

// GetByID retrieves a record by id.
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	query := `
		SELECT id, kind, payload, created_at, updated_at
		FROM candidate_records WHERE id = $1
	`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	return rec, nil
}

// ListByKind returns the payloads of every record of kind, oldest first.
func (r *RecordRepository) ListByKind(ctx context.Context, kind candidate.Kind) ([]candidate.RawRecord, error) {
	query := `
		SELECT id, kind, payload, created_at, updated_at
		FROM candidate_records WHERE kind = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []candidate.RawRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec.Payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Delete removes a record.
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM candidate_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByKind returns how many records of kind exist.
func (r *RecordRepository) CountByKind(ctx context.Context, kind candidate.Kind) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidate_records WHERE kind = $1`, string(kind)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec     Record
		kind    string
		payload string
	)
	if err := row.Scan(&rec.ID, &kind, &payload, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Kind = candidate.Kind(kind)
	if err := json.Unmarshal([]byte(payload), &rec.Payload); err != nil {
		return nil, fmt.Errorf("decode payload of %s: %w", rec.ID, err)
	}
	return &rec, nil
}
