// Package session implements scanning session persistence using PostgreSQL.
// Expected items and statistics are JSONB columns; scanned items live in
// session_scans so the (session_id, qr_id) key can back duplicate detection.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/aerotrack/partledger/internal/adapter/postgres"
	"github.com/aerotrack/partledger/internal/domain"
)

// Repo provides scanning session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const sessionColumns = `id, operator_id, operator_name, operator_email, operation_type, job_card_ref,
       expected_items, statistics, status, started_at, ended_at, duration_ms, notes,
       cancel_reason, created_at`

const createSQL = `
INSERT INTO scanning_sessions (id, operator_id, operator_name, operator_email, operation_type,
                               job_card_ref, expected_items, statistics, status, started_at,
                               created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

const getByIDSQL = `
SELECT ` + sessionColumns + `
FROM scanning_sessions
WHERE id = $1`

const getForUpdateSQL = getByIDSQL + `
FOR UPDATE`

const scansSQL = `
SELECT qr_id, part_name, part_number, serial_number, scanned_at, is_expected, status,
       previous_status, message
FROM session_scans
WHERE session_id = $1
ORDER BY seq`

const appendScanSQL = `
INSERT INTO session_scans (session_id, seq, qr_id, part_name, part_number, serial_number,
                           scanned_at, is_expected, status, previous_status, message)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Only an ACTIVE row may be written; a terminal session is immutable.
const saveSQL = `
UPDATE scanning_sessions
SET expected_items = $2, statistics = $3, status = $4, ended_at = $5, duration_ms = $6,
    notes = $7, cancel_reason = $8, updated_at = $9
WHERE id = $1 AND status = 'ACTIVE'`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns a session with its scanned items.
// Returns domain.ErrNotFound if the session does not exist.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
	return r.get(ctx, getByIDSQL, id)
}

// GetForUpdate is Get plus a row lock on the session held until the
// surrounding transaction ends.
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
	return r.get(ctx, getForUpdateSQL, id)
}

func (r *Repo) get(ctx context.Context, sql string, id uuid.UUID) (*domain.ScanningSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, postgres.MapError(err, "session", id)
	}

	items, err := r.scans(ctx, querier, id)
	if err != nil {
		return nil, err
	}
	s.ScannedItems = items

	return s, nil
}

func (r *Repo) scans(ctx context.Context, querier postgres.Querier, id uuid.UUID) ([]domain.ScannedItem, error) {
	rows, err := querier.Query(ctx, scansSQL, id)
	if err != nil {
		return nil, fmt.Errorf("session %s: list scans: %w", id, err)
	}
	defer rows.Close()

	items := []domain.ScannedItem{}
	for rows.Next() {
		var (
			it             domain.ScannedItem
			status, before string
		)
		if err := rows.Scan(&it.QRID, &it.PartName, &it.PartNumber, &it.SerialNumber,
			&it.ScannedAt, &it.IsExpected, &status, &before, &it.Message); err != nil {
			return nil, fmt.Errorf("session %s: scan row: %w", id, err)
		}
		it.Status = domain.ItemStatus(status)
		it.PreviousStatus = domain.ItemStatus(before)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session %s: list scans: %w", id, err)
	}
	return items, nil
}

// List returns sessions matching filter, newest first, and the total number
// of matches. Scanned items are not loaded; statistics carry the counts.
func (r *Repo) List(ctx context.Context, filter domain.SessionFilter) ([]domain.ScanningSession, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	where := squirrel.Eq{}
	if filter.OperatorID != nil {
		where["operator_id"] = *filter.OperatorID
	}
	if filter.Status != nil {
		where["status"] = string(*filter.Status)
	}
	if filter.OperationType != nil {
		where["operation_type"] = string(*filter.OperationType)
	}

	count := postgres.Builder().Select("count(*)").From("scanning_sessions").Where(where)
	list := postgres.Builder().Select(sessionColumns).From("scanning_sessions").Where(where)
	if filter.StartedFrom != nil {
		count = count.Where("started_at >= ?", *filter.StartedFrom)
		list = list.Where("started_at >= ?", *filter.StartedFrom)
	}
	if filter.StartedTo != nil {
		count = count.Where("started_at < ?", *filter.StartedTo)
		list = list.Where("started_at < ?", *filter.StartedTo)
	}

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count sessions: %w", err)
	}
	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	list = list.OrderBy("started_at DESC", "id").Offset(uint64(filter.Offset))
	if filter.Limit > 0 {
		list = list.Limit(uint64(filter.Limit))
	}
	listSQL, listArgs, err := list.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list sessions: %w", err)
	}

	rows, err := querier.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.ScanningSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("list sessions: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, total, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new session. Scanned items are not written; a fresh
// session has none.
func (r *Repo) Create(ctx context.Context, s *domain.ScanningSession) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	expected, err := marshalExpected(s.ExpectedItems)
	if err != nil {
		return fmt.Errorf("session %s: %w", s.ID, err)
	}
	stats, err := marshalStatistics(s.Statistics)
	if err != nil {
		return fmt.Errorf("session %s: %w", s.ID, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err = querier.Exec(ctx, createSQL,
		s.ID, s.Operator.ID, s.Operator.Name, s.Operator.Email, string(s.OperationType),
		s.JobCardRef, expected, stats, string(s.Status), s.StartedAt.UTC().Truncate(time.Microsecond), now,
	)
	if err != nil {
		return postgres.MapError(err, "session", s.ID)
	}
	return nil
}

// AppendScan writes the scanned item at position seq. A repeated qr code
// within the session returns domain.ErrDuplicateScan.
func (r *Repo) AppendScan(ctx context.Context, sessionID uuid.UUID, seq int, it domain.ScannedItem) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, appendScanSQL,
		sessionID, seq, it.QRID, it.PartName, it.PartNumber, it.SerialNumber,
		it.ScannedAt.UTC().Truncate(time.Microsecond), it.IsExpected,
		string(it.Status), string(it.PreviousStatus), it.Message,
	)
	if isUniqueViolation(err, "session_scans_session_id_qr_id_key") {
		return fmt.Errorf("session %s: qr %s: %w", sessionID, it.QRID, domain.ErrDuplicateScan)
	}
	if err != nil {
		return postgres.MapError(err, "session scan", it.QRID)
	}
	return nil
}

// Save writes the mutable columns of an ACTIVE session: expected-item
// counters, statistics and, when s has just terminated, its end state.
// A session that is no longer ACTIVE in storage is a conflict.
func (r *Repo) Save(ctx context.Context, s *domain.ScanningSession) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	expected, err := marshalExpected(s.ExpectedItems)
	if err != nil {
		return fmt.Errorf("session %s: %w", s.ID, err)
	}
	stats, err := marshalStatistics(s.Statistics)
	if err != nil {
		return fmt.Errorf("session %s: %w", s.ID, err)
	}

	var endedAt *time.Time
	if s.EndedAt != nil {
		t := s.EndedAt.UTC().Truncate(time.Microsecond)
		endedAt = &t
	}

	ct, err := querier.Exec(ctx, saveSQL,
		s.ID, expected, stats, string(s.Status), endedAt, s.DurationMs,
		s.Notes, s.CancelReason, time.Now().UTC().Truncate(time.Microsecond),
	)
	if err != nil {
		return postgres.MapError(err, "session", s.ID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("session %s: not active: %w", s.ID, domain.ErrConflict)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanSession(row pgx.Row) (*domain.ScanningSession, error) {
	var (
		s                    domain.ScanningSession
		opType, status       string
		expectedJSON, stJSON []byte
	)

	err := row.Scan(
		&s.ID, &s.Operator.ID, &s.Operator.Name, &s.Operator.Email, &opType, &s.JobCardRef,
		&expectedJSON, &stJSON, &status, &s.StartedAt, &s.EndedAt, &s.DurationMs, &s.Notes,
		&s.CancelReason, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.OperationType = domain.OperationType(opType)
	s.Status = domain.SessionStatus(status)

	if s.ExpectedItems, err = unmarshalExpected(expectedJSON); err != nil {
		return nil, fmt.Errorf("session %s: %w", s.ID, err)
	}
	if s.Statistics, err = unmarshalStatistics(stJSON); err != nil {
		return nil, fmt.Errorf("session %s: %w", s.ID, err)
	}

	return &s, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

// ---------------------------------------------------------------------------
// JSONB serialization helpers
// ---------------------------------------------------------------------------

// expectedItemJSON and statisticsJSON are intermediate structs for JSONB
// storage. Domain types have no json tags, so the repo layer handles
// serialization.
type expectedItemJSON struct {
	PartName     string `json:"part_name"`
	PartNumber   string `json:"part_number"`
	Quantity     int    `json:"quantity"`
	ScannedCount int    `json:"scanned_count"`
}

type statisticsJSON struct {
	TotalExpected        int     `json:"total_expected"`
	TotalScanned         int     `json:"total_scanned"`
	SuccessfulScans      int     `json:"successful_scans"`
	UnexpectedScans      int     `json:"unexpected_scans"`
	DuplicateScans       int     `json:"duplicate_scans"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

func marshalExpected(items []domain.ExpectedItem) ([]byte, error) {
	j := make([]expectedItemJSON, 0, len(items))
	for _, e := range items {
		j = append(j, expectedItemJSON{
			PartName:     e.PartName,
			PartNumber:   e.PartNumber,
			Quantity:     e.Quantity,
			ScannedCount: e.ScannedCount,
		})
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, fmt.Errorf("marshal expected items: %w", err)
	}
	return data, nil
}

func unmarshalExpected(data []byte) ([]domain.ExpectedItem, error) {
	items := []domain.ExpectedItem{}
	if len(data) == 0 {
		return items, nil
	}

	var j []expectedItemJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("unmarshal expected items: %w", err)
	}
	for _, e := range j {
		items = append(items, domain.ExpectedItem{
			PartName:     e.PartName,
			PartNumber:   e.PartNumber,
			Quantity:     e.Quantity,
			ScannedCount: e.ScannedCount,
		})
	}
	return items, nil
}

func marshalStatistics(st domain.SessionStatistics) ([]byte, error) {
	data, err := json.Marshal(statisticsJSON(st))
	if err != nil {
		return nil, fmt.Errorf("marshal statistics: %w", err)
	}
	return data, nil
}

func unmarshalStatistics(data []byte) (domain.SessionStatistics, error) {
	if len(data) == 0 {
		return domain.SessionStatistics{}, nil
	}
	var j statisticsJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return domain.SessionStatistics{}, fmt.Errorf("unmarshal statistics: %w", err)
	}
	return domain.SessionStatistics(j), nil
}
