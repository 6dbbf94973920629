package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close(_ context.Context) error {
	s.pool.Close()
	return nil
}

// --- Detection Reports ---

func (s *PostgresStore) AppendDetectionReport(ctx context.Context, r *models.DetectionReport) (string, error) {
	r.CreatedAt = models.Timestamp(r.CreatedAt)
	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO detection_reports (user_id, source_text, confidence, explanation, origin, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id::text`,
		r.UserID, r.SourceText, string(r.Confidence), r.Explanation, string(r.Origin), r.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("append detection report: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ListDetectionReports(ctx context.Context, userID string) ([]*models.DetectionReport, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, user_id, source_text, confidence, explanation, origin, created_at
		 FROM detection_reports WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("list detection reports: %w", err)
	}
	defer rows.Close()

	reports := []*models.DetectionReport{}
	for rows.Next() {
		var r models.DetectionReport
		var confidence, origin string
		if err := rows.Scan(&r.ID, &r.UserID, &r.SourceText, &confidence, &r.Explanation, &origin, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan detection report: %w", err)
		}
		r.Confidence = models.ConfidenceLevel(confidence)
		r.Origin = models.Origin(origin)
		reports = append(reports, &r)
	}
	return reports, rows.Err()
}

// --- Sessions ---

func (s *PostgresStore) AppendSession(ctx context.Context, rec *models.SessionRecord) (string, error) {
	rec.CreatedAt = models.Timestamp(rec.CreatedAt)
	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sessions (user_id, prompt, breakdown, feedback, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id::text`,
		rec.UserID, rec.Prompt, rec.Breakdown, rec.Feedback, rec.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("append session: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ListSessions(ctx context.Context, userID string) ([]*models.SessionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, user_id, prompt, breakdown, feedback, created_at
		 FROM sessions WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.SessionRecord{}
	for rows.Next() {
		var rec models.SessionRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Prompt, &rec.Breakdown, &rec.Feedback, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, &rec)
	}
	return sessions, rows.Err()
}

// --- Users ---

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.DisplayName, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, display_name, password_hash, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

var _ Store = (*PostgresStore)(nil)
