package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"prepinter/internal/domain"
)

// SessionRepository define el contrato de persistencia para sesiones puntuadas.
type SessionRepository interface {
	Create(ctx context.Context, session domain.ScoredSession) error
	ListByUser(ctx context.Context, userID string) ([]domain.ScoredSession, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.ScoredSession, error)
}

// PgSessionRepository implementa SessionRepository usando pgxpool.
// qa_pairs y scores van como jsonb.
type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) Create(ctx context.Context, session domain.ScoredSession) error {
	qaPairs, err := json.Marshal(session.QAPairs)
	if err != nil {
		return err
	}
	scores, err := json.Marshal(session.Scores)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO scored_sessions (id, user_id, interview_id, qa_pairs, scores, duration, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.InterviewID,
		qaPairs,
		scores,
		session.Duration,
		session.Result,
		session.CreatedAt,
	)
	return err
}

func (r *PgSessionRepository) listSessions(ctx context.Context, query string, args ...any) ([]domain.ScoredSession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.ScoredSession
	for rows.Next() {
		var (
			s       domain.ScoredSession
			qaPairs []byte
			scores  []byte
		)
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.InterviewID,
			&qaPairs,
			&scores,
			&s.Duration,
			&s.Result,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(qaPairs) > 0 {
			if err := json.Unmarshal(qaPairs, &s.QAPairs); err != nil {
				return nil, err
			}
		}
		if len(scores) > 0 {
			if err := json.Unmarshal(scores, &s.Scores); err != nil {
				return nil, err
			}
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

const sessionColumns = `
	id, user_id, interview_id, qa_pairs, scores, duration, result, created_at
`

func (r *PgSessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.ScoredSession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM scored_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.listSessions(ctx, query, userID)
}

func (r *PgSessionRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.ScoredSession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM scored_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.listSessions(ctx, query, userID, limit)
}
