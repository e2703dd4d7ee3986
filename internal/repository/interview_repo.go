package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"prepinter/internal/domain"
)

// InterviewRepository define el contrato de persistencia para entrevistas
// y sus preguntas embebidas (tabla aparte, keyed por UUID).
type InterviewRepository interface {
	Create(ctx context.Context, interview domain.Interview) error
	GetByID(ctx context.Context, id string) (domain.Interview, error)
	GetLatestByUser(ctx context.Context, userID string) (domain.Interview, error)
	GetActiveByUser(ctx context.Context, userID string) (domain.Interview, error)
	FindActiveByQuestion(ctx context.Context, userID, questionID string) (domain.Interview, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Interview, error)
	ListByUserPaged(ctx context.Context, userID string, limit, offset int) ([]domain.Interview, int, error)
	ListCompletedRecent(ctx context.Context, userID string, limit int) ([]domain.Interview, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	MarkCompleted(ctx context.Context, id string, completedAt time.Time, duration int) error
	UpdateQuestionAnswer(ctx context.Context, questionID, answer, feedback string, score int) error
	MarkQuestionSkipped(ctx context.Context, questionID string) error
	Delete(ctx context.Context, id string) error
}

// PgInterviewRepository implementa InterviewRepository usando pgxpool.
type PgInterviewRepository struct {
	pool *pgxpool.Pool
}

func NewPgInterviewRepository(pool *pgxpool.Pool) *PgInterviewRepository {
	return &PgInterviewRepository{pool: pool}
}

const interviewColumns = `
	id, user_id, category, difficulty, started_at, completed_at, completed, duration, created_at
`

func scanInterview(row interface{ Scan(dest ...any) error }) (domain.Interview, error) {
	var iv domain.Interview
	err := row.Scan(
		&iv.ID,
		&iv.UserID,
		&iv.Category,
		&iv.Difficulty,
		&iv.StartedAt,
		&iv.CompletedAt,
		&iv.Completed,
		&iv.Duration,
		&iv.CreatedAt,
	)
	return iv, err
}

func (r *PgInterviewRepository) Create(ctx context.Context, interview domain.Interview) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertInterview = `
		INSERT INTO interviews (id, user_id, category, difficulty, started_at, completed, duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := tx.Exec(ctx, insertInterview,
		interview.ID,
		interview.UserID,
		interview.Category,
		interview.Difficulty,
		interview.StartedAt,
		interview.Completed,
		interview.Duration,
		interview.CreatedAt,
	); err != nil {
		return err
	}

	const insertQuestion = `
		INSERT INTO interview_questions (id, interview_id, question_text, explanation, ai_generated, skipped, answer, feedback, score, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, q := range interview.Questions {
		if _, err := tx.Exec(ctx, insertQuestion,
			q.ID,
			interview.ID,
			q.QuestionText,
			q.Explanation,
			q.AIGenerated,
			q.Skipped,
			q.Answer,
			q.Feedback,
			q.Score,
			q.Position,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PgInterviewRepository) loadQuestions(ctx context.Context, interviewID string) ([]domain.Question, error) {
	const query = `
		SELECT id, interview_id, question_text, explanation, ai_generated, skipped, answer, feedback, score, position
		FROM interview_questions
		WHERE interview_id = $1
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(
			&q.ID,
			&q.InterviewID,
			&q.QuestionText,
			&q.Explanation,
			&q.AIGenerated,
			&q.Skipped,
			&q.Answer,
			&q.Feedback,
			&q.Score,
			&q.Position,
		); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *PgInterviewRepository) GetByID(ctx context.Context, id string) (domain.Interview, error) {
	const query = `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`
	iv, err := scanInterview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Interview{}, err
	}
	iv.Questions, err = r.loadQuestions(ctx, iv.ID)
	return iv, err
}

func (r *PgInterviewRepository) GetLatestByUser(ctx context.Context, userID string) (domain.Interview, error) {
	const query = `
		SELECT ` + interviewColumns + `
		FROM interviews
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanInterview(r.pool.QueryRow(ctx, query, userID))
}

func (r *PgInterviewRepository) GetActiveByUser(ctx context.Context, userID string) (domain.Interview, error) {
	const query = `
		SELECT ` + interviewColumns + `
		FROM interviews
		WHERE user_id = $1 AND completed = false
		ORDER BY created_at DESC
		LIMIT 1
	`
	iv, err := scanInterview(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return domain.Interview{}, err
	}
	iv.Questions, err = r.loadQuestions(ctx, iv.ID)
	return iv, err
}

func (r *PgInterviewRepository) FindActiveByQuestion(ctx context.Context, userID, questionID string) (domain.Interview, error) {
	const query = `
		SELECT i.id, i.user_id, i.category, i.difficulty, i.started_at, i.completed_at, i.completed, i.duration, i.created_at
		FROM interviews i
		JOIN interview_questions q ON q.interview_id = i.id
		WHERE i.user_id = $1 AND q.id = $2 AND i.completed = false
	`
	iv, err := scanInterview(r.pool.QueryRow(ctx, query, userID, questionID))
	if err != nil {
		return domain.Interview{}, err
	}
	iv.Questions, err = r.loadQuestions(ctx, iv.ID)
	return iv, err
}

func (r *PgInterviewRepository) listInterviews(ctx context.Context, query string, args ...any) ([]domain.Interview, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interviews []domain.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, iv)
	}
	return interviews, rows.Err()
}

func (r *PgInterviewRepository) ListByUser(ctx context.Context, userID string) ([]domain.Interview, error) {
	const query = `
		SELECT ` + interviewColumns + `
		FROM interviews
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.listInterviews(ctx, query, userID)
}

// ListByUserPaged devuelve entrevistas paginadas con preguntas sin answer/feedback
// (proyeccion para historial).
func (r *PgInterviewRepository) ListByUserPaged(ctx context.Context, userID string, limit, offset int) ([]domain.Interview, int, error) {
	const query = `
		SELECT ` + interviewColumns + `
		FROM interviews
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	interviews, err := r.listInterviews(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	const questionQuery = `
		SELECT id, interview_id, question_text, explanation, ai_generated, skipped, '' AS answer, '' AS feedback, 0 AS score, position
		FROM interview_questions
		WHERE interview_id = $1
		ORDER BY position
	`
	for i := range interviews {
		rows, err := r.pool.Query(ctx, questionQuery, interviews[i].ID)
		if err != nil {
			return nil, 0, err
		}
		for rows.Next() {
			var q domain.Question
			if err := rows.Scan(
				&q.ID,
				&q.InterviewID,
				&q.QuestionText,
				&q.Explanation,
				&q.AIGenerated,
				&q.Skipped,
				&q.Answer,
				&q.Feedback,
				&q.Score,
				&q.Position,
			); err != nil {
				rows.Close()
				return nil, 0, err
			}
			interviews[i].Questions = append(interviews[i].Questions, q)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, 0, err
		}
	}

	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return interviews, total, nil
}

func (r *PgInterviewRepository) ListCompletedRecent(ctx context.Context, userID string, limit int) ([]domain.Interview, error) {
	const query = `
		SELECT ` + interviewColumns + `
		FROM interviews
		WHERE user_id = $1 AND completed = true
		ORDER BY created_at DESC
		LIMIT $2
	`
	interviews, err := r.listInterviews(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	for i := range interviews {
		interviews[i].Questions, err = r.loadQuestions(ctx, interviews[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return interviews, nil
}

func (r *PgInterviewRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM interviews WHERE user_id = $1`
	var count int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *PgInterviewRepository) MarkCompleted(ctx context.Context, id string, completedAt time.Time, duration int) error {
	const query = `
		UPDATE interviews
		SET completed = true, completed_at = $2, duration = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, completedAt, duration)
	return err
}

func (r *PgInterviewRepository) UpdateQuestionAnswer(ctx context.Context, questionID, answer, feedback string, score int) error {
	const query = `UPDATE interview_questions SET answer = $2, feedback = $3, score = $4 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, questionID, answer, feedback, score)
	return err
}

func (r *PgInterviewRepository) MarkQuestionSkipped(ctx context.Context, questionID string) error {
	const query = `UPDATE interview_questions SET skipped = true WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, questionID)
	return err
}

func (r *PgInterviewRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM interview_questions WHERE interview_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
