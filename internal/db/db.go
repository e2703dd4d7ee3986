package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"prepinter/internal/config"
)

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Configuración razonable para ambientes iniciales.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

// schema define las tablas del sistema. Idempotente: seguro de ejecutar en
// cada arranque.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		avatar TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'free',
		interviews_taken INT NOT NULL DEFAULT 0,
		reset_otp_hash TEXT NOT NULL DEFAULT '',
		reset_otp_expires_at TIMESTAMPTZ,
		reset_token_hash TEXT NOT NULL DEFAULT '',
		reset_token_expires_at TIMESTAMPTZ,
		subscription_end TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS interviews (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		completed BOOLEAN NOT NULL DEFAULT false,
		duration INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS interview_questions (
		id TEXT PRIMARY KEY,
		interview_id TEXT NOT NULL REFERENCES interviews(id) ON DELETE CASCADE,
		question_text TEXT NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		ai_generated BOOLEAN NOT NULL DEFAULT false,
		skipped BOOLEAN NOT NULL DEFAULT false,
		answer TEXT NOT NULL DEFAULT '',
		feedback TEXT NOT NULL DEFAULT '',
		score INT NOT NULL DEFAULT 0,
		position INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS scored_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		interview_id TEXT NOT NULL,
		qa_pairs JSONB NOT NULL DEFAULT '[]',
		scores JSONB NOT NULL DEFAULT '[]',
		duration INT NOT NULL DEFAULT 0,
		result TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		order_id TEXT NOT NULL,
		gateway_order_id TEXT NOT NULL UNIQUE,
		gateway_payment_id TEXT NOT NULL DEFAULT '',
		gateway_signature TEXT NOT NULL DEFAULT '',
		amount BIGINT NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'created',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interviews_user_created ON interviews (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_interview ON interview_questions (interview_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_created ON scored_sessions (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_user_created ON payments (user_id, created_at DESC)`,
}

// EnsureSchema crea las tablas e indices si no existen.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
