package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/katakuxiko/trivia/internal/model"
	"github.com/katakuxiko/trivia/internal/service"
)

const maxRecent = 500

// PgStore хранит историю ответов в Postgres
type PgStore struct {
	db *sql.DB
}

func NewPgStore(ctx context.Context, conn string) (*PgStore, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PgStore{db: db}, nil
}

func (s *PgStore) Close() error {
	return s.db.Close()
}

// Record сохраняет результат одного процессора
func (s *PgStore) Record(ctx context.Context, question string, r service.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO answers (question, processor, answer, error)
		VALUES ($1, $2, $3, $4)
	`, question, r.Processor, r.Answer, errorText(r.Err))
	return err
}

// Recent — до limit последних ответов, новые первыми
func (s *PgStore) Recent(ctx context.Context, limit int) ([]model.Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, processor, answer, error, created_at
		FROM answers
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.Answer
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.Question, &a.Processor, &a.Answer, &a.Error, &a.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > maxRecent:
		return maxRecent
	default:
		return limit
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
