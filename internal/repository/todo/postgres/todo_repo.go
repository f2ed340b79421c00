// Package postgres stores todos in PostgreSQL with PostGIS geometry.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/geometry"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/logger"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"
	repo "github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/repository"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/spatial"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	table            = "todos"
	defaultSlowQuery = 100 * time.Millisecond
	geomFromEWKB     = "ST_GeomFromEWKB(?)"
	updatedAtNow     = "NOW()"
)

var columns = []string{
	"id",
	"name",
	"subject::text",
	"priority",
	"date",
	"is_completed",
	"ST_AsEWKB(geom)",
	"created_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// DB is the part of pgxpool.Pool the store needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

type Storage struct {
	db        DB
	builder   sq.StatementBuilderType
	slowQuery time.Duration
}

type Option func(*Storage)

func WithSlowQueryThreshold(d time.Duration) Option {
	return func(s *Storage) {
		if d > 0 {
			s.slowQuery = d
		}
	}
}

func New(db DB, opts ...Option) *Storage {
	s := &Storage{
		db:        db,
		builder:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		slowQuery: defaultSlowQuery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) List(ctx context.Context, limit, offset int, pred *spatial.Predicate) ([]*todo.Todo, error) {
	if limit < 0 || offset < 0 {
		return nil, repo.ErrInvalidPagination
	}
	start := time.Now()

	q := s.builder.Select(columns...).
		From(table).
		OrderBy("created_at", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if pred != nil {
		q = q.Where(pred)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: list todos", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("list todos: %w", err)
	}
	todos, err := collect(rows)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	s.observe("list", start, zap.Int("rows", len(todos)), zap.Bool("filtered", pred != nil))
	return todos, nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	start := time.Now()

	query, args, err := s.builder.Select(columns...).
		From(table).
		Where(sq.Expr("id = ?", id)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	t, err := scanTodo(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError("get todo", id, err)
	}

	s.observe("get", start)
	return t, nil
}

func (s *Storage) Insert(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	data, err := geometry.Encode(t.Geom)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	query, args, err := s.builder.Insert(table).
		Columns("id", "name", "subject", "priority", "date", "is_completed", "geom").
		Values(uuid.New(), t.Name, string(t.Subject), t.Priority, t.Date, false, sq.Expr(geomFromEWKB, data)).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	created, err := scanTodo(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		logger.Error("Repository: insert todo", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	s.observe("insert", start, zap.String("todo_id", created.ID.String()))
	return created, nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	start := time.Now()

	query, args, err := s.builder.Delete(table).
		Where(sq.Expr("id = ?", id)).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete query: %w", err)
	}

	deleted, err := scanTodo(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError("delete todo", id, err)
	}

	s.observe("delete", start, zap.String("todo_id", id.String()))
	return deleted, nil
}

func (s *Storage) Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	q := s.builder.Update(table).
		Set("updated_at", sq.Expr(updatedAtNow)).
		Where(sq.Expr("id = ?", id)).
		Suffix(returning)
	if patch.Name != nil {
		q = q.Set("name", *patch.Name)
	}
	if patch.Subject != nil {
		q = q.Set("subject", string(*patch.Subject))
	}
	if patch.Priority != nil {
		q = q.Set("priority", *patch.Priority)
	}
	if patch.Date != nil {
		q = q.Set("date", *patch.Date)
	}
	if patch.Geom != nil {
		data, err := geometry.Encode(*patch.Geom)
		if err != nil {
			return nil, err
		}
		q = q.Set("geom", sq.Expr(geomFromEWKB, data))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	updated, err := scanTodo(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError("update todo", id, err)
	}

	s.observe("update", start, zap.String("todo_id", id.String()))
	return updated, nil
}

func (s *Storage) ToggleCompleted(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	start := time.Now()

	query, args, err := s.builder.Update(table).
		Set("is_completed", sq.Expr("NOT is_completed")).
		Set("updated_at", sq.Expr(updatedAtNow)).
		Where(sq.Expr("id = ?", id)).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build toggle query: %w", err)
	}

	toggled, err := scanTodo(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError("toggle todo", id, err)
	}

	s.observe("toggle", start, zap.String("todo_id", id.String()), zap.Bool("is_completed", toggled.IsCompleted))
	return toggled, nil
}

// DeleteCompletedBefore removes completed todos dated at or before cutoff.
func (s *Storage) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) ([]*todo.Todo, error) {
	start := time.Now()

	query, args, err := s.builder.Delete(table).
		Where(sq.And{
			sq.Eq{"is_completed": true},
			sq.LtOrEq{"date": cutoff},
		}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sweep query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: delete completed todos", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("delete completed todos: %w", err)
	}
	deleted, err := collect(rows)
	if err != nil {
		return nil, fmt.Errorf("delete completed todos: %w", err)
	}

	s.observe("delete_completed", start, zap.Int("rows", len(deleted)), zap.Time("cutoff", cutoff))
	return deleted, nil
}

func (s *Storage) observe(op string, start time.Time, fields ...zap.Field) {
	elapsed := time.Since(start)
	fields = append(fields, zap.String("op", op), zap.Duration("ms", elapsed))
	if elapsed > s.slowQuery {
		logger.Warn("Repository: slow query", fields...)
		return
	}
	logger.Debug("Repository: query done", fields...)
}

func mapError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", op, id, repo.ErrNotFound)
	}
	logger.Error("Repository: "+op, err, zap.String("todo_id", id.String()))
	return fmt.Errorf("%s %s: %w", op, id, err)
}

type row interface {
	Scan(dest ...any) error
}

func scanTodo(r row) (*todo.Todo, error) {
	var (
		t       todo.Todo
		subject string
		geom    []byte
	)
	if err := r.Scan(&t.ID, &t.Name, &subject, &t.Priority, &t.Date, &t.IsCompleted, &geom, &t.CreatedAt); err != nil {
		return nil, err
	}

	g, err := geometry.Decode(geom)
	if err != nil {
		return nil, fmt.Errorf("decode geometry of %s: %w", t.ID, err)
	}
	t.Subject = todo.Subject(subject)
	t.Geom = g
	t.Date = t.Date.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

func collect(rows pgx.Rows) ([]*todo.Todo, error) {
	defer rows.Close()

	todos := make([]*todo.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return todos, nil
}
