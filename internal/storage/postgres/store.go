package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hongminglow/user-records/internal/models"
	"github.com/hongminglow/user-records/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Postgres error codes surfaced to callers as validation failures.
const (
	codeNotNullViolation = "23502"
	codeUniqueViolation  = "23505"
	codeCheckViolation   = "23514"
)

// Store persists user documents as JSONB rows.
type Store struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new Store and runs migrations.
func NewUserStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("connection pool is nil")
	}
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			doc JSONB NOT NULL CHECK (jsonb_typeof(doc) = 'object'),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_name_unique_idx ON users ((doc->>'name'));`,
		`CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// List returns every user, oldest first.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT id::text, doc FROM users ORDER BY created_at, id;`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByID fetches a user by id. A malformed id is an error, not ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid user id %q: %w", id, err)
	}
	const query = `SELECT id::text, doc FROM users WHERE id = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, uid.String()))
}

// Insert validates the document and stores it under a fresh id.
func (s *Store) Insert(ctx context.Context, user models.User) (models.User, error) {
	if err := storage.Validate(user); err != nil {
		return models.User{}, err
	}
	fields := make(map[string]any, len(user.Fields))
	for k, v := range user.Fields {
		if k != models.FieldID {
			fields[k] = v
		}
	}
	doc, err := json.Marshal(fields)
	if err != nil {
		return models.User{}, &storage.ValidationError{Reason: err.Error()}
	}

	const query = `INSERT INTO users (id, doc) VALUES ($1, $2) RETURNING id::text, doc;`
	created, err := scanUser(s.pool.QueryRow(ctx, query, uuid.NewString(), doc))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case codeUniqueViolation, codeCheckViolation, codeNotNullViolation:
				return models.User{}, &storage.ValidationError{Reason: pgErr.Message}
			}
		}
		return models.User{}, err
	}
	return created, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return models.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return models.User{ID: id, Fields: fields}, nil
}
