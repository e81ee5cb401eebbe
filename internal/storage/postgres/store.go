package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongminglow/care-admin/internal/identity"
	"github.com/hongminglow/care-admin/internal/models"
	"github.com/hongminglow/care-admin/internal/rbac"
	"github.com/hongminglow/care-admin/internal/storage"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Store provides Postgres-backed persistence for users.
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
	if err := s.seedRoles(ctx, rbac.Default().Definitions()); err != nil {
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

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone TEXT NOT NULL,
			roles TEXT[] NOT NULL DEFAULT '{}',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS roles TEXT[] NOT NULL DEFAULT '{}';`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS user_type TEXT;`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS legacy_groups TEXT[] NOT NULL DEFAULT '{}';`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique_idx ON users (email);`,
		`CREATE TABLE IF NOT EXISTS role_definitions (
			name TEXT NOT NULL,
			source TEXT NOT NULL,
			level SMALLINT NOT NULL CHECK (level BETWEEN 1 AND 4),
			description TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (name, source)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// seedRoles mirrors the registry into role_definitions so reporting queries
// can join against it.
func (s *Store) seedRoles(ctx context.Context, defs []rbac.RoleDefinition) error {
	const stmt = `
		INSERT INTO role_definitions (name, source, level, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, source) DO UPDATE
		SET level = EXCLUDED.level, description = EXCLUDED.description;`

	batch := &pgx.Batch{}
	for _, def := range defs {
		batch.Queue(stmt, def.Name, string(def.Source), int(def.Level), def.Description)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed role definitions: %w", err)
	}
	return nil
}

const userColumns = `id, username, email, phone, roles, user_type, legacy_groups, password_hash, created_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
		INSERT INTO users (username, email, phone, roles, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	row := s.pool.QueryRow(ctx, query, user.Username, user.Email, user.Phone, roles, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByUsernameOrEmail fetches the first user matching the identifier as username or email.
func (s *Store) FindByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1 LIMIT 1`, identifier)
	return scanUser(row)
}

// ListUsers returns a page of users ordered by id.
func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
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

// UpdateRoles replaces the user's roles array. Legacy fields are cleared so
// the roles array becomes authoritative.
func (s *Store) UpdateRoles(ctx context.Context, id int64, roles []string) (models.User, error) {
	if roles == nil {
		roles = []string{}
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET roles = $2, user_type = NULL, legacy_groups = '{}'
		WHERE id = $1
		RETURNING `+userColumns, id, roles)
	return scanUser(row)
}

// DeleteUser removes a user row.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		raw          identity.RawUser
		userType     *string
		passwordHash string
		createdAt    time.Time
	)
	if err := row.Scan(&raw.ID, &raw.Username, &raw.Email, &raw.Phone, &raw.Roles, &userType, &raw.Groups, &passwordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	if userType != nil {
		raw.UserType = *userType
	}
	raw.CreatedAt = createdAt

	user := identity.Normalize(raw)
	user.PasswordHash = passwordHash
	return user, nil
}
