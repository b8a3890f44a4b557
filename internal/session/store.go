// Package session persists the annotation session: the numbered list of
// scopes a reviewer has attached to page elements.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"agentui/internal/logging"
	"agentui/internal/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no scope matches the requested ID or number.
var ErrNotFound = errors.New("scope not found")

// MemoryPath opens a throwaway in-memory session.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS scopes (
	id TEXT PRIMARY KEY,
	number INTEGER NOT NULL,
	element_json TEXT NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	selected_text TEXT NOT NULL DEFAULT '',
	multi_select INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scopes_number ON scopes(number);

CREATE TABLE IF NOT EXISTS page_environment (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	environment_json TEXT NOT NULL,
	captured_at INTEGER NOT NULL
);
`

const selectColumns = `id, number, element_json, comment, selected_text, multi_select, created_at, updated_at`

// Draft is the caller-supplied part of a new scope. The store assigns the
// ID, number and timestamps.
type Draft struct {
	ElementInfo   types.ElementInfo
	Comment       string
	SelectedText  string
	IsMultiSelect bool
}

// Store is a SQLite-backed annotation session. Numbers are always the
// contiguous range 1..n in creation order.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	path   string
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open creates or opens the session database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger, logging.CategorySession)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Add appends a scope with the next number.
func (s *Store) Add(ctx context.Context, d Draft) (types.Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, err := json.Marshal(d.ElementInfo)
	if err != nil {
		return types.Scope{}, fmt.Errorf("encode element: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Scope{}, err
	}
	defer tx.Rollback()

	var number int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(number), 0) + 1 FROM scopes`).Scan(&number); err != nil {
		return types.Scope{}, fmt.Errorf("next number: %w", err)
	}

	now := s.now().UTC()
	scope := types.Scope{
		ID:            uuid.NewString(),
		Number:        number,
		ElementInfo:   d.ElementInfo,
		Comment:       d.Comment,
		SelectedText:  d.SelectedText,
		IsMultiSelect: d.IsMultiSelect,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO scopes (`+selectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		scope.ID, scope.Number, string(elem), scope.Comment, scope.SelectedText,
		boolInt(scope.IsMultiSelect), now.UnixNano(), now.UnixNano())
	if err != nil {
		return types.Scope{}, fmt.Errorf("insert scope: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return types.Scope{}, err
	}

	s.logger.Debug("scope added", zap.String("id", scope.ID), zap.Int("number", number))
	return scope, nil
}

// Get returns the scope with the given ID.
func (s *Store) Get(ctx context.Context, id string) (types.Scope, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM scopes WHERE id = ?`, id)
	return scanScope(row)
}

// GetByNumber returns the scope currently numbered n.
func (s *Store) GetByNumber(ctx context.Context, n int) (types.Scope, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM scopes WHERE number = ?`, n)
	return scanScope(row)
}

// UpdateComment replaces a scope's comment and advances UpdatedAt.
func (s *Store) UpdateComment(ctx context.Context, id, comment string) (types.Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE scopes SET comment = ?, updated_at = ? WHERE id = ?`,
		comment, s.now().UTC().UnixNano(), id)
	if err != nil {
		return types.Scope{}, fmt.Errorf("update scope %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.Scope{}, fmt.Errorf("update scope %s: %w", id, ErrNotFound)
	}
	return s.Get(ctx, id)
}

// Remove deletes a scope and closes the gap it leaves in the numbering.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var number int
	err = tx.QueryRowContext(ctx, `SELECT number FROM scopes WHERE id = ?`, id).Scan(&number)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("remove scope %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("remove scope %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scopes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove scope %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE scopes SET number = number - 1 WHERE number > ?`, number); err != nil {
		return fmt.Errorf("renumber scopes: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Debug("scope removed", zap.String("id", id), zap.Int("number", number))
	return nil
}

// SetEnvironment records the page the scopes were captured on, replacing
// any earlier record.
func (s *Store) SetEnvironment(ctx context.Context, env types.EnvironmentInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode environment: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO page_environment (id, environment_json, captured_at) VALUES (1, ?, ?)`,
		string(data), env.Timestamp.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("store environment: %w", err)
	}
	return nil
}

// Environment returns the recorded page environment, ErrNotFound if none.
func (s *Store) Environment(ctx context.Context) (types.EnvironmentInfo, error) {
	var (
		raw      string
		captured int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT environment_json, captured_at FROM page_environment WHERE id = 1`).Scan(&raw, &captured)
	if errors.Is(err, sql.ErrNoRows) {
		return types.EnvironmentInfo{}, ErrNotFound
	}
	if err != nil {
		return types.EnvironmentInfo{}, fmt.Errorf("load environment: %w", err)
	}
	var env types.EnvironmentInfo
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return types.EnvironmentInfo{}, fmt.Errorf("decode environment: %w", err)
	}
	env.Timestamp = time.Unix(0, captured).UTC()
	return env, nil
}

// Clear removes every scope and the recorded environment.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM scopes`)
	if err != nil {
		return fmt.Errorf("clear scopes: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM page_environment`); err != nil {
		return fmt.Errorf("clear environment: %w", err)
	}
	n, _ := res.RowsAffected()
	s.logger.Debug("scopes cleared", zap.Int64("count", n))
	return nil
}

// Count returns the number of scopes in the session.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scopes`).Scan(&n)
	return n, err
}

// List returns every scope in ascending number order. The slice is freshly
// allocated, so later mutations of the session never reach it; pass it to
// the output generator as a stable snapshot.
func (s *Store) List(ctx context.Context) ([]types.Scope, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM scopes ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}
	defer rows.Close()

	var out []types.Scope
	for rows.Next() {
		scope, err := scanScope(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, scope)
	}
	return out, rows.Err()
}

// Resolve finds a scope by number ("3") or by ID.
func (s *Store) Resolve(ctx context.Context, ref string) (types.Scope, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		return s.GetByNumber(ctx, n)
	}
	return s.Get(ctx, ref)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScope(row scanner) (types.Scope, error) {
	var (
		scope            types.Scope
		elem             string
		multi            int
		created, updated int64
	)
	err := row.Scan(&scope.ID, &scope.Number, &elem, &scope.Comment, &scope.SelectedText, &multi, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Scope{}, ErrNotFound
	}
	if err != nil {
		return types.Scope{}, fmt.Errorf("scan scope: %w", err)
	}
	if err := json.Unmarshal([]byte(elem), &scope.ElementInfo); err != nil {
		return types.Scope{}, fmt.Errorf("decode element for scope %s: %w", scope.ID, err)
	}
	scope.IsMultiSelect = multi != 0
	scope.CreatedAt = time.Unix(0, created).UTC()
	scope.UpdatedAt = time.Unix(0, updated).UTC()
	return scope, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
