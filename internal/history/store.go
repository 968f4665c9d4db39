package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/manualmanul/XBN/internal/config"
)

// Session records one completed processing run.
type Session struct {
	ID            string
	Profile       string
	Slug          string
	EpisodeNumber string
	EpisodeTitle  string
	SourcePath    string
	OutputPath    string
	DurationMS    int64
	ChapterCount  int
	TagOrigin     string
	CreatedAt     time.Time
}

// Store persists completed sessions in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a completed session. A zero CreatedAt is stamped with the
// current time.
func (s *Store) Record(ctx context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("record session: id required")
	}
	created := session.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (
            id, profile, slug, episode_number, episode_title,
            source_path, output_path, duration_ms, chapter_count,
            tag_origin, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.Profile,
		session.Slug,
		session.EpisodeNumber,
		session.EpisodeTitle,
		session.SourcePath,
		session.OutputPath,
		session.DurationMS,
		session.ChapterCount,
		session.TagOrigin,
		created.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// List returns the most recent sessions, newest first. A non-positive limit
// falls back to 50.
func (s *Store) List(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, profile, slug, episode_number, episode_title,
                source_path, output_path, duration_ms, chapter_count,
                tag_origin, created_at
         FROM sessions
         ORDER BY created_at DESC
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		var created string
		if err := rows.Scan(
			&session.ID,
			&session.Profile,
			&session.Slug,
			&session.EpisodeNumber,
			&session.EpisodeTitle,
			&session.SourcePath,
			&session.OutputPath,
			&session.DurationMS,
			&session.ChapterCount,
			&session.TagOrigin,
			&created,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, created); parseErr == nil {
			session.CreatedAt = parsed
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
