package github

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/folio/internal/db"
)

// ErrNotCached is returned by Store.Load when a user was never synced.
var ErrNotCached = errors.New("github: no cached projects")

// Store persists synced projects per GitHub user.
type Store struct {
	db *db.DB
}

// NewStore creates a new project cache store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Save replaces the cached projects of username.
func (s *Store) Save(ctx context.Context, username string, projects []Project, syncedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM github_projects WHERE username = ?`, username); err != nil {
		return fmt.Errorf("clearing cached projects: %w", err)
	}

	for i, p := range projects {
		topics := p.Topics
		if topics == nil {
			topics = []string{}
		}
		topicsJSON, err := json.Marshal(topics)
		if err != nil {
			return fmt.Errorf("marshaling topics: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO github_projects (username, position, name, description, url, stars, language, topics, readme, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			username, i, p.Name, p.Description, p.URL, p.Stars, p.Language,
			string(topicsJSON), p.Readme, p.LastUpdated.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching project %s: %w", p.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO github_syncs (username, synced_at, project_count) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET synced_at = excluded.synced_at, project_count = excluded.project_count`,
		username, syncedAt.UTC(), len(projects),
	)
	if err != nil {
		return fmt.Errorf("recording sync: %w", err)
	}

	return tx.Commit()
}

// Load returns the cached projects of username in their original order and
// the time they were synced.
func (s *Store) Load(ctx context.Context, username string) ([]Project, time.Time, error) {
	var syncedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT synced_at FROM github_syncs WHERE username = ?`, username,
	).Scan(&syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNotCached
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading sync time: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, description, url, stars, language, topics, readme, updated_at
		 FROM github_projects WHERE username = ? ORDER BY position`, username)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("listing cached projects: %w", err)
	}
	defer rows.Close()

	result := []Project{}
	for rows.Next() {
		var p Project
		var topicsJSON string
		if err := rows.Scan(&p.Name, &p.Description, &p.URL, &p.Stars, &p.Language,
			&topicsJSON, &p.Readme, &p.LastUpdated); err != nil {
			return nil, time.Time{}, fmt.Errorf("scanning cached project: %w", err)
		}
		if err := json.Unmarshal([]byte(topicsJSON), &p.Topics); err != nil {
			return nil, time.Time{}, fmt.Errorf("unmarshaling topics: %w", err)
		}
		p.Tags = tagsFor(p.Language, p.Topics)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	return result, syncedAt, nil
}
