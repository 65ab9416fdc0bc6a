package watchdb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"pad/internal/providers"
	"pad/internal/structures"
)

// Entry is one watched username with its cross-referenced last-seen
// metadata from the ping feed.
type Entry struct {
	Username      string     `json:"username"`
	AddedAt       time.Time  `json:"addedAt"`
	LastSeen      *time.Time `json:"lastSeen,omitempty"`
	LastFollowers int64      `json:"lastFollowers"`
}

type StoreInterface interface {
	Add(usernames []string) (int, error)
	Entries() ([]Entry, error)
	TouchSeen(username string, seen time.Time, followers int64) error
	Close() error
}

// Store is a SQLite-backed watch-list of uploaded usernames.
type Store struct {
	db     *sql.DB
	logger providers.Logger
}

// NewStore opens (or creates) the watch-list database. An empty path
// disables the watch-list.
func NewStore(conf *structures.Config, logger providers.Logger) (StoreInterface, error) {
	if conf.Watchlist.Path == "" {
		logger.Infof(providers.TypeApp, "Watch-list disabled")
		return &noopStore{}, nil
	}

	db, err := sql.Open("sqlite", conf.Watchlist.Path)
	if err != nil {
		return nil, fmt.Errorf("watchdb: open %q: %w", conf.Watchlist.Path, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("watchdb: %s: %w", pragma, err)
		}
	}

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS watchlist (
  username TEXT PRIMARY KEY,
  added_unix INTEGER NOT NULL,
  last_seen_unix INTEGER NOT NULL DEFAULT 0,
  last_followers INTEGER NOT NULL DEFAULT 0
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("watchdb: init schema: %w", err)
	}
	return nil
}

// Add inserts the usernames that are not yet watched and returns how
// many were new. Blank names are dropped at this boundary.
func (s *Store) Add(usernames []string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("watchdb: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO watchlist (username, added_unix) VALUES (?, ?)
		 ON CONFLICT(username) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("watchdb: prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	now := time.Now().Unix()
	for _, u := range usernames {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		res, err := stmt.Exec(u, now)
		if err != nil {
			return 0, fmt.Errorf("watchdb: insert %q: %w", u, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("watchdb: commit: %w", err)
	}
	return added, nil
}

// TouchSeen records the most recent feed sighting of a watched user.
func (s *Store) TouchSeen(username string, seen time.Time, followers int64) error {
	_, err := s.db.Exec(
		`UPDATE watchlist SET last_seen_unix = ?, last_followers = ?
		 WHERE username = ? AND last_seen_unix < ?`,
		seen.Unix(), followers, username, seen.Unix(),
	)
	if err != nil {
		return fmt.Errorf("watchdb: touch %q: %w", username, err)
	}
	return nil
}

func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT username, added_unix, last_seen_unix, last_followers
		 FROM watchlist ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("watchdb: select entries: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var added, seen int64
		if err := rows.Scan(&e.Username, &added, &seen, &e.LastFollowers); err != nil {
			return nil, fmt.Errorf("watchdb: scan entry: %w", err)
		}
		e.AddedAt = time.Unix(added, 0)
		if seen > 0 {
			t := time.Unix(seen, 0)
			e.LastSeen = &t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// noopStore applies when the watch-list is disabled.
type noopStore struct{}

func (n *noopStore) Add(_ []string) (int, error)                    { return 0, nil }
func (n *noopStore) Entries() ([]Entry, error)                      { return []Entry{}, nil }
func (n *noopStore) TouchSeen(_ string, _ time.Time, _ int64) error { return nil }
func (n *noopStore) Close() error                                   { return nil }
