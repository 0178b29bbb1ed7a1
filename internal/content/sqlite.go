package content

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store backed by a local SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at dbPath.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS post_types (
		name TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		public BOOLEAN NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		login TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		email TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_type TEXT NOT NULL,
		status TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		author_id INTEGER NOT NULL DEFAULT 0,
		post_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL REFERENCES posts(id),
		parent_id INTEGER NOT NULL DEFAULT 0,
		user_id INTEGER NOT NULL DEFAULT 0,
		author TEXT NOT NULL DEFAULT '',
		author_email TEXT NOT NULL DEFAULT '',
		author_url TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		comment_date TEXT NOT NULL,
		approved BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_posts_type_status ON posts(post_type, status);
	CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}

	for _, pt := range DefaultPostTypes {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO post_types (name, label, public) VALUES (?, ?, ?)`,
			pt.Name, pt.Label, pt.Public); err != nil {
			return fmt.Errorf("failed to register post type %s: %w", pt.Name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) PostTypes(ctx context.Context) ([]PostType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, label, public FROM post_types ORDER BY name`)
	if err != nil {
		return nil, storeErr("post_types", "query_failed", nil, err)
	}
	defer rows.Close()

	var types []PostType
	for rows.Next() {
		var pt PostType
		if err := rows.Scan(&pt.Name, &pt.Label, &pt.Public); err != nil {
			return nil, storeErr("post_types", "scan_failed", nil, err)
		}
		types = append(types, pt)
	}
	return types, rows.Err()
}

func (s *SQLiteStore) PublishedPostIDs(ctx context.Context, types []string) ([]int64, error) {
	if len(types) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(types)+1)
	args = append(args, StatusPublish)
	for _, t := range types {
		args = append(args, t)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(types)), ",")
	query := fmt.Sprintf(`SELECT id FROM posts WHERE status = ? AND post_type IN (%s) ORDER BY id`, placeholders)

	return s.queryIDs(ctx, "published_post_ids", query, args...)
}

func (s *SQLiteStore) CommentIDs(ctx context.Context, postID int64) ([]int64, error) {
	return s.queryIDs(ctx, "comment_ids", `SELECT id FROM comments WHERE post_id = ? ORDER BY id`, postID)
}

func (s *SQLiteStore) Users(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, login, display_name, email FROM users ORDER BY id`)
	if err != nil {
		return nil, storeErr("users", "query_failed", nil, err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Login, &u.DisplayName, &u.Email); err != nil {
			return nil, storeErr("users", "scan_failed", nil, err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) InsertComment(ctx context.Context, c Comment) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (post_id, parent_id, user_id, author, author_email,
			author_url, content, comment_date, approved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.PostID, c.ParentID, c.UserID, c.Author, c.AuthorEmail,
		c.AuthorURL, c.Content, FormatDate(c.Date), c.Approved)
	if err != nil {
		return 0, storeErr("insert_comment", "insert_failed", map[string]int64{"post_id": c.PostID}, err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) InsertPost(ctx context.Context, p Post) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (post_type, status, title, content, author_id, post_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Type, p.Status, p.Title, p.Content, p.AuthorID, FormatDate(p.Date))
	if err != nil {
		return 0, storeErr("insert_post", "insert_failed", nil, err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) InsertUser(ctx context.Context, u User) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (login, display_name, email) VALUES (?, ?, ?)`,
		u.Login, u.DisplayName, u.Email)
	if err != nil {
		return 0, storeErr("insert_user", "insert_failed", map[string]string{"login": u.Login}, err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) queryIDs(ctx context.Context, op, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, "query_failed", nil, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr(op, "scan_failed", nil, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
