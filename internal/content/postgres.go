package content

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a Store backed by a shared Postgres database.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgresStore connects to connStr and ensures the schema exists.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	s := &PostgresStore{Pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS post_types (
			name TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			public BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			login TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			email TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			post_type TEXT NOT NULL,
			status TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			author_id BIGINT NOT NULL DEFAULT 0,
			post_date TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id BIGSERIAL PRIMARY KEY,
			post_id BIGINT NOT NULL REFERENCES posts(id),
			parent_id BIGINT NOT NULL DEFAULT 0,
			user_id BIGINT NOT NULL DEFAULT 0,
			author TEXT NOT NULL DEFAULT '',
			author_email TEXT NOT NULL DEFAULT '',
			author_url TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			comment_date TIMESTAMP NOT NULL,
			approved BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_type_status ON posts(post_type, status)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id)`,
	}

	for _, q := range queries {
		if _, err := s.Pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}

	for _, pt := range DefaultPostTypes {
		if _, err := s.Pool.Exec(ctx,
			`INSERT INTO post_types (name, label, public) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			pt.Name, pt.Label, pt.Public); err != nil {
			return fmt.Errorf("failed to register post type %s: %w", pt.Name, err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}

func (s *PostgresStore) PostTypes(ctx context.Context) ([]PostType, error) {
	rows, err := s.Pool.Query(ctx, `SELECT name, label, public FROM post_types ORDER BY name`)
	if err != nil {
		return nil, storeErr("post_types", "query_failed", nil, err)
	}
	types, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (PostType, error) {
		var pt PostType
		err := row.Scan(&pt.Name, &pt.Label, &pt.Public)
		return pt, err
	})
	if err != nil {
		return nil, storeErr("post_types", "scan_failed", nil, err)
	}
	return types, nil
}

func (s *PostgresStore) PublishedPostIDs(ctx context.Context, types []string) ([]int64, error) {
	if len(types) == 0 {
		return nil, nil
	}
	return s.queryIDs(ctx, "published_post_ids",
		`SELECT id FROM posts WHERE status = $1 AND post_type = ANY($2) ORDER BY id`,
		StatusPublish, types)
}

func (s *PostgresStore) CommentIDs(ctx context.Context, postID int64) ([]int64, error) {
	return s.queryIDs(ctx, "comment_ids", `SELECT id FROM comments WHERE post_id = $1 ORDER BY id`, postID)
}

func (s *PostgresStore) Users(ctx context.Context) ([]User, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, login, display_name, email FROM users ORDER BY id`)
	if err != nil {
		return nil, storeErr("users", "query_failed", nil, err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (User, error) {
		var u User
		err := row.Scan(&u.ID, &u.Login, &u.DisplayName, &u.Email)
		return u, err
	})
	if err != nil {
		return nil, storeErr("users", "scan_failed", nil, err)
	}
	return users, nil
}

func (s *PostgresStore) InsertComment(ctx context.Context, c Comment) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO comments (post_id, parent_id, user_id, author, author_email,
			author_url, content, comment_date, approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, c.PostID, c.ParentID, c.UserID, c.Author, c.AuthorEmail,
		c.AuthorURL, c.Content, c.Date.UTC(), c.Approved).Scan(&id)
	if err != nil {
		return 0, storeErr("insert_comment", "insert_failed", map[string]int64{"post_id": c.PostID}, err)
	}
	return id, nil
}

func (s *PostgresStore) InsertPost(ctx context.Context, p Post) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO posts (post_type, status, title, content, author_id, post_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.Type, p.Status, p.Title, p.Content, p.AuthorID, p.Date.UTC()).Scan(&id)
	if err != nil {
		return 0, storeErr("insert_post", "insert_failed", nil, err)
	}
	return id, nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, u User) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO users (login, display_name, email) VALUES ($1, $2, $3) RETURNING id`,
		u.Login, u.DisplayName, u.Email).Scan(&id)
	if err != nil {
		return 0, storeErr("insert_user", "insert_failed", map[string]string{"login": u.Login}, err)
	}
	return id, nil
}

func (s *PostgresStore) queryIDs(ctx context.Context, op, query string, args ...any) ([]int64, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, "query_failed", nil, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, storeErr(op, "scan_failed", nil, err)
	}
	return ids, nil
}
