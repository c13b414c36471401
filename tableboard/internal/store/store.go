// Package store is the data access layer of the tabular backend: the two
// export tables loaded into SQLite, queried per request.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// PostRow is one row of the posts table.
type PostRow struct {
	ID      string
	Name    string // client
	Writer  string
	Subject string
	Content string
	RegDate string
	CommCnt int
	HitCnt  int
}

// CommentRow is one row of the comments table.
type CommentRow struct {
	ID      string
	PostID  string
	Writer  string
	Content string
	RegDate string
}

// Store wraps the loaded export database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an already-opened database.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Reset drops all loaded rows, for a reload.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM comments`); err != nil {
		return fmt.Errorf("reset comments: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return fmt.Errorf("reset posts: %w", err)
	}
	return nil
}

// InsertPosts bulk-inserts post rows in one transaction.
func (s *Store) InsertPosts(ctx context.Context, rows []PostRow) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO posts
		(id, name, writer, subject, content, reg_date, comm_cnt, hit_cnt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Writer, r.Subject,
			r.Content, r.RegDate, r.CommCnt, r.HitCnt); err != nil {
			return fmt.Errorf("insert post %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// InsertComments bulk-inserts comment rows in one transaction.
func (s *Store) InsertComments(ctx context.Context, rows []CommentRow) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO comments
		(id, post_id, writer, content, reg_date) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.ID, r.PostID, r.Writer, r.Content, r.RegDate); err != nil {
			return fmt.Errorf("insert comment %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns posts for a client, busiest threads first (comment
// count descending, then most recent). An empty client matches everything;
// otherwise matching is bidirectional substring, so "블루타이거 CS" rows
// match a "블루타이거" query and vice versa. Date filtering happens in the
// caller, which is why no limit is applied here.
func (s *Store) ListPosts(ctx context.Context, client string) ([]*PostRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, writer, subject, content, reg_date, comm_cnt, hit_cnt
		FROM posts
		WHERE ? = '' OR instr(name, ?) > 0 OR instr(?, name) > 0
		ORDER BY comm_cnt DESC, reg_date DESC`,
		client, client, client)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*PostRow
	for rows.Next() {
		var r PostRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Writer, &r.Subject, &r.Content,
			&r.RegDate, &r.CommCnt, &r.HitCnt); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// CommentsForPost returns a post's comments in registration order.
func (s *Store) CommentsForPost(ctx context.Context, postID string) ([]*CommentRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, post_id, writer, content, reg_date
		FROM comments WHERE post_id = ? ORDER BY reg_date, id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CommentRow
	for rows.Next() {
		var r CommentRow
		if err := rows.Scan(&r.ID, &r.PostID, &r.Writer, &r.Content, &r.RegDate); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// ClientNames returns the distinct client names, sorted.
func (s *Store) ClientNames(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT DISTINCT name FROM posts WHERE name != '' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// RecentPosts returns a client's posts most-recent first, for the bounded
// responsible-person window.
func (s *Store) RecentPosts(ctx context.Context, client string, limit int) ([]*PostRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, writer, subject, content, reg_date, comm_cnt, hit_cnt
		FROM posts
		WHERE ? = '' OR instr(name, ?) > 0 OR instr(?, name) > 0
		ORDER BY reg_date DESC LIMIT ?`,
		client, client, client, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*PostRow
	for rows.Next() {
		var r PostRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Writer, &r.Subject, &r.Content,
			&r.RegDate, &r.CommCnt, &r.HitCnt); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
