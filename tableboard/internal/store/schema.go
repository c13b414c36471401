package store

import "database/sql"

// Schema mirrors the export's two tables. Column names follow the file
// contract so loader and queries stay obviously aligned.
const Schema = `
CREATE TABLE IF NOT EXISTS posts (
    id        TEXT PRIMARY KEY,
    name      TEXT NOT NULL DEFAULT '',
    writer    TEXT NOT NULL DEFAULT '',
    subject   TEXT NOT NULL DEFAULT '',
    content   TEXT NOT NULL DEFAULT '',
    reg_date  TEXT NOT NULL DEFAULT '',
    comm_cnt  INTEGER NOT NULL DEFAULT 0,
    hit_cnt   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_posts_name ON posts(name);
CREATE INDEX IF NOT EXISTS idx_posts_comm ON posts(comm_cnt DESC);

CREATE TABLE IF NOT EXISTS comments (
    id        TEXT PRIMARY KEY,
    post_id   TEXT NOT NULL,
    writer    TEXT NOT NULL DEFAULT '',
    content   TEXT NOT NULL DEFAULT '',
    reg_date  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);
`

// ApplySchema creates the tables.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
