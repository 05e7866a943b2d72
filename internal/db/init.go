// Package db opens the PostgreSQL connection and creates the schema.
package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS campgrounds (
	id            UUID PRIMARY KEY,
	author_id     UUID NOT NULL REFERENCES users (id),
	title         TEXT NOT NULL,
	image         TEXT NOT NULL DEFAULT '',
	price         NUMERIC(10,2) NOT NULL CHECK (price >= 0),
	description   TEXT NOT NULL DEFAULT '',
	location      TEXT NOT NULL DEFAULT '',
	photo_file_id TEXT NOT NULL DEFAULT '',
	review_ids    TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reviews (
	id            UUID PRIMARY KEY,
	campground_id UUID NOT NULL,
	author_id     UUID NOT NULL REFERENCES users (id),
	body          TEXT NOT NULL,
	rating        INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reviews_campground_id ON reviews (campground_id);
`

// InitPostgres connects to PostgreSQL and ensures the schema exists.
func InitPostgres(databaseURL string) (*sqlx.DB, error) {
	conn, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("db schema: %w", err)
	}
	return conn, nil
}
