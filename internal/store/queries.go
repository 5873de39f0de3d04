// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of *sql.DB and *sql.Tx the queries need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides typed access to the local tables.
type Queries struct {
	db DBTX
}

// New creates a Queries instance over a database or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Event is a row in the event log.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserRef   sql.NullString
	Metadata  string
	CreatedAt time.Time
}

// CreateEventParams holds the fields for a new event log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserRef   sql.NullString
	Metadata  string
	CreatedAt time.Time
}

const createEvent = `
INSERT INTO events (level, category, message, user_ref, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, level, category, message, user_ref, metadata, created_at
`

// CreateEvent inserts an event log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.Level, arg.Category, arg.Message, arg.UserRef, arg.Metadata, arg.CreatedAt)

	var e Event
	err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserRef, &e.Metadata, &e.CreatedAt)
	return e, err
}

const listRecentEvents = `
SELECT id, level, category, message, user_ref, metadata, created_at
FROM events
ORDER BY created_at DESC, id DESC
LIMIT ?
`

// ListRecentEvents returns the newest events, newest first.
func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listRecentEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserRef, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// EventLevelCount is an event count for one severity level.
type EventLevelCount struct {
	Level string
	Count int64
}

const countEventsByLevel = `
SELECT level, COUNT(*) AS count
FROM events
GROUP BY level
ORDER BY level
`

// CountEventsByLevel returns event counts grouped by severity.
func (q *Queries) CountEventsByLevel(ctx context.Context) ([]EventLevelCount, error) {
	rows, err := q.db.QueryContext(ctx, countEventsByLevel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []EventLevelCount
	for rows.Next() {
		var c EventLevelCount
		if err := rows.Scan(&c.Level, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

const deleteEventsBefore = `DELETE FROM events WHERE created_at < ?`

// DeleteEventsBefore removes events older than the cutoff.
// Returns the number of rows deleted.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEventsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PageView is a row in the page view log.
type PageView struct {
	ID         int64
	Path       string
	Country    string
	Browser    string
	OS         string
	Device     string
	AccountRef sql.NullString
	CreatedAt  time.Time
}

// InsertPageViewParams holds the fields for a new page view record.
type InsertPageViewParams struct {
	Path       string
	Country    string
	Browser    string
	OS         string
	Device     string
	AccountRef sql.NullString
	CreatedAt  time.Time
}

const insertPageView = `
INSERT INTO page_views (path, country, browser, os, device, account_ref, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// InsertPageView records a storefront page view.
func (q *Queries) InsertPageView(ctx context.Context, arg InsertPageViewParams) error {
	_, err := q.db.ExecContext(ctx, insertPageView,
		arg.Path, arg.Country, arg.Browser, arg.OS, arg.Device, arg.AccountRef, arg.CreatedAt)
	return err
}

const countPageViewsSince = `SELECT COUNT(*) FROM page_views WHERE created_at >= ?`

// CountPageViewsSince returns the number of page views since the cutoff.
func (q *Queries) CountPageViewsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPageViewsSince, since).Scan(&count)
	return count, err
}

// PathCount is a view count for one path.
type PathCount struct {
	Path  string
	Count int64
}

// TopPagesSinceParams bounds the top pages query.
type TopPagesSinceParams struct {
	Since time.Time
	Limit int64
}

const topPagesSince = `
SELECT path, COUNT(*) AS count
FROM page_views
WHERE created_at >= ?
GROUP BY path
ORDER BY count DESC, path
LIMIT ?
`

// TopPagesSince returns the most viewed paths since the cutoff.
func (q *Queries) TopPagesSince(ctx context.Context, arg TopPagesSinceParams) ([]PathCount, error) {
	rows, err := q.db.QueryContext(ctx, topPagesSince, arg.Since, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []PathCount
	for rows.Next() {
		var c PathCount
		if err := rows.Scan(&c.Path, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountryCount is a view count for one country.
type CountryCount struct {
	Country string
	Count   int64
}

// TopCountriesSinceParams bounds the top countries query.
type TopCountriesSinceParams struct {
	Since time.Time
	Limit int64
}

const topCountriesSince = `
SELECT country, COUNT(*) AS count
FROM page_views
WHERE created_at >= ? AND country != ''
GROUP BY country
ORDER BY count DESC, country
LIMIT ?
`

// TopCountriesSince returns the countries with the most views since the cutoff.
func (q *Queries) TopCountriesSince(ctx context.Context, arg TopCountriesSinceParams) ([]CountryCount, error) {
	rows, err := q.db.QueryContext(ctx, topCountriesSince, arg.Since, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CountryCount
	for rows.Next() {
		var c CountryCount
		if err := rows.Scan(&c.Country, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

const purgePageViewsBefore = `DELETE FROM page_views WHERE created_at < ?`

// PurgePageViewsBefore removes page views older than the cutoff.
// Returns the number of rows deleted.
func (q *Queries) PurgePageViewsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, purgePageViewsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
