package db

import (
	"database/sql"

	"github.com/hpungsan/divdata/internal/errors"
)

// Retrieval is one recorded run of the pipeline.
type Retrieval struct {
	ID            string  `json:"id"`
	TimeString    string  `json:"time_string"`
	ChannelStart  int     `json:"channel_start"`
	ChannelEnd    int     `json:"channel_end"`
	DetectorStart int     `json:"detector_start"`
	DetectorEnd   int     `json:"detector_end"`
	Command       string  `json:"command"`
	TextPath      string  `json:"text_path"`
	Found         bool    `json:"found"`
	TextSize      int64   `json:"text_size"`
	ExitCode      int     `json:"exit_code"`
	Rows          *int    `json:"rows,omitempty"`
	TablePath     *string `json:"table_path,omitempty"`
	DurationMS    int64   `json:"duration_ms"`
	CreatedAt     int64   `json:"created_at"`
}

const selectColumns = `
	SELECT id, time_string, channel_start, channel_end, detector_start, detector_end,
		command, text_path, found, text_size, exit_code, row_count, table_path,
		duration_ms, created_at
	FROM retrievals
`

// Insert stores a retrieval record.
func Insert(db *sql.DB, r *Retrieval) error {
	query := `
		INSERT INTO retrievals (
			id, time_string, channel_start, channel_end, detector_start, detector_end,
			command, text_path, found, text_size, exit_code, row_count, table_path,
			duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var rows sql.NullInt64
	if r.Rows != nil {
		rows = sql.NullInt64{Int64: int64(*r.Rows), Valid: true}
	}
	var tablePath sql.NullString
	if r.TablePath != nil {
		tablePath = sql.NullString{String: *r.TablePath, Valid: true}
	}

	_, err := db.Exec(query,
		r.ID, r.TimeString, r.ChannelStart, r.ChannelEnd, r.DetectorStart, r.DetectorEnd,
		r.Command, r.TextPath, r.Found, r.TextSize, r.ExitCode, rows, tablePath,
		r.DurationMS, r.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetByID retrieves a record by its ULID.
func GetByID(db *sql.DB, id string) (*Retrieval, error) {
	row := db.QueryRow(selectColumns+" WHERE id = ?", id)
	r, err := scanRetrieval(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// List returns records newest first. An empty timeString matches all records.
func List(db *sql.DB, timeString string, limit, offset int) ([]Retrieval, error) {
	query := selectColumns
	args := []any{}
	if timeString != "" {
		query += " WHERE time_string = ?"
		args = append(args, timeString)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	items := make([]Retrieval, 0)
	for rows.Next() {
		r, err := scanRetrieval(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return items, nil
}

// Count returns the number of records. An empty timeString matches all records.
func Count(db *sql.DB, timeString string) (int, error) {
	query := "SELECT COUNT(*) FROM retrievals"
	args := []any{}
	if timeString != "" {
		query += " WHERE time_string = ?"
		args = append(args, timeString)
	}

	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRetrieval(s scanner) (*Retrieval, error) {
	var (
		r         Retrieval
		rows      sql.NullInt64
		tablePath sql.NullString
	)
	err := s.Scan(
		&r.ID, &r.TimeString, &r.ChannelStart, &r.ChannelEnd, &r.DetectorStart, &r.DetectorEnd,
		&r.Command, &r.TextPath, &r.Found, &r.TextSize, &r.ExitCode, &rows, &tablePath,
		&r.DurationMS, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rows.Valid {
		n := int(rows.Int64)
		r.Rows = &n
	}
	if tablePath.Valid {
		p := tablePath.String
		r.TablePath = &p
	}
	return &r, nil
}
