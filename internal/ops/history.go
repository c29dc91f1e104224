package ops

import (
	"database/sql"

	"github.com/hpungsan/divdata/internal/db"
	"github.com/hpungsan/divdata/internal/errors"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	TimeString string // optional filter
	Limit      int    // default: 20, max: 100
	Offset     int
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Items      []db.Retrieval `json:"items"`
	Pagination Pagination     `json:"pagination"`
}

// History lists recorded retrievals, newest first.
func History(database *sql.DB, input HistoryInput) (*HistoryOutput, error) {
	if database == nil {
		return nil, errors.NewInvalidRequest(`history is disabled; set "history": true in config.json`)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	items, err := db.List(database, input.TimeString, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := db.Count(database, input.TimeString)
	if err != nil {
		return nil, err
	}

	return &HistoryOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}

// GetRetrieval returns one recorded retrieval by ID.
func GetRetrieval(database *sql.DB, id string) (*db.Retrieval, error) {
	if database == nil {
		return nil, errors.NewInvalidRequest(`history is disabled; set "history": true in config.json`)
	}
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	return db.GetByID(database, id)
}
