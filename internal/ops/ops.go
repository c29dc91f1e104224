package ops

import (
	"crypto/rand"
	"database/sql"
	"io"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/divdata/internal/config"
	"github.com/hpungsan/divdata/internal/divdata"
	"github.com/hpungsan/divdata/internal/logger"
	"github.com/hpungsan/divdata/internal/pipeline"
	"github.com/hpungsan/divdata/internal/table"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// TableKey is the handle the parsed table is stored under in the HDF5 file.
const TableKey = "df"

// TableExt replaces the text file's extension for the persisted table.
const TableExt = ".h5"

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// TableWriter persists a parsed table under a named handle.
type TableWriter interface {
	WriteTable(path, key string, t *table.Table) error
}

// Env carries the collaborators of a retrieval.
type Env struct {
	Config *config.Config
	Runner pipeline.Runner
	Tables TableWriter
	DB     *sql.DB // nil disables the retrieval history
	Out    io.Writer
	Log    logger.Logger
}

// tools maps config to the builder's tool locations.
func tools(cfg *config.Config) divdata.Tools {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return divdata.Tools{
		Shell:       cfg.Shell,
		DivdataPath: cfg.DivdataPath,
		PipesRoot:   cfg.PipesRoot,
	}
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
