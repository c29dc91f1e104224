package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/divdata/internal/errors"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleRetrieval(id, tstr string, createdAt int64) *Retrieval {
	return &Retrieval{
		ID:            id,
		TimeString:    tstr,
		ChannelStart:  3,
		ChannelEnd:    3,
		DetectorStart: 5,
		DetectorEnd:   5,
		Command:       "tcsh -c '...'",
		TextPath:      tstr + "_divdata.csv",
		Found:         true,
		TextSize:      1024,
		CreatedAt:     createdAt,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	database := setupDB(t)

	rows := 42
	tablePath := "2010100412_divdata.h5"
	r := sampleRetrieval("01A", "2010100412", 100)
	r.Rows = &rows
	r.TablePath = &tablePath
	r.DurationMS = 1500
	require.NoError(t, Insert(database, r))

	got, err := GetByID(database, "01A")
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestInsert_NullableFields(t *testing.T) {
	database := setupDB(t)

	r := sampleRetrieval("01B", "2010100412", 100)
	r.Found = false
	r.TextSize = 0
	r.ExitCode = 127
	require.NoError(t, Insert(database, r))

	got, err := GetByID(database, "01B")
	require.NoError(t, err)
	require.False(t, got.Found)
	require.Nil(t, got.Rows)
	require.Nil(t, got.TablePath)
	require.Equal(t, 127, got.ExitCode)
}

func TestGetByID_NotFound(t *testing.T) {
	database := setupDB(t)

	_, err := GetByID(database, "missing")
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestInsert_DuplicateID(t *testing.T) {
	database := setupDB(t)

	require.NoError(t, Insert(database, sampleRetrieval("01A", "2010100412", 100)))
	err := Insert(database, sampleRetrieval("01A", "2010100412", 200))
	require.True(t, errors.Is(err, errors.ErrInternal))
}

func TestListAndCount(t *testing.T) {
	database := setupDB(t)

	require.NoError(t, Insert(database, sampleRetrieval("01A", "2010100412", 100)))
	require.NoError(t, Insert(database, sampleRetrieval("01B", "2010100413", 200)))
	require.NoError(t, Insert(database, sampleRetrieval("01C", "2010100412", 300)))

	all, err := List(database, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "01C", all[0].ID)
	require.Equal(t, "01A", all[2].ID)

	filtered, err := List(database, "2010100412", 10, 0)
	require.NoError(t, err)
	require.Len(t, filtered, 2)

	page, err := List(database, "", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "01B", page[0].ID)

	n, err := Count(database, "")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = Count(database, "2010100413")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestList_Empty(t *testing.T) {
	database := setupDB(t)

	items, err := List(database, "", 10, 0)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Len(t, items, 0)
}
