//go:build !windows

package ops

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/divdata/internal/config"
	"github.com/hpungsan/divdata/internal/db"
	"github.com/hpungsan/divdata/internal/divdata"
	"github.com/hpungsan/divdata/internal/logger"
	"github.com/hpungsan/divdata/internal/pipeline"
)

// installFakeTools writes shell stand-ins for divdata, pextract and pprint.
// divdata records its arguments next to itself and emits sampleOutput.
func installFakeTools(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	scripts := map[string]string{
		"divdata":  "#!/bin/sh\necho \"$@\" > \"$(dirname \"$0\")/divdata.args\"\ncat <<'DATA'\n" + sampleOutput + "DATA\n",
		"pextract": "#!/bin/sh\ncat\n",
		"pprint":   "#!/bin/sh\ncat\n",
	}
	for name, body := range scripts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0755))
	}

	cfg := config.DefaultConfig()
	cfg.Shell = "sh"
	cfg.DivdataPath = filepath.Join(dir, "divdata")
	cfg.PipesRoot = dir
	return cfg
}

// TestFullWorkflow exercises a retrieval through a real shell pipeline:
// command → run → text file → table → history.
func TestFullWorkflow(t *testing.T) {
	cfg := installFakeTools(t)
	saveDir := t.TempDir()

	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	defer database.Close()

	var out bytes.Buffer
	env := Env{
		Config: cfg,
		Runner: pipeline.ExecRunner{},
		Tables: &fakeTables{},
		DB:     database,
		Out:    &out,
		Log:    logger.Nop(),
	}

	cend := 4
	result, err := Retrieve(context.Background(), env, RetrieveInput{
		Request: divdata.RequestInput{
			TimeString:    "2010100412",
			ChannelStart:  3,
			ChannelEnd:    &cend,
			DetectorStart: 5,
			SaveDir:       saveDir,
		},
		CreateTable: true,
		DropDates:   true,
		KeepText:    true,
	})
	require.NoError(t, err)

	require.True(t, result.Found)
	require.Equal(t, 0, result.ExitCode)
	require.Equal(t, 2, result.Rows)
	require.FileExists(t, result.TextPath)

	args, err := os.ReadFile(filepath.Join(filepath.Dir(cfg.DivdataPath), "divdata.args"))
	require.NoError(t, err)
	require.Equal(t, "daterange=2010100412 clat=-90,90 c=3,4 det=5,5", strings.TrimSpace(string(args)))

	hist, err := History(database, HistoryInput{TimeString: "2010100412"})
	require.NoError(t, err)
	require.Len(t, hist.Items, 1)
	require.Equal(t, result.ID, hist.Items[0].ID)
	require.Equal(t, 4, hist.Items[0].ChannelEnd)
}

func TestFullWorkflow_NoOutputFile(t *testing.T) {
	cfg := installFakeTools(t)
	require.NoError(t, os.Remove(cfg.DivdataPath))
	// The shell creates the redirect target even when a stage is missing, so
	// point the output into a directory that does not exist.
	saveDir := filepath.Join(t.TempDir(), "missing")

	var out bytes.Buffer
	env := Env{Config: cfg, Runner: pipeline.ExecRunner{Stderr: &bytes.Buffer{}}, Out: &out, Log: logger.Nop()}

	result, err := Retrieve(context.Background(), env, RetrieveInput{
		Request:     divdata.RequestInput{TimeString: "2010100412", ChannelStart: 3, DetectorStart: 5, SaveDir: saveDir},
		CreateTable: true,
	})
	require.NoError(t, err)
	require.False(t, result.Found)
	require.NotEqual(t, 0, result.ExitCode)
	require.Contains(t, out.String(), "Something went wrong, cannot find the output file.")
}
