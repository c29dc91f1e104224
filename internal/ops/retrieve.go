package ops

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hpungsan/divdata/internal/db"
	"github.com/hpungsan/divdata/internal/divdata"
	"github.com/hpungsan/divdata/internal/errors"
	"github.com/hpungsan/divdata/internal/table"
)

// RetrieveInput contains parameters for the Retrieve operation.
type RetrieveInput struct {
	Request      divdata.RequestInput
	CreateTable  bool // parse the text file into a time-indexed table
	DropDates    bool // drop the six date/time columns once indexed
	KeepText     bool // keep the text file after parsing
	PersistTable bool // write the table to <text file>.h5
}

// RetrieveOutput contains the result of the Retrieve operation.
type RetrieveOutput struct {
	ID          string       `json:"id,omitempty"`
	Command     string       `json:"command"`
	TextPath    string       `json:"text_path"`
	Found       bool         `json:"found"`
	TextSize    int64        `json:"text_size"`
	TextRemoved bool         `json:"text_removed"`
	ExitCode    int          `json:"exit_code"`
	Rows        int          `json:"rows"`
	Columns     []string     `json:"columns,omitempty"`
	TablePath   string       `json:"table_path,omitempty"`
	Table       *table.Table `json:"-"`
}

// Retrieve runs one end-to-end retrieval: build, run, check, then optionally
// parse, index, clean up and persist.
//
// A pipeline that produces no file is not an error: a diagnostic is written to
// env.Out and the output has Found=false and no table. The exit status of the
// pipeline is logged only.
func Retrieve(ctx context.Context, env Env, input RetrieveInput) (*RetrieveOutput, error) {
	req, err := divdata.NewRequest(input.Request)
	if err != nil {
		return nil, err
	}
	out := env.Out
	if out == nil {
		out = io.Discard
	}
	log := env.Log.With().Str("time_string", req.TimeString).Logger()

	cmd := divdata.BuildCommand(tools(env.Config), req)
	result := &RetrieveOutput{
		Command:  cmd.String(),
		TextPath: cmd.OutputPath,
	}

	fmt.Fprintf(out, "Calling\n %s\n", result.Command)
	log.Debug().Strs("argv", cmd.Argv()).Msg("running pipeline")

	start := time.Now()
	res, runErr := env.Runner.Run(ctx, cmd.Argv())
	result.ExitCode = res.ExitCode
	if runErr != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("retrieve")
		}
		log.Warn().Err(runErr).Msg("pipeline failed to start")
	} else if res.ExitCode != 0 {
		log.Warn().Int("exit_code", res.ExitCode).Msg("pipeline exited non-zero")
	}
	log.Info().Dur("duration", res.Duration).Int("exit_code", res.ExitCode).Msg("pipeline finished")

	info, statErr := os.Stat(cmd.OutputPath)
	if statErr != nil {
		fmt.Fprintln(out, "Something went wrong, cannot find the output file.")
		log.Debug().Err(statErr).Str("path", cmd.OutputPath).Msg("output file missing")
		record(env, req, result, time.Since(start))
		return result, nil
	}
	result.Found = true
	result.TextSize = info.Size()
	fmt.Fprintln(out, "Created text file", cmd.OutputPath)
	fmt.Fprintln(out, "Size:", result.TextSize)

	if input.CreateTable {
		if err := buildTable(env, out, input, result); err != nil {
			return nil, err
		}
	}

	record(env, req, result, time.Since(start))
	return result, nil
}

// buildTable parses the text file into result.Table and handles the text file
// and the HDF5 copy according to input.
func buildTable(env Env, out io.Writer, input RetrieveInput, result *RetrieveOutput) error {
	fmt.Fprintln(out, "Parsing text file...")
	strict := env.Config != nil && env.Config.StrictLeadingColumn
	t, err := table.ParseFile(result.TextPath, divdata.Columns, strict)
	if err != nil {
		return err
	}
	if err := table.IndexByTime(t, divdata.DateColumns, input.DropDates); err != nil {
		return errors.NewParseFailed(result.TextPath, 0, err.Error())
	}
	result.Table = t
	result.Rows = t.Len()
	result.Columns = t.Names()

	if !input.KeepText {
		fmt.Fprintln(out, "Removing temporary text file", result.TextPath)
		if err := os.Remove(result.TextPath); err != nil {
			return errors.NewInternal(fmt.Errorf("failed to remove %s: %w", result.TextPath, err))
		}
		result.TextRemoved = true
	}

	if input.PersistTable {
		if env.Tables == nil {
			return errors.NewInternal(fmt.Errorf("no table writer configured"))
		}
		path := TablePath(result.TextPath)
		fmt.Fprintln(out, "Creating HDF file:", path)
		if err := env.Tables.WriteTable(path, TableKey, t); err != nil {
			return errors.NewPersistFailed(path, err)
		}
		result.TablePath = path
	}
	return nil
}

// TablePath swaps the text file's extension for TableExt, keeping its directory.
func TablePath(textPath string) string {
	return strings.TrimSuffix(textPath, filepath.Ext(textPath)) + TableExt
}

// record writes the retrieval to the history database. Failures are logged
// and never fail the retrieval.
func record(env Env, req divdata.Request, result *RetrieveOutput, elapsed time.Duration) {
	if env.DB == nil {
		return
	}
	id, err := generateULID()
	if err != nil {
		env.Log.Warn().Err(err).Msg("history: failed to generate id")
		return
	}

	r := &db.Retrieval{
		ID:            id,
		TimeString:    req.TimeString,
		ChannelStart:  req.Channels.Start,
		ChannelEnd:    req.Channels.End,
		DetectorStart: req.Detectors.Start,
		DetectorEnd:   req.Detectors.End,
		Command:       result.Command,
		TextPath:      result.TextPath,
		Found:         result.Found,
		TextSize:      result.TextSize,
		ExitCode:      result.ExitCode,
		DurationMS:    elapsed.Milliseconds(),
		CreatedAt:     time.Now().Unix(),
	}
	if result.Table != nil {
		rows := result.Rows
		r.Rows = &rows
	}
	if result.TablePath != "" {
		p := result.TablePath
		r.TablePath = &p
	}

	if err := db.Insert(env.DB, r); err != nil {
		env.Log.Warn().Err(err).Msg("history: failed to record retrieval")
		return
	}
	result.ID = id
}
