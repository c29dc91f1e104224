package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/divdata/internal/config"
	"github.com/hpungsan/divdata/internal/db"
	"github.com/hpungsan/divdata/internal/divdata"
	"github.com/hpungsan/divdata/internal/errors"
	"github.com/hpungsan/divdata/internal/logger"
	"github.com/hpungsan/divdata/internal/mcp"
	"github.com/hpungsan/divdata/internal/ops"
	"github.com/hpungsan/divdata/internal/pipeline"
)

// Exit codes.
const (
	exitFailure = 1
	exitUsage   = 2
)

var description = `Builds the pipeline
   divdata daterange=TIMESTRING clat=-90,90 c=CSTART,CEND det=DETSTART,DETEND |
   pextract extract=` + divdata.ExtractList() + ` |
   pprint titles=0 > SAVEDIR/TIMESTRING_divdata.csv
runs it under a login shell and reports the text file it produced. With --create_hdf the
file is parsed, indexed by time and saved as SAVEDIR/TIMESTRING_divdata.h5 (table handle "df").

Options may appear at any position, e.g. after TIMESTRING CSTART DETSTART.`

// appDeps are the process-level collaborators of the CLI.
type appDeps struct {
	Out       io.Writer // report lines and JSON
	Err       io.Writer // logs; nil means stderr
	Runner    pipeline.Runner
	Tables    ops.TableWriter
	ConfigDir string // default for --config
	WorkDir   string // start of the repo config search
}

// session holds what Before resolves from flags and config.
type session struct {
	deps appDeps
	env  ops.Env
	db   *sql.DB
}

// newCLIApp creates the CLI application: the root retrieval action plus subcommands.
func newCLIApp(deps appDeps) *cli.App {
	s := &session{deps: deps}
	app := &cli.App{
		Name:        "divdata",
		Usage:       "Retrieve Diviner channel/detector data into a text file and optionally HDF5",
		UsageText:   "divdata [options] TIMESTRING CSTART DETSTART",
		Description: description,
		Version:     Version,
		Writer:      deps.Out,
		ErrWriter:   deps.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "savedir", Aliases: []string{"s"}, Usage: "Folder for the output files (default: config save_dir, else current folder)"},
			&cli.IntFlag{Name: "cend", Usage: "Last Diviner channel, 1-9 (default: CSTART)"},
			&cli.IntFlag{Name: "detend", Usage: "Last detector, 1-21 (default: DETSTART)"},
			&cli.BoolFlag{Name: "create_hdf", Usage: `Parse the text file into a time-indexed table and save it as HDF5 (handle "df")`},
			&cli.BoolFlag{Name: "keep_csv", Usage: "Keep the text file after creating the HDF5 file"},
			&cli.BoolFlag{Name: "keep_dates", Usage: "Keep the year..second columns next to the time index"},
			&cli.BoolFlag{Name: "test", Aliases: []string{"t"}, Usage: "Print the command for verification and exit"},
			&cli.StringFlag{Name: "config", Value: deps.ConfigDir, Usage: "Base directory for config.json and the history database"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level: trace|debug|info|warn|error (default: config log_level)"},
		},
		Before: s.open,
		After:  s.close,
		Action: s.retrieve,
		Commands: []*cli.Command{
			historyCmd(s),
			serveCmd(s),
		},
	}
	app.OnUsageError = usageError
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// open loads config, builds the logger and opens the history database when enabled.
func (s *session) open(c *cli.Context) error {
	baseDir := c.String("config")
	cfg, err := config.LoadWithRepo(baseDir, s.deps.WorkDir)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load config: %v", err), exitFailure)
	}

	level := cfg.LogLevel
	if l := c.String("log-level"); l != "" {
		level = l
	}
	log := logger.New(logger.Options{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: "divdata",
		Writer:    s.deps.Err,
	})

	s.env = ops.Env{
		Config: cfg,
		Runner: s.deps.Runner,
		Tables: s.deps.Tables,
		Out:    s.deps.Out,
		Log:    log,
	}

	// --test only prints
	if cfg.History && !c.Bool("test") {
		database, err := db.Init(baseDir)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to initialize database: %v", err), exitFailure)
		}
		db.ConfigurePool(database, cfg)
		s.db = database
		s.env.DB = database
	}
	return nil
}

func (s *session) close(_ *cli.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// retrieve is the root action: TIMESTRING CSTART DETSTART.
func (s *session) retrieve(c *cli.Context) error {
	if c.NArg() != 3 {
		fmt.Fprintf(s.deps.Out, "expected TIMESTRING CSTART DETSTART, got %d arguments\n\n", c.NArg())
		_ = cli.ShowAppHelp(c)
		return cli.Exit("", exitUsage)
	}

	args := c.Args()
	tstr := args.Get(0)
	if len(tstr) != divdata.TimeStringLen {
		fmt.Fprintf(s.deps.Out, "\n Nope! timestring has to be %d characters!\n\n", divdata.TimeStringLen)
		_ = cli.ShowAppHelp(c)
		return cli.Exit("", exitUsage)
	}

	cstart, err := strconv.Atoi(args.Get(1))
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid CSTART %q: must be an integer", args.Get(1)), exitUsage)
	}
	detstart, err := strconv.Atoi(args.Get(2))
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid DETSTART %q: must be an integer", args.Get(2)), exitUsage)
	}

	input := divdata.RequestInput{
		TimeString:    tstr,
		ChannelStart:  cstart,
		DetectorStart: detstart,
		SaveDir:       s.env.Config.SaveDir,
	}
	if c.IsSet("savedir") {
		input.SaveDir = c.String("savedir")
	}
	if c.IsSet("cend") {
		cend := c.Int("cend")
		input.ChannelEnd = &cend
	}
	if c.IsSet("detend") {
		detend := c.Int("detend")
		input.DetectorEnd = &detend
	}

	if c.Bool("test") {
		output, err := ops.Command(s.env.Config, input)
		if err != nil {
			return outputError(err)
		}
		fmt.Fprintf(s.deps.Out, "Command verification:\n %s\n", output.Command)
		return nil
	}

	createHDF := c.Bool("create_hdf")
	_, err = ops.Retrieve(c.Context, s.env, ops.RetrieveInput{
		Request:      input,
		CreateTable:  createHDF,
		DropDates:    !c.Bool("keep_dates"),
		KeepText:     c.Bool("keep_csv"),
		PersistTable: createHDF,
	})
	if err != nil {
		return outputError(err)
	}
	return nil
}

// historyCmd creates the history command.
func historyCmd(s *session) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: `List recorded retrievals, newest first (requires "history": true in config)`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "time", Usage: "Only retrievals for this TIMESTRING"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return (max 100)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Items to skip"},
			&cli.StringFlag{Name: "id", Usage: "Show a single retrieval by ID"},
		},
		OnUsageError: usageError,
		Action: func(c *cli.Context) error {
			if id := c.String("id"); id != "" {
				record, err := ops.GetRetrieval(s.env.DB, id)
				if err != nil {
					return outputError(err)
				}
				return outputJSON(s.deps.Out, record)
			}

			output, err := ops.History(s.env.DB, ops.HistoryInput{
				TimeString: c.String("time"),
				Limit:      c.Int("limit"),
				Offset:     c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(s.deps.Out, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(s *session) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve divdata tools over MCP on stdio",
		Action: func(c *cli.Context) error {
			env := s.env
			// stdout carries the protocol
			if r, ok := env.Runner.(pipeline.ExecRunner); ok {
				r.Stdout = os.Stderr
				env.Runner = r
			}
			if err := mcp.Run(env, Version); err != nil {
				return cli.Exit(err.Error(), exitFailure)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// usageError turns flag parsing failures into usage exits.
func usageError(_ *cli.Context, err error, _ bool) error {
	return cli.Exit(err.Error(), exitUsage)
}

// outputError formats error for CLI. Invalid requests exit with the usage code.
func outputError(err error) error {
	if dErr, ok := err.(*errors.DivError); ok {
		code := exitFailure
		if dErr.Code == errors.ErrInvalidRequest {
			code = exitUsage
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", dErr.Code, dErr.Message), code)
	}
	return cli.Exit(err.Error(), exitFailure)
}
