package divdata

import (
	"path"
	"strings"

	"github.com/kballard/go-shellquote"
)

// LatitudeRange is passed to the extraction tool; retrievals always cover the full globe.
const LatitudeRange = "-90,90"

// Tools locates the external programs.
type Tools struct {
	Shell       string // login shell wrapping the pipeline, e.g. tcsh
	DivdataPath string
	PipesRoot   string
}

// Command is a built pipeline. Stages hold argument vectors, never pre-joined
// strings; quoting happens once in Line.
type Command struct {
	Shell      string     `json:"shell"`
	Stages     [][]string `json:"stages"`
	OutputPath string     `json:"output_path"`
}

// BuildCommand maps a request to the three-stage pipeline:
//
//	divdata daterange=T clat=-90,90 c=CS,CE det=DS,DE | pextract extract=... | pprint titles=0 > OUT
//
// It performs no I/O.
func BuildCommand(tools Tools, req Request) Command {
	// The tools live on a unix host; use slash paths regardless of GOOS.
	pextract := path.Join(tools.PipesRoot, "pextract")
	pprint := path.Join(tools.PipesRoot, "pprint")

	return Command{
		Shell: tools.Shell,
		Stages: [][]string{
			{
				tools.DivdataPath,
				"daterange=" + req.TimeString,
				"clat=" + LatitudeRange,
				"c=" + req.Channels.String(),
				"det=" + req.Detectors.String(),
			},
			{pextract, "extract=" + ExtractList()},
			{pprint, "titles=0"},
		},
		OutputPath: req.OutputPath(),
	}
}

// Line is the pipeline as the shell sees it, every argument quoted.
func (c Command) Line() string {
	parts := make([]string, len(c.Stages))
	for i, stage := range c.Stages {
		parts[i] = shellquote.Join(stage...)
	}
	return strings.Join(parts, " | ") + " > " + shellquote.Join(c.OutputPath)
}

// Argv is the process to execute: the shell running Line.
func (c Command) Argv() []string {
	return []string{c.Shell, "-c", c.Line()}
}

// String renders the full invocation for printing, e.g. tcsh -c '...'.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}
