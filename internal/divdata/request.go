package divdata

import (
	"fmt"
	"path/filepath"

	"github.com/hpungsan/divdata/internal/errors"
)

// Domain limits for channel and detector numbers.
const (
	TimeStringLen = 10
	MinChannel    = 1
	MaxChannel    = 9
	MinDetector   = 1
	MaxDetector   = 21
)

// OutputSuffix is appended to the time string to name the text file.
const OutputSuffix = "_divdata.csv"

// Range is an inclusive start,end pair.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// String formats the range the way the extraction tool expects it: "start,end".
func (r Range) String() string {
	return fmt.Sprintf("%d,%d", r.Start, r.End)
}

// RequestInput is the caller-facing form of a request. Nil ends mean "same as start".
type RequestInput struct {
	TimeString    string
	ChannelStart  int
	ChannelEnd    *int
	DetectorStart int
	DetectorEnd   *int
	SaveDir       string
}

// Request is a validated extraction request with every default resolved.
type Request struct {
	TimeString string `json:"time_string"`
	Channels   Range  `json:"channels"`
	Detectors  Range  `json:"detectors"`
	SaveDir    string `json:"save_dir,omitempty"`
}

// NewRequest validates input and resolves the optional range ends.
func NewRequest(in RequestInput) (Request, error) {
	if len(in.TimeString) != TimeStringLen {
		return Request{}, errors.NewInvalidRequest(
			fmt.Sprintf("timestring has to be %d characters (YYYYMMDDHH), got %q", TimeStringLen, in.TimeString))
	}

	channels := Range{Start: in.ChannelStart, End: in.ChannelStart}
	if in.ChannelEnd != nil {
		channels.End = *in.ChannelEnd
	}
	detectors := Range{Start: in.DetectorStart, End: in.DetectorStart}
	if in.DetectorEnd != nil {
		detectors.End = *in.DetectorEnd
	}

	checks := []struct {
		field    string
		value    int
		min, max int
	}{
		{"channel_start", channels.Start, MinChannel, MaxChannel},
		{"channel_end", channels.End, MinChannel, MaxChannel},
		{"detector_start", detectors.Start, MinDetector, MaxDetector},
		{"detector_end", detectors.End, MinDetector, MaxDetector},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return Request{}, errors.NewOutOfRange(c.field, c.value, c.min, c.max)
		}
	}

	return Request{
		TimeString: in.TimeString,
		Channels:   channels,
		Detectors:  detectors,
		SaveDir:    in.SaveDir,
	}, nil
}

// OutputPath is the text file the pipeline writes: {SaveDir}/{TimeString}_divdata.csv.
// An empty SaveDir yields the bare file name.
func (r Request) OutputPath() string {
	return filepath.Join(r.SaveDir, r.TimeString+OutputSuffix)
}
