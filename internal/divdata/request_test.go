package divdata

import (
	"path/filepath"
	"testing"

	"github.com/hpungsan/divdata/internal/errors"
)

func intPtr(v int) *int { return &v }

func TestNewRequest_DefaultsEndsToStart(t *testing.T) {
	req, err := NewRequest(RequestInput{TimeString: "2010100412", ChannelStart: 3, DetectorStart: 5})
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if req.Channels != (Range{Start: 3, End: 3}) {
		t.Errorf("Channels = %+v, want {3 3}", req.Channels)
	}
	if req.Detectors != (Range{Start: 5, End: 5}) {
		t.Errorf("Detectors = %+v, want {5 5}", req.Detectors)
	}
}

func TestNewRequest_ExplicitEnds(t *testing.T) {
	req, err := NewRequest(RequestInput{
		TimeString:    "2010100412",
		ChannelStart:  3,
		ChannelEnd:    intPtr(9),
		DetectorStart: 1,
		DetectorEnd:   intPtr(21),
	})
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if req.Channels.String() != "3,9" {
		t.Errorf("Channels = %q, want 3,9", req.Channels.String())
	}
	if req.Detectors.String() != "1,21" {
		t.Errorf("Detectors = %q, want 1,21", req.Detectors.String())
	}
}

func TestNewRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   RequestInput
	}{
		{"short timestring", RequestInput{TimeString: "201010041", ChannelStart: 3, DetectorStart: 5}},
		{"long timestring", RequestInput{TimeString: "20101004120", ChannelStart: 3, DetectorStart: 5}},
		{"channel zero", RequestInput{TimeString: "2010100412", ChannelStart: 0, DetectorStart: 5}},
		{"channel ten", RequestInput{TimeString: "2010100412", ChannelStart: 10, DetectorStart: 5}},
		{"channel end out of range", RequestInput{TimeString: "2010100412", ChannelStart: 3, ChannelEnd: intPtr(10), DetectorStart: 5}},
		{"detector 22", RequestInput{TimeString: "2010100412", ChannelStart: 3, DetectorStart: 22}},
		{"detector end zero", RequestInput{TimeString: "2010100412", ChannelStart: 3, DetectorStart: 5, DetectorEnd: intPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(tt.in)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("NewRequest() error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		saveDir string
		want    string
	}{
		{"", "2010100412_divdata.csv"},
		{"out", filepath.Join("out", "2010100412_divdata.csv")},
		{"/data/diviner/", filepath.Join("/data/diviner", "2010100412_divdata.csv")},
	}

	for _, tt := range tests {
		req := Request{TimeString: "2010100412", SaveDir: tt.saveDir}
		if got := req.OutputPath(); got != tt.want {
			t.Errorf("OutputPath(savedir=%q) = %q, want %q", tt.saveDir, got, tt.want)
		}
	}
}
