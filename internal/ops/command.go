package ops

import (
	"github.com/hpungsan/divdata/internal/config"
	"github.com/hpungsan/divdata/internal/divdata"
)

// CommandOutput contains the result of the Command operation.
type CommandOutput struct {
	Request    divdata.Request `json:"request"`
	Command    string          `json:"command"`
	Argv       []string        `json:"argv"`
	OutputPath string          `json:"output_path"`
}

// Command validates the request and builds the pipeline without running it.
func Command(cfg *config.Config, input divdata.RequestInput) (*CommandOutput, error) {
	req, err := divdata.NewRequest(input)
	if err != nil {
		return nil, err
	}

	cmd := divdata.BuildCommand(tools(cfg), req)
	return &CommandOutput{
		Request:    req,
		Command:    cmd.String(),
		Argv:       cmd.Argv(),
		OutputPath: cmd.OutputPath,
	}, nil
}
