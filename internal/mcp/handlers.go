package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/divdata/internal/divdata"
	"github.com/hpungsan/divdata/internal/errors"
	"github.com/hpungsan/divdata/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env ops.Env) *Handlers {
	return &Handlers{env: env}
}

// RequestArgs are the request fields shared by command and retrieve.
type RequestArgs struct {
	TimeString    string `json:"time_string"`
	ChannelStart  int    `json:"channel_start"`
	DetectorStart int    `json:"detector_start"`
	ChannelEnd    *int   `json:"channel_end,omitempty"`
	DetectorEnd   *int   `json:"detector_end,omitempty"`
	SaveDir       string `json:"save_dir,omitempty"`
}

func (a RequestArgs) input() divdata.RequestInput {
	return divdata.RequestInput{
		TimeString:    a.TimeString,
		ChannelStart:  a.ChannelStart,
		ChannelEnd:    a.ChannelEnd,
		DetectorStart: a.DetectorStart,
		DetectorEnd:   a.DetectorEnd,
		SaveDir:       a.SaveDir,
	}
}

// RetrieveRequest represents the arguments for retrieve.
type RetrieveRequest struct {
	RequestArgs
	CreateTable bool `json:"create_table,omitempty"`
	KeepText    bool `json:"keep_text,omitempty"`
	KeepDates   bool `json:"keep_dates,omitempty"`
}

// HistoryRequest represents the arguments for history.
type HistoryRequest struct {
	ID         string `json:"id,omitempty"`
	TimeString string `json:"time_string,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// HandleCommand handles the command tool call.
func (h *Handlers) HandleCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RequestArgs](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Command(h.env.Config, input.input())
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRetrieve handles the retrieve tool call. The table itself is not
// returned, only its shape and location.
func (h *Handlers) HandleRetrieve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RetrieveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	env := h.env
	env.Out = nil
	result, err := ops.Retrieve(ctx, env, ops.RetrieveInput{
		Request:      input.input(),
		CreateTable:  input.CreateTable,
		DropDates:    !input.KeepDates,
		KeepText:     input.KeepText,
		PersistTable: input.CreateTable,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistory handles the history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.ID != "" {
		record, err := ops.GetRetrieval(h.env.DB, input.ID)
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(record)
	}

	result, err := ops.History(h.env.DB, ops.HistoryInput{
		TimeString: input.TimeString,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if dErr, ok := err.(*errors.DivError); ok {
		errorObj := map[string]any{
			"code":    dErr.Code,
			"message": dErr.Message,
			"status":  dErr.Status,
		}
		if dErr.Code != errors.ErrInternal && dErr.Details != nil {
			errorObj["details"] = dErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
