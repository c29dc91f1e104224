package mcp

import "github.com/mark3labs/mcp-go/mcp"

var commandToolDef = mcp.NewTool("divdata_command",
	mcp.WithDescription("Build the divdata | pextract | pprint shell pipeline for a Diviner retrieval without running it. Returns the command and the text file it would write."),
	mcp.WithString("time_string", mcp.Required(), mcp.Description("Date-hour stamp YYYYMMDDHH, exactly 10 characters")),
	mcp.WithNumber("channel_start", mcp.Required(), mcp.Description("First Diviner channel, 1-9")),
	mcp.WithNumber("detector_start", mcp.Required(), mcp.Description("First detector, 1-21")),
	mcp.WithNumber("channel_end", mcp.Description("Last channel, defaults to channel_start")),
	mcp.WithNumber("detector_end", mcp.Description("Last detector, defaults to detector_start")),
	mcp.WithString("save_dir", mcp.Description("Directory for the output file, default current directory")),
)

var retrieveToolDef = mcp.NewTool("divdata_retrieve",
	mcp.WithDescription("Run a Diviner retrieval. Writes {time_string}_divdata.csv and, with create_table, parses it into a time-indexed table persisted as {time_string}_divdata.h5 (handle \"df\"). found=false means the pipeline produced no file."),
	mcp.WithString("time_string", mcp.Required(), mcp.Description("Date-hour stamp YYYYMMDDHH, exactly 10 characters")),
	mcp.WithNumber("channel_start", mcp.Required(), mcp.Description("First Diviner channel, 1-9")),
	mcp.WithNumber("detector_start", mcp.Required(), mcp.Description("First detector, 1-21")),
	mcp.WithNumber("channel_end", mcp.Description("Last channel, defaults to channel_start")),
	mcp.WithNumber("detector_end", mcp.Description("Last detector, defaults to detector_start")),
	mcp.WithString("save_dir", mcp.Description("Directory for output files, default current directory")),
	mcp.WithBoolean("create_table", mcp.Description("Parse the text file and write the HDF5 table")),
	mcp.WithBoolean("keep_text", mcp.Description("Keep the text file after parsing")),
	mcp.WithBoolean("keep_dates", mcp.Description("Keep the year..second columns next to the time index")),
)

var historyToolDef = mcp.NewTool("divdata_history",
	mcp.WithDescription("List recorded retrievals, newest first, or fetch one by id. Requires history to be enabled in config."),
	mcp.WithString("id", mcp.Description("Return only the retrieval with this id; other arguments are ignored")),
	mcp.WithString("time_string", mcp.Description("Only retrievals for this time string")),
	mcp.WithNumber("limit", mcp.Description("Maximum items to return (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
)
