package mcp

import "github.com/mark3labs/mcp-go/mcp"

var getProfileTool = mcp.NewTool("get_profile",
	mcp.WithDescription("Get the portfolio owner's profile: name, title, location, contact links, summary and highlights."),
)

var listProjectsTool = mcp.NewTool("list_projects",
	mcp.WithDescription("List the owner's most recently updated GitHub projects, with bundled data as fallback."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of projects to return (default all)"),
	),
	mcp.WithString("query",
		mcp.Description("Fuzzy match against project names; best matches first"),
	),
	mcp.WithString("tag",
		mcp.Description("Only return projects carrying this language or topic tag (case-insensitive)"),
	),
)

var getSkillsTool = mcp.NewTool("get_skills",
	mcp.WithDescription("Get the owner's skills grouped by category, plus spoken languages."),
)

var getEducationTool = mcp.NewTool("get_education",
	mcp.WithDescription("Get the owner's education history and certifications."),
)
