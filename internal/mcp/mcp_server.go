// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/hirecast/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names exposed by the server.
const (
	SkillGapTool    = "get_skill_gap_trends"
	QualityTool     = "get_quality_distribution"
	VolumeTool      = "get_application_forecast"
	SkillDemandTool = "get_skill_demand"
)

const nowDescription = "Reference time as RFC3339 or 'N units ago' (defaults to the current time)."

// NewMCPServer initializes and configures the Hirecast MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Hirecast Recruiting Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		src:     src,
		mgr:     mgr,
	}

	// --- 1. Tool: get_skill_gap_trends ---
	s.AddTool(mcp.NewTool(SkillGapTool,
		mcp.WithDescription("Monthly demand/supply gap ratios of the most short-supplied skills, with a forecast."),
		mcp.WithString("now", mcp.Description(nowDescription)),
		mcp.WithNumber("top", mcp.Description("Number of skills to rank.")),
		mcp.WithNumber("horizon", mcp.Description("Months to forecast.")),
	), h.handleSkillGap)

	// --- 2. Tool: get_quality_distribution ---
	s.AddTool(mcp.NewTool(QualityTool,
		mcp.WithDescription("Monthly counts of excellent, good and poor candidates, with a forecast of the next months."),
		mcp.WithString("now", mcp.Description(nowDescription)),
		mcp.WithNumber("horizon", mcp.Description("Months to forecast.")),
	), h.handleQuality)

	// --- 3. Tool: get_application_forecast ---
	s.AddTool(mcp.NewTool(VolumeTool,
		mcp.WithDescription("Daily application counts with a linear forecast of the coming days."),
		mcp.WithString("now", mcp.Description(nowDescription)),
		mcp.WithNumber("horizon", mcp.Description("Days to forecast.")),
	), h.handleVolume)

	// --- 4. Tool: get_skill_demand ---
	s.AddTool(mcp.NewTool(SkillDemandTool,
		mcp.WithDescription("Skills whose demand among applicants grew or shrank between the two halves of the window."),
		mcp.WithString("now", mcp.Description(nowDescription)),
		mcp.WithNumber("top", mcp.Description("Number of skills to return.")),
	), h.handleSkillDemand)

	return s
}

// StartMCPServer starts the Hirecast MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, src, mgr)
	return server.ServeStdio(s)
}
