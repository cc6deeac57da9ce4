package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/hirecast/core"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	src     contract.RecordSource
	mgr     contract.CacheManager
}

// requestConfig derives the pipeline config from the tool arguments.
func (h *toolHandler) requestConfig(pipeline schema.Pipeline, request mcp.CallToolRequest) (*contract.Config, error) {
	return h.baseCfg.ForRequest(pipeline, contract.RequestOverrides{
		Now:     request.GetString("now", ""),
		Top:     request.GetInt("top", 0),
		Horizon: request.GetInt("horizon", 0),
	})
}

// runTool wraps one pipeline call with argument handling and JSON encoding.
func runTool[R any](
	ctx context.Context,
	h *toolHandler,
	pipeline schema.Pipeline,
	request mcp.CallToolRequest,
	get func(context.Context, *contract.Config, contract.RecordSource, contract.CacheManager) (R, time.Duration, error),
) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(pipeline, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid %s parameters: %v", pipeline, err)), nil
	}

	result, _, err := get(ctx, cfg, h.src, h.mgr)
	if err != nil {
		kind := schema.ErrorKind(err)
		if kind == "" {
			kind = "failure"
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s %s: %v", pipeline, kind, err)), nil
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode %s result: %v", pipeline, err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSkillGap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return runTool(ctx, h, schema.SkillGapPipeline, request, core.GetSkillGapResults)
}

func (h *toolHandler) handleQuality(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return runTool(ctx, h, schema.QualityPipeline, request, core.GetQualityResults)
}

func (h *toolHandler) handleVolume(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return runTool(ctx, h, schema.VolumePipeline, request, core.GetVolumeResults)
}

func (h *toolHandler) handleSkillDemand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return runTool(ctx, h, schema.SkillDemandPipeline, request, core.GetSkillDemandResults)
}
