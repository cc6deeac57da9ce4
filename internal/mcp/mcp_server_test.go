package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/huangsam/hirecast/internal/contract"
	hcmcp "github.com/huangsam/hirecast/internal/mcp"
	"github.com/huangsam/hirecast/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func baseConfig() *contract.Config {
	return &contract.Config{
		ReferenceTime:  refNow,
		PinnedTime:     true,
		Pipelines:      contract.DefaultPipelineSettings(),
		Precision:      1,
		RecordsBackend: schema.SQLiteBackend,
		CacheBackend:   schema.NoneBackend,
		HistoryBackend: schema.NoneBackend,
	}
}

func application(id, appliedAt, skills string, ai float64) schema.ApplicationRecord {
	return schema.ApplicationRecord{
		ApplicationID: id,
		RoleID:        "role-1",
		AppliedAt:     appliedAt,
		MatchedSkills: null.StringFrom(skills),
		AIScore:       null.FloatFrom(ai),
	}
}

func sampleApps() []schema.ApplicationRecord {
	return []schema.ApplicationRecord{
		application("a1", "2024-02-10T10:00:00Z", "Go", 90),
		application("a2", "2024-05-03T10:00:00Z", "Go, Rust", 70),
		application("a3", "2024-06-01T09:00:00Z", "Rust", 40),
		application("a4", "2024-06-02T09:00:00Z", "Rust", 85),
	}
}

func callTool(t *testing.T, cfg *contract.Config, src contract.RecordSource, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := hcmcp.NewMCPServer(cfg, src, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "tool %s is not registered", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestNewMCPServerRegistersTools(t *testing.T) {
	s := hcmcp.NewMCPServer(baseConfig(), &contract.MockRecordSource{}, nil)
	for _, name := range []string{hcmcp.SkillGapTool, hcmcp.QualityTool, hcmcp.VolumeTool, hcmcp.SkillDemandTool} {
		assert.NotNil(t, s.GetTool(name), name)
	}
}

func TestSkillGapTool(t *testing.T) {
	src := &contract.MockRecordSource{}
	src.On("ListApplications", mock.Anything, mock.Anything).Return(sampleApps(), nil)
	src.On("ListRoles", mock.Anything).Return([]schema.RoleRecord{
		{ID: "role-1", Name: "Backend Engineer", Skills: []string{"Go", "Kubernetes"}},
	}, nil)

	res := callTool(t, baseConfig(), src, hcmcp.SkillGapTool, map[string]any{"top": 1, "horizon": 2})
	require.False(t, res.IsError, resultText(t, res))

	var result schema.SkillGapResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
	assert.LessOrEqual(t, len(result.Rankings), 1)
	assert.Equal(t, "2 months", result.Metadata.ForecastPeriod)
	src.AssertExpectations(t)
}

func TestVolumeTool(t *testing.T) {
	src := &contract.MockRecordSource{}
	src.On("ListApplications", mock.Anything, mock.Anything).Return(sampleApps(), nil)

	res := callTool(t, baseConfig(), src, hcmcp.VolumeTool, map[string]any{"horizon": 3})
	require.False(t, res.IsError, resultText(t, res))

	var result schema.ApplicationForecastResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
	assert.Equal(t, 3, result.Metadata.ForecastDays)

	forecasts := 0
	for _, p := range result.Data {
		if p.IsForecast {
			forecasts++
		}
	}
	assert.Equal(t, 3, forecasts)
}

func TestQualityToolNowArgument(t *testing.T) {
	src := &contract.MockRecordSource{}
	src.On("ListApplications", mock.Anything, time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC)).
		Return([]schema.ApplicationRecord{}, nil)

	res := callTool(t, baseConfig(), src, hcmcp.QualityTool, map[string]any{"now": "2024-03-01T00:00:00Z"})
	require.False(t, res.IsError, resultText(t, res))
	src.AssertExpectations(t)
}

func TestSkillDemandTool(t *testing.T) {
	src := &contract.MockRecordSource{}
	src.On("ListApplications", mock.Anything, mock.Anything).Return(sampleApps(), nil)

	res := callTool(t, baseConfig(), src, hcmcp.SkillDemandTool, map[string]any{"top": 5})
	require.False(t, res.IsError, resultText(t, res))

	var result schema.SkillDemandResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
	assert.NotEmpty(t, result.Skills)
}

func TestToolErrors(t *testing.T) {
	t.Run("invalid now", func(t *testing.T) {
		src := &contract.MockRecordSource{}
		res := callTool(t, baseConfig(), src, hcmcp.VolumeTool, map[string]any{"now": "next tuesday"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid volume parameters")
		src.AssertNotCalled(t, "ListApplications", mock.Anything, mock.Anything)
	})

	t.Run("negative top", func(t *testing.T) {
		res := callTool(t, baseConfig(), &contract.MockRecordSource{}, hcmcp.SkillDemandTool, map[string]any{"top": -1})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "must not be negative")
	})

	t.Run("fetch failure", func(t *testing.T) {
		src := &contract.MockRecordSource{}
		src.On("ListApplications", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		res := callTool(t, baseConfig(), src, hcmcp.QualityTool, nil)
		assert.True(t, res.IsError)
		text := resultText(t, res)
		assert.Contains(t, text, "quality fetch failure")
		assert.Contains(t, text, "connection refused")
	})

	t.Run("processing failure", func(t *testing.T) {
		src := &contract.MockRecordSource{}
		src.On("ListApplications", mock.Anything, mock.Anything).
			Return([]schema.ApplicationRecord{application("bad", "yesterday", "Go", 50)}, nil)

		res := callTool(t, baseConfig(), src, hcmcp.SkillDemandTool, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "skill-demand processing failure")
	})
}
