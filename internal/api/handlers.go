package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/hirecast/core"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
	"github.com/rs/zerolog/log"
)

// Resource names used in error payloads.
const (
	skillGapName    = "skill gap trends"
	qualityName     = "quality distribution"
	volumeName      = "application forecast"
	skillDemandName = "skill demand"
)

type handler struct {
	baseCfg *contract.Config
	src     contract.RecordSource
	mgr     contract.CacheManager
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// queryInt reads a non-negative integer query parameter; absent means zero.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return v, nil
}

func (h *handler) requestConfig(c *gin.Context, pipeline schema.Pipeline) (*contract.Config, error) {
	top, err := queryInt(c, "top")
	if err != nil {
		return nil, err
	}
	horizon, err := queryInt(c, "horizon")
	if err != nil {
		return nil, err
	}
	return h.baseCfg.ForRequest(pipeline, contract.RequestOverrides{
		Now:     c.Query("now"),
		Top:     top,
		Horizon: horizon,
	})
}

// serve runs one pipeline for the request and writes the result or an error payload.
func serve[R any](
	c *gin.Context,
	h *handler,
	pipeline schema.Pipeline,
	name string,
	get func(context.Context, *contract.Config, contract.RecordSource, contract.CacheManager) (R, time.Duration, error),
) {
	cfg, err := h.requestConfig(c, pipeline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, _, err := get(c.Request.Context(), cfg, h.src, h.mgr)
	if err != nil {
		log.Error().Err(err).Str("pipeline", string(pipeline)).Msg("Request failed")
		if errors.Is(err, schema.ErrFetch) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + name})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process " + name})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) handleSkillGap(c *gin.Context) {
	serve(c, h, schema.SkillGapPipeline, skillGapName, core.GetSkillGapResults)
}

func (h *handler) handleQuality(c *gin.Context) {
	serve(c, h, schema.QualityPipeline, qualityName, core.GetQualityResults)
}

func (h *handler) handleVolume(c *gin.Context) {
	serve(c, h, schema.VolumePipeline, volumeName, core.GetVolumeResults)
}

func (h *handler) handleSkillDemand(c *gin.Context) {
	serve(c, h, schema.SkillDemandPipeline, skillDemandName, core.GetSkillDemandResults)
}
