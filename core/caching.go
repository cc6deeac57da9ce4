package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheTTL bounds how long a cached result may be served.
const cacheTTL = 24 * time.Hour

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit[R any](store contract.CacheStore, key string) (R, bool) {
	var result R
	data, version, ts, err := store.Get(key)
	if err != nil {
		return result, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

// storeResult writes a computed result to the cache. Failures only cost a recomputation.
func storeResult[R any](store contract.CacheStore, key string, result R) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to write cache entry", err)
	}
}

// generateCacheKey creates a unique key from the pipeline, its settings, the
// exact reference time and the record source fingerprint.
func generateCacheKey(pipeline schema.Pipeline, cfg *contract.Config, fingerprint string) string {
	settings, _ := json.Marshal(cfg.Pipelines)
	key := fmt.Sprintf("%s:%s:%d:%s",
		pipeline,
		settings,
		cfg.GetCacheReferenceTime().UnixNano(),
		fingerprint,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
