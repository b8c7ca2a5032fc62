package server

import (
	"net/http"
	"time"

	"github.com/aristath/readiness/internal/clientdata"
	"github.com/aristath/readiness/internal/database"
	"github.com/aristath/readiness/internal/modules/metrics"
	"github.com/aristath/readiness/internal/utils"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// CacheStatter reports the in-memory metrics cache coverage.
type CacheStatter interface {
	Stats() metrics.CacheStats
}

// DBStatter reports on-disk database statistics.
type DBStatter interface {
	GetStats() (*database.Stats, error)
}

// EntryCounter counts cached client data rows.
type EntryCounter interface {
	Count(table string) (int64, error)
}

// SystemHandlers serves operational status endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	cache       CacheStatter
	cacheDB     DBStatter
	clientData  EntryCounter
	missing     []string
	systemStats func() (float64, float64)
}

// NewSystemHandlers creates system handlers. cacheDB and clientData may be nil.
func NewSystemHandlers(cache CacheStatter, cacheDB DBStatter, clientData EntryCounter, missing []string, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		startupTime: time.Now(),
		cache:       cache,
		cacheDB:     cacheDB,
		clientData:  clientData,
		missing:     missing,
		systemStats: getSystemStats,
	}
}

// SystemStatusResponse is the payload of GET /api/system/status
type SystemStatusResponse struct {
	Status               string             `json:"status"`
	Uptime               string             `json:"uptime"`
	Configured           bool               `json:"configured"`
	MissingConfiguration []string           `json:"missingConfiguration"`
	MetricsCache         metrics.CacheStats `json:"metricsCache"`
	CachedExplanations   int64              `json:"cachedExplanations"`
	CacheDB              *database.Stats    `json:"cacheDb,omitempty"`
	CPUPercent           float64            `json:"cpuPercent"`
	MemoryPercent        float64            `json:"memoryPercent"`
}

// HandleSystemStatus reports cache coverage, configuration gaps and host load
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	missing := h.missing
	if missing == nil {
		missing = []string{}
	}

	resp := SystemStatusResponse{
		Status:               "healthy",
		Uptime:               time.Since(h.startupTime).Round(time.Second).String(),
		Configured:           len(missing) == 0,
		MissingConfiguration: missing,
		MetricsCache:         h.cache.Stats(),
	}
	if !resp.Configured {
		resp.Status = "degraded"
	}

	if h.clientData != nil {
		n, err := h.clientData.Count(clientdata.TableExplanations)
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to count cached explanations")
		}
		resp.CachedExplanations = n
	}

	if h.cacheDB != nil {
		stats, err := h.cacheDB.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to read cache database stats")
		}
		resp.CacheDB = stats
	}

	resp.CPUPercent, resp.MemoryPercent = h.systemStats()

	utils.WriteJSON(w, http.StatusOK, resp, h.log)
}

// getSystemStats samples CPU and memory usage. Failures read as zero.
func getSystemStats() (float64, float64) {
	var cpuPercent, memPercent float64

	if percents, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		memPercent = vm.UsedPercent
	}

	return cpuPercent, memPercent
}
