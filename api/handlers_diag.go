package api

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"lanhub/config"
	"lanhub/diag"
	"lanhub/store"
	"lanhub/utils"
)

// bandwidthSampleInterval is how long the bandwidth endpoint samples
// interface counters before responding.
const bandwidthSampleInterval = 1 * time.Second

// BandwidthHandler reports per-interface transfer counters and rates.
// @Summary      Bandwidth Usage
// @Description  Samples interface counters for one second and returns per-interface totals and transfer rates.
// @Tags         Diagnostics
// @Produce      json
// @Success      200  {object}  map[string]diag.InterfaceStats
// @Failure      500  {object}  utils.APIError "Interface counters unavailable."
// @Router       /bandwidth [get]
func BandwidthHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	usage, err := diag.SampleBandwidth(bandwidthSampleInterval)
	if err != nil {
		utils.GinInternalServerError(c, "Failed to sample bandwidth: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, usage)
}

// NetworkProcessesHandler lists processes with open network connections.
// @Summary      Network Processes
// @Description  Lists inet connections joined with the owning process name.
// @Tags         Diagnostics
// @Produce      json
// @Success      200  {array}   diag.ProcessConn
// @Failure      500  {object}  utils.APIError "Connection table unavailable."
// @Router       /network_processes [get]
func NetworkProcessesHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	procs, err := diag.NetworkProcesses()
	if err != nil {
		utils.GinInternalServerError(c, "Failed to list network processes: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, procs)
}

// PingLatencyHandler reports average ping round-trip times to a fixed set of
// well-known hosts. Per-host failures are reported inline, never as an error
// status.
// @Summary      Ping Latency
// @Description  Pings a fixed set of well-known hosts and returns the average round-trip time per host.
// @Tags         Diagnostics
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /ping_latency [get]
func PingLatencyHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	c.JSON(http.StatusOK, diag.PingLatency(c.Request.Context(), nil))
}

// ScanHandler lists LAN neighbours from the ARP cache.
// @Summary      Scan Local Network
// @Description  Returns devices known to the kernel's ARP cache: IP, MAC and interface.
// @Tags         Diagnostics
// @Produce      json
// @Success      200  {array}   diag.Device
// @Failure      500  {object}  utils.APIError "ARP cache unavailable."
// @Router       /scan [get]
func ScanHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	devices, err := diag.ScanDevices()
	if err != nil {
		utils.GinInternalServerError(c, "Failed to scan network: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, devices)
}

// LogsHandler dumps the plain-text request activity log.
// @Summary      Request Log
// @Description  Returns the append-only request activity log as plain text.
// @Tags         Diagnostics
// @Produce      plain
// @Success      200  {string}  string "Log contents."
// @Failure      404  {object}  utils.APIError "Log file does not exist yet."
// @Router       /logs [get]
func LogsHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		if os.IsNotExist(err) {
			utils.GinNotFound(c, "Log file not found.")
			return
		}
		utils.GinInternalServerError(c, "Failed to read log file: "+err.Error())
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}
