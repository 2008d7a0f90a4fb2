package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware

	"lanhub/api"
	"lanhub/config"
	_ "lanhub/docs" // Import for side effect: registers swagger spec via init()
	"lanhub/store"
	"lanhub/utils"
)

// @title           LanHub API
// @version         1.0

// @description     Local-network file sharing, shopping list, calendar and diagnostics server.
// @description
// @description     LanHub serves static files from a configured web root, accepts multipart
// @description     file uploads with filename sanitization and type validation, and keeps two
// @description     shared household collections (a shopping list and a calendar) in flat JSON
// @description     files guarded against concurrent corruption. A handful of diagnostics
// @description     endpoints expose bandwidth, ping latency, network processes and the ARP
// @description     cache of the host.

// @host      localhost:8080
// @BasePath  /
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL: Failed to load configuration: %v", err)
	}

	// --- Activity Log ---
	// Request activity is appended to a plain-text log file and mirrored to
	// stdout; the /logs endpoint serves this file back.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to open log file '%s': %v", cfg.LogFile, err)
	}
	defer logFile.Close()
	logWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(logWriter)

	// --- Store ---
	st, err := store.New(cfg.ShoppingListFile, cfg.CalendarFile, cfg.UploadsDir)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize store: %v", err)
	}

	// --- Gin Router Setup ---
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logWriter))
	// A panic in any handler becomes a 500 with a description; the serving
	// loop itself must never die because one request failed.
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		utils.GinInternalServerError(c, fmt.Sprintf("Internal error: %v", recovered))
	}))

	// Shopping list
	router.GET("/shopping_list", func(c *gin.Context) {
		api.GetShoppingListHandler(c, st, cfg)
	})
	router.POST("/add_item", func(c *gin.Context) {
		api.AddItemHandler(c, st, cfg)
	})
	router.DELETE("/remove_item/:name", func(c *gin.Context) {
		api.RemoveItemHandler(c, st, cfg)
	})

	// Calendar
	router.GET("/calendar", func(c *gin.Context) {
		api.GetCalendarHandler(c, st, cfg)
	})
	router.POST("/add_event", func(c *gin.Context) {
		api.AddEventHandler(c, st, cfg)
	})
	router.DELETE("/delete_event", func(c *gin.Context) {
		api.DeleteEventHandler(c, st, cfg)
	})

	// Uploaded files
	router.GET("/files", func(c *gin.Context) {
		api.ListFilesHandler(c, st, cfg)
	})
	router.DELETE("/delete_file/:name", func(c *gin.Context) {
		api.DeleteFileHandler(c, st, cfg)
	})

	// Diagnostics
	router.GET("/bandwidth", func(c *gin.Context) {
		api.BandwidthHandler(c, st, cfg)
	})
	router.GET("/ping_latency", func(c *gin.Context) {
		api.PingLatencyHandler(c, st, cfg)
	})
	router.GET("/network_processes", func(c *gin.Context) {
		api.NetworkProcessesHandler(c, st, cfg)
	})
	router.GET("/scan", func(c *gin.Context) {
		api.ScanHandler(c, st, cfg)
	})
	router.GET("/logs", func(c *gin.Context) {
		api.LogsHandler(c, st, cfg)
	})

	// --- Swagger Route ---
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Everything else: GET falls back to static serving of the web root,
	// POST runs the multipart upload pipeline.
	router.NoRoute(api.NewFallbackHandler(st, cfg))

	// --- Start Server ---
	listenAddr := fmt.Sprintf("%s:%s", cfg.ListenAddress, cfg.ListenPort)
	log.Printf("INFO: Starting server on %s", listenAddr)

	server := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("CRITICAL: Server failed to start: %v", err)
	}
}
