package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"market-reporter/src/analysis"
	datasource "market-reporter/src/data_source"
	"market-reporter/src/helpers"
	"market-reporter/src/interfaces"
	"market-reporter/src/logger"
	"market-reporter/src/models"
	"market-reporter/src/pbit"
	"market-reporter/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// ReportServer
// -----------------------------------------------------------------------------

type ReportServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine

	DB        interfaces.IDatabase
	Sources   *datasource.SourceManager
	Cache     *utils.BarCache
	Builder   *analysis.ReportBuilder
	Assembler *pbit.Assembler
	Scheduler *utils.MarketScheduler
	errs      *helpers.ErrorHandler

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MLatestReport // Strongly typed and Buffered Queue
	register   chan *Client
	unregister chan *Client

	// Local cache of the most recent run
	latestState *models.MLatestReport
	stateMutex  sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewReportServer(cfg *models.MConfig, log *logger.Logger, db interfaces.IDatabase,
	sources *datasource.SourceManager, cache *utils.BarCache,
	builder *analysis.ReportBuilder, assembler *pbit.Assembler,
	scheduler *utils.MarketScheduler) *ReportServer {

	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &ReportServer{
		Config:    cfg,
		Logger:    log,
		engine:    gin.Default(),
		DB:        db,
		Sources:   sources,
		Cache:     cache,
		Builder:   builder,
		Assembler: assembler,
		Scheduler: scheduler,
		errs:      helpers.NewErrorHandler(),
		clients:   make(map[*Client]struct{}),
		// Buffered channel so a slow dashboard never stalls generation
		broadcast:  make(chan *models.MLatestReport, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		latestState: &models.MLatestReport{
			Type:      "INITIAL",
			Timestamp: 0,
		},
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *ReportServer) setupRoutes() {
	// Generator front end
	s.engine.GET("/", s.getHome)

	// REST API endpoints
	s.engine.POST("/api/generate", s.generateReport)
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/reports", s.getReports)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *ReportServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *ReportServer) Stop() error {
	close(s.broadcast)
	close(s.register)
	close(s.unregister)
	return nil
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *ReportServer) getHome(c *gin.Context) {
	c.Data(200, "text/html; charset=utf-8", []byte(homePage))
}

// -----------------------------------------------------------------------------

func (s *ReportServer) generateReport(c *gin.Context) {
	var req models.MGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		req.Query = "Tesla last 30 days"
	}

	days := req.Days
	if days <= 0 {
		days = s.Config.Report.DefaultDays
	}
	if days > utils.MaxHistoryDays {
		days = utils.MaxHistoryDays
	}

	ticker := ResolveTicker(req.Query)
	run := models.MReportRun{
		ID:        uuid.NewString(),
		Ticker:    ticker,
		Query:     req.Query,
		Status:    "running",
		CreatedAt: time.Now().UTC(),
	}
	s.Broadcast(run)

	// Weekends and holidays thin a calendar range down to ~2/3 trading bars,
	// so the freshness check cannot demand one bar per requested day.
	minBars := (days * 2) / 3
	if minBars < 2 {
		minBars = 2
	}
	bars, hit := s.Cache.GetFresh(ticker, minBars)
	if hit {
		s.Logger.Debug("Cache hit for %s (%d bars)", ticker, len(bars))
	} else {
		fetched, err := s.Sources.FetchDailyHistory(c.Request.Context(), ticker, days)
		if err != nil {
			s.failRun(c, run, 400, "No data found: "+err.Error())
			return
		}
		bars = fetched
		s.Cache.Put(ticker, bars)
		if err := s.DB.SaveDailyBars(bars); err != nil {
			s.errs.Handle(err, "save daily bars")
		}
	}

	// The cache may hold a wider span than requested
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}

	if days > analysis.ResampleThresholdDays {
		bars = analysis.ResampleWeekly(bars)
	}

	rows, summary, err := s.Builder.BuildRows(ticker, bars)
	if err != nil {
		s.failRun(c, run, 400, err.Error())
		return
	}

	meta := models.MReportMeta{
		Title:     fmt.Sprintf("%s Report", ticker),
		Narrative: summary.Narrative,
		Charts:    pbit.DefaultCharts(),
	}

	payload, err := s.Assembler.Build(rows, meta)
	if err != nil {
		status := 500
		if errors.Is(err, pbit.ErrInputEmpty) {
			status = 400
		}
		s.failRun(c, run, status, err.Error())
		return
	}

	run.Rows = summary.Rows
	run.Anomalies = summary.Anomalies
	run.Narrative = summary.Narrative
	run.ArchiveSize = len(payload)
	run.Status = "success"

	if err := s.DB.SaveReportRun(run); err != nil {
		s.errs.Handle(err, "save report run")
	}
	s.Broadcast(run)

	c.JSON(200, models.MGenerateResponse{
		Status:     "success",
		Ticker:     ticker,
		Narrative:  summary.Narrative,
		Filename:   archiveFilename(req.Query),
		PbitBase64: base64.StdEncoding.EncodeToString(payload),
	})
}

// -----------------------------------------------------------------------------

// failRun records a failed run, notifies dashboards and answers the caller.
func (s *ReportServer) failRun(c *gin.Context, run models.MReportRun, status int, msg string) {
	s.Logger.Error("Report run %s failed: %s", run.ID, msg)

	run.Status = "error"
	run.Error = msg
	if err := s.DB.SaveReportRun(run); err != nil {
		s.errs.Handle(err, "save report run")
	}
	s.Broadcast(run)

	c.JSON(status, gin.H{"status": "error", "error": msg})
}

// -----------------------------------------------------------------------------

func (s *ReportServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := len(s.clients)
	timestamp := s.latestState.Timestamp
	s.stateMutex.RUnlock()

	c.JSON(200, gin.H{
		"status":        "ok",
		"connections":   connections,
		"latest_update": timestamp,
		"market_open":   s.Scheduler.AnyMarketOpen(),
	})
}

// -----------------------------------------------------------------------------

func (s *ReportServer) getReports(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.DB.ListReportRuns(limit)
	if err != nil {
		s.Logger.Error("Failed to list report runs: %v", err)
		c.JSON(500, gin.H{"status": "error", "error": "storage unavailable"})
		return
	}
	if runs == nil {
		runs = []models.MReportRun{}
	}
	c.JSON(200, gin.H{"reports": runs})
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

var filenameSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// archiveFilename derives a download name from the query text.
func archiveFilename(query string) string {
	base := filenameSanitizer.ReplaceAllString(strings.ToLower(query), "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "report"
	}
	return base + "_dashboard.pbit"
}
