package handler

import (
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ride-stats/internal/config"
	"github.com/jengzang/ride-stats/internal/models"
	"github.com/jengzang/ride-stats/internal/render"
	"github.com/jengzang/ride-stats/internal/stats"
	"github.com/jengzang/ride-stats/pkg/response"
)

const (
	defaultPageSize = 500
	maxPageSize     = 5000
)

// lazily rendered page, built on first request
type page struct {
	once sync.Once
	data []byte
	err  error
}

func (p *page) get(build func() ([]byte, error)) ([]byte, error) {
	p.once.Do(func() { p.data, p.err = build() })
	return p.data, p.err
}

// RideHandler serves one analysed ride
type RideHandler struct {
	report *models.RideReport
	cfg    config.Config

	mapPage     page
	profilePage page
	scatter     page
}

// NewRideHandler creates a new ride handler
func NewRideHandler(report *models.RideReport, cfg config.Config) *RideHandler {
	return &RideHandler{report: report, cfg: cfg}
}

// GetMap handles GET /
func (h *RideHandler) GetMap(c *gin.Context) {
	body, err := h.mapPage.get(func() ([]byte, error) {
		return render.RenderMap(h.report, h.cfg.Map)
	})
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.HTML(c, body)
}

// GetProfile handles GET /profile
func (h *RideHandler) GetProfile(c *gin.Context) {
	body, err := h.profilePage.get(func() ([]byte, error) {
		return render.RenderProfile(h.report)
	})
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.HTML(c, body)
}

// GetScatter handles GET /route.png
func (h *RideHandler) GetScatter(c *gin.Context) {
	body, err := h.scatter.get(func() ([]byte, error) {
		return render.RenderScatter(filepath.Base(h.cfg.BaseName), h.report.Points)
	})
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.PNG(c, body)
}

// GetStats handles GET /api/v1/ride/stats
func (h *RideHandler) GetStats(c *gin.Context) {
	response.Success(c, gin.H{
		"track":   h.report.Track,
		"lapMode": h.report.LapMode,
		"entries": stats.Entries(h.report.Stats),
	})
}

// GetPoints handles GET /api/v1/ride/points?offset=&limit=
func (h *RideHandler) GetPoints(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		response.BadRequest(c, "Invalid offset parameter")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	points := h.report.Points
	total := len(points)
	start := min(offset, total)
	end := min(start+limit, total)

	response.Paged(c, points[start:end], total, offset, limit)
}

// GetLaps handles GET /api/v1/ride/laps
func (h *RideHandler) GetLaps(c *gin.Context) {
	if !h.report.Aggregated() {
		response.NotFound(c, "Ride was not aggregated into laps")
		return
	}
	response.Success(c, h.report.Laps)
}

// GetRestStops handles GET /api/v1/ride/rests
func (h *RideHandler) GetRestStops(c *gin.Context) {
	if !h.cfg.ShowRest {
		response.NotFound(c, "Rest stops were not requested")
		return
	}
	response.Success(c, h.report.RestStops)
}
