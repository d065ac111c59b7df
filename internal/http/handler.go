package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/contract-analytics/internal/dataset"
	"github.com/nurpe/contract-analytics/internal/http/middleware"
	"github.com/nurpe/contract-analytics/internal/model"
	"github.com/nurpe/contract-analytics/internal/service"
)

type Handler struct {
	analytics *service.AnalyticsService
	log       zerolog.Logger
}

func NewHandler(analytics *service.AnalyticsService, log zerolog.Logger) *Handler {
	return &Handler{analytics: analytics, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/dataset/summary", h.datasetSummary)
	protected.GET("/filters/options", h.filterOptions)
	protected.POST("/records/filter", h.filterRecords)
	protected.POST("/records/aggregate", h.aggregateRecords)
	protected.POST("/projects/ongoing", h.ongoingProjects)
	protected.POST("/export/csv", h.exportCSV)
	protected.POST("/export/xlsx", h.exportXLSX)
	protected.POST("/export/pdf", h.exportPDF)
}

type criteriaRequest struct {
	SigningFrom string   `json:"signing_from"`
	SigningTo   string   `json:"signing_to"`
	AmountMin   *float64 `json:"amount_min"`
	AmountMax   *float64 `json:"amount_max"`
	Departments []string `json:"departments"`
	Methods     []string `json:"methods"`
}

func (r criteriaRequest) toCriteria() (model.FilterCriteria, error) {
	criteria := model.FilterCriteria{
		AmountMin:   r.AmountMin,
		AmountMax:   r.AmountMax,
		Departments: r.Departments,
		Methods:     r.Methods,
	}
	if strings.TrimSpace(r.SigningFrom) != "" {
		from, err := parseDate(r.SigningFrom)
		if err != nil {
			return criteria, err
		}
		criteria.SigningFrom = &from
	}
	if strings.TrimSpace(r.SigningTo) != "" {
		to, err := parseDate(r.SigningTo)
		if err != nil {
			return criteria, err
		}
		criteria.SigningTo = &to
	}
	return criteria, nil
}

func (h *Handler) datasetSummary(c *gin.Context) {
	overview, err := h.analytics.Overview()
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) filterOptions(c *gin.Context) {
	var departments []string
	if raw := strings.TrimSpace(c.Query("departments")); raw != "" {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				departments = append(departments, item)
			}
		}
	}

	options, err := h.analytics.Options(departments)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *Handler) filterRecords(c *gin.Context) {
	var req criteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	criteria, err := req.toCriteria()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analytics.Filter(service.FilterInput{Criteria: criteria})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   result.Summary.Count,
		"summary": result.Summary,
		"records": result.Records,
	})
}

type aggregateRequest struct {
	criteriaRequest
	GroupBy string `json:"group_by" binding:"required"`
}

func (h *Handler) aggregateRecords(c *gin.Context) {
	var req aggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	criteria, err := req.toCriteria()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.analytics.Aggregate(service.AggregateInput{
		Criteria: criteria,
		GroupBy:  service.GroupBy(strings.ToLower(strings.TrimSpace(req.GroupBy))),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"group_by": req.GroupBy,
		"items":    stats,
	})
}

type ongoingRequest struct {
	Departments []string `json:"departments"`
	Methods     []string `json:"methods"`
}

func (h *Handler) ongoingProjects(c *gin.Context) {
	var req ongoingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analytics.Ongoing(service.OngoingInput{
		Departments: req.Departments,
		Methods:     req.Methods,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   result.Summary.Count,
		"summary": result.Summary,
		"yearly":  result.Yearly,
		"records": result.Records,
	})
}

func (h *Handler) exportCSV(c *gin.Context) {
	h.export(c, h.analytics.ExportCSV)
}

func (h *Handler) exportXLSX(c *gin.Context) {
	h.export(c, h.analytics.ExportXLSX)
}

func (h *Handler) exportPDF(c *gin.Context) {
	h.export(c, h.analytics.ExportPDF)
}

func (h *Handler) export(c *gin.Context, generate func(service.ExportInput) (*service.ExportResult, error)) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req criteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	criteria, err := req.toCriteria()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := generate(service.ExportInput{
		Criteria:  criteria,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Type", result.ContentType)
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dataset.ErrSourceMissing):
		h.log.Error().Err(err).Msg("dataset unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset unavailable"})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("invalid date: " + raw)
}
