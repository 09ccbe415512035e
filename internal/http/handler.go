package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rudybnb/payroll-service/internal/http/middleware"
	"github.com/rudybnb/payroll-service/internal/model"
	"github.com/rudybnb/payroll-service/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	earnings *service.EarningsService
	sessions *service.SessionService
	log      zerolog.Logger
}

func NewHandler(earnings *service.EarningsService, sessions *service.SessionService, log zerolog.Logger) *Handler {
	return &Handler{earnings: earnings, sessions: sessions, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/earnings/weekly", h.weeklyEarnings)
	protected.GET("/earnings/summary", h.weeklySummary)
	protected.POST("/earnings/weekly/export", h.exportWeekly)
	protected.POST("/earnings/weekly/export/pdf", h.exportPayslips)
	protected.POST("/sessions/clock-in", h.clockIn)
	protected.POST("/sessions/clock-out", h.clockOut)
	protected.GET("/sessions/active", h.activeSessions)
}

func (h *Handler) weeklyEarnings(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	weekEnding, err := parseDate(c.Query("week_ending"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_ending"})
		return
	}

	result, err := h.earnings.ComputeWeeklyEarnings(c.Request.Context(), service.ComputeInput{
		WeekEnding: weekEnding,
		Contractor: c.Query("contractor"),
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	diags := result.Diagnostics
	if diags == nil {
		diags = []model.Diagnostic{}
	}
	c.JSON(http.StatusOK, gin.H{
		"report":      result.Report,
		"diagnostics": diags,
	})
}

func (h *Handler) weeklySummary(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	summary, err := h.earnings.CurrentWeekSummary(c.Request.Context(), time.Now().UTC(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type exportRequest struct {
	WeekEnding string `json:"week_ending" binding:"required"`
	Contractor string `json:"contractor"`
}

func (h *Handler) exportWeekly(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weekEnding, err := parseDate(req.WeekEnding)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_ending"})
		return
	}

	result, err := h.earnings.ExportWeeklyEarnings(c.Request.Context(), service.ComputeInput{
		WeekEnding: weekEnding,
		Contractor: req.Contractor,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) exportPayslips(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weekEnding, err := parseDate(req.WeekEnding)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_ending"})
		return
	}

	result, err := h.earnings.ExportPayslips(c.Request.Context(), service.ComputeInput{
		WeekEnding: weekEnding,
		Contractor: req.Contractor,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

type clockInRequest struct {
	ContractorName  string `json:"contractor_name" binding:"required"`
	JobSiteLocation string `json:"job_site_location" binding:"required"`
	Latitude        string `json:"latitude"`
	Longitude       string `json:"longitude"`
}

func (h *Handler) clockIn(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req clockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.sessions.ClockIn(c.Request.Context(), service.ClockInInput{
		ContractorName:  req.ContractorName,
		JobSiteLocation: req.JobSiteLocation,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Principal:       principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(created))
}

type clockOutRequest struct {
	ContractorName string `json:"contractor_name" binding:"required"`
	Latitude       string `json:"latitude"`
	Longitude      string `json:"longitude"`
}

func (h *Handler) clockOut(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req clockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	closed, err := h.sessions.ClockOut(c.Request.Context(), service.ClockOutInput{
		ContractorName: req.ContractorName,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Principal:      principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(closed))
}

func (h *Handler) activeSessions(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	sessions, err := h.sessions.ActiveSessions(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]gin.H, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessionResponse(&sessions[i]))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func sessionResponse(s *model.WorkSession) gin.H {
	resp := gin.H{
		"id":                s.ID,
		"contractor_name":   s.ContractorName,
		"job_site_location": s.JobSiteLocation,
		"start_time":        s.StartTime,
		"status":            s.Status,
	}
	if s.EndTime != nil {
		resp["end_time"] = *s.EndTime
	}
	if s.TotalHours != nil {
		resp["total_hours"] = *s.TotalHours
	}
	if s.GrossPay != nil {
		resp["gross_pay"] = s.GrossPay.InexactFloat64()
	}
	if s.CisDeduction != nil {
		resp["cis_deduction"] = s.CisDeduction.InexactFloat64()
	}
	if s.NetPay != nil {
		resp["net_pay"] = s.NetPay.InexactFloat64()
	}
	return resp
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyClockedIn), errors.Is(err, service.ErrNotClockedIn):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
