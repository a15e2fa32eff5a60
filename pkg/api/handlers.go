package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leads-manager/pkg/config"
	"leads-manager/pkg/middleware"
	"leads-manager/pkg/services"
)

// authCookieMaxAge bounds the access cookie to 12 hours.
const authCookieMaxAge = 12 * 60 * 60

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	leadService services.LeadService
	config      *config.Config
	logger      *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(leadService services.LeadService, cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		leadService: leadService,
		config:      cfg,
		logger:      logger,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GetLeads returns the full lead list (one fixed-size page).
func (h *Handlers) GetLeads(c *gin.Context) {
	leads, err := h.leadService.ListLeads(c.Request.Context())
	if err != nil {
		h.logger.Error("GET /api/leads failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

// UpdateLead patches one lead by id. The body is an optional subset of
// {status, fields, notes, followUpDate}; an empty resulting payload is
// rejected before any remote call.
func (h *Handlers) UpdateLead(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateRequest
	// Tolerate an empty or malformed body; it resolves to an empty payload
	// and is rejected below with a 400.
	if err := c.ShouldBindJSON(&req); err != nil {
		req = services.UpdateRequest{}
	}

	lead, err := h.leadService.UpdateLead(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, services.ErrEmptyUpdate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields provided"})
			return
		}
		h.logger.Error("PATCH /api/leads/:id failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

// GetSummary returns the aggregate metrics and 14-day histogram behind the
// dashboard cards and chart.
func (h *Handlers) GetSummary(c *gin.Context) {
	summary, err := h.leadService.Summary(c.Request.Context())
	if err != nil {
		h.logger.Error("GET /api/leads/summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the shared credentials and sets the access cookie. The
// credential check is a static equality test against two configured values.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	if h.config.AuthUser == "" || req.Email != h.config.AuthUser || req.Password != h.config.AuthPass {
		h.logger.Warn("login rejected", zap.String("user", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, middleware.AuthCookieValue,
		authCookieMaxAge, "/", "", h.config.Production, true)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

// RegisterRoutes mounts the JSON API on the router.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/leads", h.GetLeads)
		api.GET("/leads/summary", h.GetSummary)
		api.PATCH("/leads/:id", h.UpdateLead)
		api.POST("/auth/login", h.Login)
	}
}
