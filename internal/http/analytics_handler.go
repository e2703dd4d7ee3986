package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepinter/internal/service"
)

// AnalyticsHandler mantiene dependencias para endpoints de analytics.
type AnalyticsHandler struct {
	logger        *zap.Logger
	analyticsServ *service.AnalyticsService
}

func NewAnalyticsHandler(logger *zap.Logger, analyticsServ *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		logger:        logger,
		analyticsServ: analyticsServ,
	}
}

// Progress maneja GET /api/analytics/progress.
func (h *AnalyticsHandler) Progress(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))

	report, err := h.analyticsServ.Progress(c.Request.Context(), user.ID, month, year)
	if err != nil {
		h.logger.Error("analytics progress failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "progress": report})
}

// History maneja GET /api/analytics/history.
func (h *AnalyticsHandler) History(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	interviews, pagination, err := h.analyticsServ.History(c.Request.Context(), user.ID, page, limit)
	if err != nil {
		h.logger.Error("analytics history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"interviews": interviews,
		"pagination": pagination,
	})
}

// Insights maneja GET /api/analytics/insights.
func (h *AnalyticsHandler) Insights(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	insights, err := h.analyticsServ.Insights(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("analytics insights failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute insights"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "insights": insights})
}

// Latest maneja GET /api/analytics/latest.
func (h *AnalyticsHandler) Latest(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	latest, err := h.analyticsServ.Latest(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("analytics latest failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch latest interview"})
		return
	}
	if latest == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "interview": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "interview": latest})
}

// Recommendations maneja GET /api/analytics/recommendations.
func (h *AnalyticsHandler) Recommendations(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	recommendations, err := h.analyticsServ.Recommendations(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("analytics recommendations failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute recommendations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recommendations": recommendations})
}
