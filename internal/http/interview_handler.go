package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepinter/internal/service"
)

// InterviewHandler mantiene dependencias para endpoints de entrevistas.
type InterviewHandler struct {
	logger        *zap.Logger
	interviewServ *service.InterviewService
	sessionServ   *service.SessionService
}

func NewInterviewHandler(logger *zap.Logger, interviewServ *service.InterviewService, sessionServ *service.SessionService) *InterviewHandler {
	return &InterviewHandler{
		logger:        logger,
		interviewServ: interviewServ,
		sessionServ:   sessionServ,
	}
}

// Start maneja POST /api/interviews y POST /api/interviews/start.
func (h *InterviewHandler) Start(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Category   string `json:"category"`
		Difficulty string `json:"difficulty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid start interview request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "difficulty is required"})
		return
	}

	interview, err := h.interviewServ.Start(c.Request.Context(), user, req.Category, req.Difficulty)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingDifficulty):
			c.JSON(http.StatusBadRequest, gin.H{"error": "difficulty is required"})
		case errors.Is(err, service.ErrQuotaExceeded):
			c.JSON(http.StatusForbidden, gin.H{"error": "free tier interview limit reached, upgrade to continue"})
		default:
			h.logger.Error("start interview failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start interview"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"interview": interview})
}

// List maneja GET /api/interviews.
func (h *InterviewHandler) List(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	interviews, err := h.interviewServ.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("list interviews failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list interviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": interviews})
}

// Get maneja GET /api/interviews/:id.
func (h *InterviewHandler) Get(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	interview, err := h.interviewServ.GetByID(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		h.respondInterviewError(c, err, "get interview failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"interview": interview})
}

// Update maneja PUT /api/interviews/:id.
func (h *InterviewHandler) Update(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Answers   map[string]string `json:"answers"`
		Completed bool              `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update interview request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	interview, err := h.interviewServ.Update(c.Request.Context(), c.Param("id"), user, service.UpdateInterviewInput{
		Answers:   req.Answers,
		Completed: req.Completed,
	})
	if err != nil {
		h.respondInterviewError(c, err, "update interview failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"interview": interview})
}

// Delete maneja DELETE /api/interviews/:id.
func (h *InterviewHandler) Delete(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	if err := h.interviewServ.Delete(c.Request.Context(), c.Param("id"), user); err != nil {
		h.respondInterviewError(c, err, "delete interview failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// Complete maneja PUT /api/interviews/:id/complete.
func (h *InterviewHandler) Complete(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	interview, err := h.sessionServ.Complete(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		h.respondInterviewError(c, err, "complete interview failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"interview": interview})
}

// Skip maneja POST /api/interviews/skip.
func (h *InterviewHandler) Skip(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	out, err := h.sessionServ.Skip(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveInterview) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active interview"})
			return
		}
		h.logger.Error("skip question failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not skip question"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"questionId":  out.QuestionID,
		"interviewId": out.InterviewID,
		"completed":   out.Completed,
	})
}

func (h *InterviewHandler) respondInterviewError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrInterviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "interview not found"})
	case errors.Is(err, service.ErrInterviewForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your interview"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
