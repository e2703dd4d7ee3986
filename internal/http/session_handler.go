package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepinter/internal/service"
)

// SessionHandler mantiene dependencias para la sesion de entrevista activa.
type SessionHandler struct {
	logger      *zap.Logger
	sessionServ *service.SessionService
}

func NewSessionHandler(logger *zap.Logger, sessionServ *service.SessionService) *SessionHandler {
	return &SessionHandler{
		logger:      logger,
		sessionServ: sessionServ,
	}
}

// NextQuestion maneja GET /api/interview/question.
func (h *SessionHandler) NextQuestion(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	out, err := h.sessionServ.NextQuestion(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveInterview) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active interview"})
			return
		}
		h.logger.Error("next question failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch question"})
		return
	}

	if out.Completed {
		c.JSON(http.StatusOK, gin.H{
			"completed":   true,
			"interviewId": out.InterviewID,
			"message":     "interview completed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"questionId":  out.QuestionID,
		"question":    out.Question,
		"interviewId": out.InterviewID,
	})
}

// SubmitAnswer maneja POST /api/interview/answer.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		QuestionID string `json:"questionId" binding:"required"`
		Answer     string `json:"answer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "questionId and answer are required"})
		return
	}

	result, err := h.sessionServ.Submit(c.Request.Context(), user.ID, req.QuestionID, req.Answer)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found or interview already completed"})
			return
		}
		h.logger.Error("submit answer failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit answer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"feedback": result.Feedback,
		"score":    result.Score,
	})
}
