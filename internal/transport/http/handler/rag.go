package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wpanswers/internal/app"
	"wpanswers/internal/transport/http/response"
)

type RAGHandler struct {
	ragService *app.RAGService
}

type AskRequest struct {
	Question string `json:"question" binding:"required,max=2048"`
}

func NewRAGHandler(ragService *app.RAGService) *RAGHandler {
	return &RAGHandler{ragService: ragService}
}

// Ask answers a question from the indexed content. Inference-side outages
// come back as 503 so clients can fall back to Search.
func (h *RAGHandler) Ask(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	answer, err := h.ragService.Ask(c.Request.Context(), userID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrEmbeddingUnavailable), errors.Is(err, app.ErrGenerationUnavailable):
			response.Error(c, http.StatusServiceUnavailable, response.CodeAnswerUnavailable, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ask failed")
		}
		return
	}

	response.OK(c, answer)
}

// Search returns the most similar chunks without generated prose.
func (h *RAGHandler) Search(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	question := c.Query("q")
	k := 0
	if s := c.Query("k"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			k = parsed
		}
	}

	docs, err := h.ragService.Search(c.Request.Context(), question, k)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrEmbeddingUnavailable):
			response.Error(c, http.StatusServiceUnavailable, response.CodeAnswerUnavailable, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search failed")
		}
		return
	}

	response.OK(c, gin.H{"documents": docs})
}
