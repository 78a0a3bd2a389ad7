package http

import (
	"encoding/json"
	"net/http"

	"learnhub/pkg/logger"
	"learnhub/pkg/validation"
	"learnhub/services/forum/internal/repo/webapi"

	"github.com/gin-gonic/gin"
)

// SimilarityHandler proxies semantic search requests.
type SimilarityHandler struct {
	api    webapi.SimilarityAPI
	logger *logger.Logger
}

func NewSimilarityHandler(api webapi.SimilarityAPI, log *logger.Logger) *SimilarityHandler {
	return &SimilarityHandler{api: api, logger: log}
}

type SimilarityRequest struct {
	Query     string   `json:"query" binding:"required"`
	TopK      *int     `json:"top_k" binding:"omitempty,min=1,max=100"`
	Threshold *float64 `json:"threshold" binding:"omitempty,min=0,max=1"`
}

type SimilarityBatchRequest struct {
	Queries   []string `json:"queries" binding:"required,min=1,max=50,dive,required"`
	TopK      *int     `json:"top_k" binding:"omitempty,min=1,max=100"`
	Threshold *float64 `json:"threshold" binding:"omitempty,min=0,max=1"`
}

// relay writes a 2xx upstream body verbatim and turns anything else into an
// error body carrying the upstream status.
func (h *SimilarityHandler) relay(c *gin.Context, resp *webapi.Response, err error) {
	if err != nil {
		h.logger.Error("[SIMILARITY] %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Similarity service unavailable"})
		return
	}
	if resp.Status >= 200 && resp.Status < 300 {
		c.Data(resp.Status, "application/json", resp.Body)
		return
	}

	h.logger.Warn("[SIMILARITY] upstream returned %d: %s", resp.Status, string(resp.Body))
	body := gin.H{"error": "Similarity service error"}
	var detail interface{}
	if json.Unmarshal(resp.Body, &detail) == nil {
		body["details"] = detail
	}
	c.JSON(resp.Status, body)
}

// Search godoc
// @Summary      Find questions similar to a query
// @Tags         similarity
// @Accept       json
// @Produce      json
// @Param        request body SimilarityRequest true "Query"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /similarity [post]
func (h *SimilarityHandler) Search(c *gin.Context) {
	var req SimilarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	resp, err := h.api.Search(c.Request.Context(), webapi.SimilarityQuery{
		Query:     req.Query,
		TopK:      req.TopK,
		Threshold: req.Threshold,
	})
	h.relay(c, resp, err)
}

// SearchBatch godoc
// @Summary      Similarity search for several queries
// @Tags         similarity
// @Accept       json
// @Produce      json
// @Param        request body SimilarityBatchRequest true "Queries"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /similarity/batch [post]
func (h *SimilarityHandler) SearchBatch(c *gin.Context) {
	var req SimilarityBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	resp, err := h.api.SearchBatch(c.Request.Context(), webapi.SimilarityBatch{
		Queries:   req.Queries,
		TopK:      req.TopK,
		Threshold: req.Threshold,
	})
	h.relay(c, resp, err)
}
