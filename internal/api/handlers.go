package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verisec/trustgate/internal/schema"
	"github.com/verisec/trustgate/internal/vectordb"
	"github.com/verisec/trustgate/internal/verdict"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ingestRequest struct {
	Docs      []vectordb.Doc `json:"docs" binding:"required"`
	Namespace string         `json:"namespace"`
}

func (s *Server) ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := vectordb.Ingest(c.Request.Context(), s.embedder, s.index, req.Docs, req.Namespace); err != nil {
		s.log.Error("ingest failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingested": "ok"})
}

type analyzeRequest struct {
	Text      string `json:"text" binding:"required"`
	TopK      int    `json:"top_k"`
	Namespace string `json:"namespace"`
}

// analyze is the live decision path: similarity search feeds the generation
// cross-check. Every fault short of a missing request body degrades to a
// deterministic fallback inside the cross-check, so this handler always
// answers 200 with a decision.
func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var namespaces []string
	if req.Namespace != "" {
		namespaces = []string{req.Namespace}
	}

	matches, failed, err := s.searcher.Search(c.Request.Context(), req.Text, req.TopK, namespaces)
	if err != nil {
		// Embedding unavailable: the cross-check proceeds without
		// similarity context.
		s.log.Warn("similarity search unavailable", zap.Error(err))
		matches = nil
	}
	for ns, nsErr := range failed {
		s.log.Warn("namespace query failed", zap.String("namespace", ns), zap.Error(nsErr))
	}

	result := s.crossCheck.Analyze(c.Request.Context(), req.Text, matches, s.prof)
	c.JSON(http.StatusOK, result)
}

// verify runs the pure heuristic engine. Optional matches let callers feed
// their own similarity evidence.
func (s *Server) verify(c *gin.Context) {
	var req schema.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, verdict.Analyze(req))
}
