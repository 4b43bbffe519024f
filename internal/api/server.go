// Package api exposes the verification service over HTTP: health, document
// ingest, the cross-check analyze path, and the heuristic verify path.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verisec/trustgate/internal/config"
	"github.com/verisec/trustgate/internal/llm"
	"github.com/verisec/trustgate/internal/profile"
	"github.com/verisec/trustgate/internal/vectordb"
)

// Server bundles the collaborators the handlers need.
type Server struct {
	cfg        config.Config
	log        *zap.Logger
	embedder   vectordb.Embedder
	index      vectordb.Index
	searcher   *vectordb.Searcher
	crossCheck *llm.CrossCheck
	prof       profile.Profile
}

// New assembles the gin engine with all middleware and routes attached.
func New(cfg config.Config, log *zap.Logger, embedder vectordb.Embedder, index vectordb.Index, crossCheck *llm.CrossCheck, prof profile.Profile) *gin.Engine {
	s := &Server{
		cfg:        cfg,
		log:        log,
		embedder:   embedder,
		index:      index,
		searcher:   vectordb.NewSearcher(embedder, index),
		crossCheck: crossCheck,
		prof:       prof,
	}

	g := gin.New()
	g.Use(gin.Recovery())
	g.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.WebOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Api-Key", "X-Timestamp", "X-Signature"},
		AllowCredentials: true,
	}))
	g.Use(requestID(), requestLogger(log))
	g.Use(signing(cfg.ServiceKey, cfg.SigningSecret))

	g.GET("/health", s.health)
	g.POST("/ingest", s.ingest)
	g.POST("/analyze", s.analyze)
	g.POST("/verify", s.verify)

	return g
}
