package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agenthands/tranche/internal/config"
	"github.com/agenthands/tranche/internal/core"
	"github.com/agenthands/tranche/internal/core/extraction"
	"github.com/agenthands/tranche/internal/core/match"
	"github.com/agenthands/tranche/internal/core/merge"
	"github.com/agenthands/tranche/internal/core/model"
	"github.com/agenthands/tranche/internal/core/reconcile"
	"github.com/agenthands/tranche/internal/core/schema"
	"github.com/agenthands/tranche/internal/driver"
	"github.com/agenthands/tranche/internal/llm"
)

type Server struct {
	Pipeline *core.Pipeline
	Config   *config.Config
}

// NewServer wires the pipeline from configuration. Memgraph is optional: when
// MEMGRAPH_URI and memgraph.uri are both empty, records are returned in the
// response only.
func NewServer() (*Server, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	// Env vars override file values so deployments can keep secrets out of
	// the config file.
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		cfg.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		cfg.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		cfg.Memgraph.Password = v
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		return nil, err
	}

	fieldSchema, err := buildSchema(cfg.Schema)
	if err != nil {
		return nil, err
	}

	var store *driver.RecordStore
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			return nil, err
		}
		if err := d.BuildIndices(context.Background()); err != nil {
			zap.L().Warn("failed to build indices", zap.Error(err))
		}
		store = driver.NewRecordStore(d)
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	extractor := extraction.New(
		llmClient,
		fieldSchema,
		extraction.PolicyFromConfig(cfg.Retry),
		limiter,
		cfg.Chunking,
		time.Duration(cfg.Retry.AttemptTimeoutMS)*time.Millisecond,
	)

	pipeline := core.NewPipeline(
		match.NewMatcher(cfg.Properties, cfg.Matching),
		extractor,
		merge.New(fieldSchema, cfg.Merge),
		reconcile.New(cfg.Reconciliation),
		store,
		cfg.Concurrency.BundleWorkers,
		cfg.Concurrency.DocumentWorkers,
	)

	return &Server{Pipeline: pipeline, Config: cfg}, nil
}

func buildSchema(cfg config.SchemaConfig) (*schema.Schema, error) {
	if len(cfg.Fields) == 0 {
		return schema.DefaultLoan(), nil
	}
	specs := make([]schema.FieldSpec, 0, len(cfg.Fields))
	for _, f := range cfg.Fields {
		specs = append(specs, schema.FieldSpec{
			Name:        f.Name,
			Kind:        model.ValueKind(f.Kind),
			Description: f.Description,
			Enum:        f.Enum,
			Rate:        f.Rate,
		})
	}
	return schema.New(specs)
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/runs", s.Run)
	r.GET("/health", s.Health)

	return r
}

type RunRequest struct {
	Documents []core.Input `json:"documents"`
}

// Run processes one batch of documents and returns the full run report.
func (s *Server) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if len(req.Documents) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "documents must not be empty"})
		return
	}

	report, err := s.Pipeline.Run(c.Request.Context(), req.Documents)
	if err != nil {
		zap.L().Error("run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process documents"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
