package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/atlas/internal/config"
	"github.com/agenthands/atlas/internal/core"
	"github.com/agenthands/atlas/internal/core/model"
	"github.com/agenthands/atlas/internal/driver"
	"github.com/agenthands/atlas/internal/export"
	"github.com/agenthands/atlas/internal/llm"
)

type Server struct {
	Atlas    *core.Atlas
	Reranker llm.RerankerClient
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults with env overrides.", cfgPath, err)
		cfg = &config.Config{}
	}

	// Env vars win over the config file.
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

	var graphDriver driver.GraphDriver
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			log.Fatalf("Failed to connect to Memgraph: %v", err)
		}
		if err := d.BuildIndices(context.Background()); err != nil {
			log.Printf("Warning: failed to build indices: %v", err)
		}
		graphDriver = d
	} else {
		log.Println("No MEMGRAPH_URI configured, results stay in memory")
	}

	var llmClient llm.LLMClient
	var reranker llm.RerankerClient
	if cfg.LLM.Provider != "" {
		client, _, err := llm.NewClient(context.Background(), cfg.LLM)
		if err != nil {
			log.Fatalf("Failed to initialize LLM client: %v", err)
		}
		llmClient = client
		reranker = llm.NewSimpleLLMReranker(client)
	} else {
		log.Println("No LLM provider configured, extraction and search endpoints are disabled")
	}

	a, err := core.NewAtlas(graphDriver, llmClient, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	return &Server{
		Atlas:    a,
		Reranker: reranker,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/ingest", s.Ingest)
	r.POST("/deduplicate", s.Deduplicate)
	r.GET("/stats", s.GetStats)
	r.POST("/stats/reset", s.ResetStats)
	r.POST("/search", s.Search)
	r.GET("/export/:format", s.Export)

	return r
}

type IngestRequest struct {
	GroupID string `json:"group_id"`
	Chunks  []struct {
		ChunkID string `json:"chunk_id"`
		Content string `json:"content"`
	} `json:"chunks"`
}

func (s *Server) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	total := 0
	for _, chunk := range req.Chunks {
		n, err := s.Atlas.IngestText(c.Request.Context(), req.GroupID, chunk.ChunkID, chunk.Content)
		if err != nil {
			log.Printf("Failed to ingest chunk: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chunk"})
			return
		}
		total += n
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "candidates_extracted": total})
}

type DeduplicateRequest struct {
	GroupID string `json:"group_id"`
	// Candidates, when present, are deduplicated directly without touching
	// the group's accumulated state. This is the pure engine path: no LLM,
	// no persistence.
	Candidates []model.LocationCandidate `json:"candidates"`
}

func (s *Server) Deduplicate(c *gin.Context) {
	var req DeduplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Candidates != nil {
		merged, stats := s.Atlas.Deduplicator.Deduplicate(req.Candidates)
		c.JSON(http.StatusOK, gin.H{"locations": merged, "statistics": stats})
		return
	}

	merged, stats, err := s.Atlas.DedupeGroup(c.Request.Context(), req.GroupID)
	if err != nil {
		log.Printf("Failed to deduplicate group %s: %v", req.GroupID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deduplicate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": merged, "statistics": stats})
}

func (s *Server) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.Atlas.Stats())
}

func (s *Server) ResetStats(c *gin.Context) {
	s.Atlas.Deduplicator.ResetStats()
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type SearchRequest struct {
	GroupID string `json:"group_id"`
	Query   string `json:"query"`
}

func (s *Server) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if s.Reranker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No LLM configured"})
		return
	}

	locations := s.Atlas.Results(req.GroupID)
	if len(locations) == 0 {
		c.JSON(http.StatusOK, gin.H{"results": []model.MergedLocation{}})
		return
	}

	docs := make([]string, len(locations))
	for i, l := range locations {
		docs[i] = fmt.Sprintf("%s (%s): %s", l.Name, l.Type, l.Description)
	}

	order, err := s.Reranker.Rank(c.Request.Context(), req.Query, docs)
	if err != nil {
		log.Printf("Failed to rank results: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search"})
		return
	}

	ranked := make([]model.MergedLocation, 0, len(order))
	for _, idx := range order {
		ranked = append(ranked, locations[idx])
	}

	c.JSON(http.StatusOK, gin.H{"results": ranked})
}

func (s *Server) Export(c *gin.Context) {
	format := c.Param("format")
	groupID := c.Query("group_id")

	locations := s.Atlas.Results(groupID)

	switch format {
	case export.FormatCSV:
		c.Header("Content-Type", "text/csv")
	case export.FormatJSON, export.FormatGeoJSON:
		c.Header("Content-Type", "application/json")
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format"})
		return
	}

	if err := export.Write(c.Writer, format, locations); err != nil {
		log.Printf("Failed to export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export"})
	}
}
