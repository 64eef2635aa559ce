package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/insightforge/insightforge/internal/keyword"
	"github.com/insightforge/insightforge/internal/models"
	"github.com/insightforge/insightforge/internal/semcluster"
	"github.com/insightforge/insightforge/internal/storage"
	"go.uber.org/zap"
)

const defaultListLimit = 50

// processRequest accepts either a bare array of posts or a wrapped object.
type processRequest struct {
	Posts []models.RawPost `json:"posts"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Accept either a bare array of posts or a {"posts": [...]} wrapper.
	var posts []models.RawPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		var req processRequest
		if err := json.Unmarshal(raw, &req); err != nil || req.Posts == nil {
			s.respondError(w, http.StatusBadRequest, "posts is required")
			return
		}
		posts = req.Posts
	}

	ctx := r.Context()
	result, err := s.pipeline.Process(ctx, posts)
	if err != nil {
		s.logger.Error("pipeline run failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.storage.ReplaceInsights(ctx, result.Insights); err != nil {
		s.logger.Error("persist insights failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.storage.ReplaceEpics(ctx, result.Epics); err != nil {
		s.logger.Error("persist epics failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.storage.ReplaceClusters(ctx, result.Clusters); err != nil {
		s.logger.Error("persist clusters failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.keywordIndex.ReplaceAll(ctx, result.Insights); err != nil {
		s.logger.Error("keyword index rebuild failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, result.Stats)
}

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.InsightFilter{
		Subtag:    q.Get("subtag"),
		TypeTag:   q.Get("type"),
		Sentiment: q.Get("sentiment"),
		Brand:     q.Get("brand"),
		Source:    q.Get("source"),
	}
	if v := q.Get("min_severity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid min_severity")
			return
		}
		filter.MinSeverity = n
	}
	limit := queryInt(q.Get("limit"), defaultListLimit)
	offset := queryInt(q.Get("offset"), 0)

	insights, err := s.storage.ListInsights(r.Context(), filter, offset, limit)
	if err != nil {
		s.logger.Error("list insights failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"insights": insights,
		"count":    len(insights),
	})
}

func (s *Server) handleGetInsight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, err := s.storage.GetInsight(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "insight not found")
		return
	}
	s.respondJSON(w, http.StatusOK, in)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	if s.vectorStore == nil || s.vectorStore.Size() == 0 {
		s.respondError(w, http.StatusNotImplemented, "embedding path not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	k := queryInt(r.URL.Query().Get("k"), s.config.Cluster.SimilarTopK)

	ctx := r.Context()
	all, err := s.storage.ListInsights(ctx, storage.InsightFilter{}, 0, s.vectorStore.Size())
	if err != nil {
		s.logger.Error("similar: list insights failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	byID := make(map[string]*models.Insight, len(all))
	for _, in := range all {
		byID[in.ID] = in
	}

	similar, err := semcluster.Similar(ctx, s.vectorStore, byID, id, k)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"similar": similar,
	})
}

func (s *Server) handleListEpics(w http.ResponseWriter, r *http.Request) {
	epics, err := s.storage.ListEpics(r.Context())
	if err != nil {
		s.logger.Error("list epics failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"epics": epics,
		"count": len(epics),
	})
}

func (s *Server) handleListClusters(w http.ResponseWriter, r *http.Request) {
	clusters, err := s.storage.ListClusters(r.Context())
	if err != nil {
		s.logger.Error("list clusters failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"clusters": clusters,
		"count":    len(clusters),
	})
}

type searchRequest struct {
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	Subtag    string `json:"subtag"`
	TypeTag   string `json:"type_tag"`
	Sentiment string `json:"sentiment"`
	Brand     string `json:"brand"`
}

type searchHit struct {
	Insight *models.Insight `json:"insight"`
	Score   float64         `json:"score"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}
	s.logger.Debug("search request", zap.String("query", req.Query), zap.Int("limit", req.Limit))

	opts := &keyword.SearchOptions{
		Subtag:    req.Subtag,
		TypeTag:   req.TypeTag,
		Sentiment: req.Sentiment,
		Brand:     req.Brand,
	}
	results, err := s.keywordIndex.Search(r.Context(), req.Query, req.Limit, opts)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hits := make([]*searchHit, 0, len(results))
	for _, res := range results {
		in, err := s.storage.GetInsight(r.Context(), res.ID)
		if err != nil {
			// Index and store can briefly disagree mid-reprocess.
			continue
		}
		hits = append(hits, &searchHit{Insight: in, Score: res.Score})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": hits,
		"total":   len(hits),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	insightCount, err := s.storage.CountInsights(ctx)
	if err != nil {
		s.logger.Error("status: count insights failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	epics, err := s.storage.ListEpics(ctx)
	if err != nil {
		s.logger.Error("status: list epics failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	indexedCount, err := s.keywordIndex.DocCount()
	if err != nil {
		s.logger.Error("status: doc count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]interface{}{
		"insights": insightCount,
		"epics":    len(epics),
		"indexed":  indexedCount,
	}
	if s.vectorStore != nil {
		resp["vectors"] = s.vectorStore.Size()
	}

	configInfo := map[string]interface{}{
		"workers":          s.config.Pipeline.Workers,
		"database_path":    s.config.Storage.DatabasePath,
		"bleve_index_path": s.config.Storage.BleveIndexPath,
		"data_dir":         s.config.Storage.DataDir,
		"embedding_model":  s.config.Embedding.ModelPath,
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.BleveIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
