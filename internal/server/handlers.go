package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stackfin/gitscout/internal/ingest"
	"github.com/stackfin/gitscout/internal/metrics"
	"github.com/stackfin/gitscout/internal/models"
	"github.com/stackfin/gitscout/internal/storage"
)

// searchRequest is the wire form of a query.
type searchRequest struct {
	Mode   string             `json:"mode"`
	Text   string             `json:"text,omitempty"`
	Vector []float32          `json:"vector,omitempty"`
	Limit  int                `json:"limit,omitempty"`
	Offset int                `json:"offset,omitempty"`
	Filter string             `json:"filter,omitempty"`
	Fields []string           `json:"fields,omitempty"`
	Boosts map[string]float64 `json:"boosts,omitempty"`
	Rerank *rerankRequest     `json:"rerank,omitempty"`
}

type rerankRequest struct {
	Strategy     string  `json:"strategy"`
	K            float64 `json:"k,omitempty"`
	TextWeight   float64 `json:"text_weight,omitempty"`
	VectorWeight float64 `json:"vector_weight,omitempty"`
}

type searchResponse struct {
	Results     []models.SearchResult `json:"results"`
	Count       int                   `json:"count"`
	QueryTimeMS int64                 `json:"query_time_ms"`
}

// toQuery converts the wire request into the internal query value.
func (req *searchRequest) toQuery() (models.Query, error) {
	var q models.Query
	switch req.Mode {
	case "full_text":
		q = models.FullText(req.Text)
	case "semantic":
		if len(req.Vector) > 0 {
			q = models.SemanticFromVector(req.Vector)
		} else {
			q = models.SemanticFromText(req.Text)
		}
	case "hybrid", "":
		q = models.Hybrid(req.Text)
	default:
		return q, fmt.Errorf("unknown mode %q", req.Mode)
	}

	if req.Limit > 0 {
		q = q.WithLimit(req.Limit)
	}
	q = q.WithOffset(req.Offset).WithFilter(req.Filter)
	if len(req.Fields) > 0 {
		q = q.WithFields(req.Fields...)
	}
	if len(req.Boosts) > 0 {
		q = q.WithBoosts(req.Boosts)
	}
	if req.Rerank != nil {
		strategy, err := req.Rerank.toStrategy()
		if err != nil {
			return q, err
		}
		q = q.WithRerank(strategy)
	}
	return q, nil
}

func (r *rerankRequest) toStrategy() (models.RerankStrategy, error) {
	switch r.Strategy {
	case "rrf":
		k := r.K
		if k == 0 {
			k = models.DefaultRRFK
		}
		return models.RRF{K: k}, nil
	case "linear":
		return models.Linear{TextWeight: r.TextWeight, VectorWeight: r.VectorWeight}, nil
	case "text_only":
		return models.TextOnly{}, nil
	case "vector_only":
		return models.VectorOnly{}, nil
	default:
		return nil, &models.InvalidStrategyError{Strategy: r.Strategy, Reason: "unknown strategy name"}
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query, err := req.toQuery()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	results, err := s.engine.Search(r.Context(), query)
	mode := string(query.Mode)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(mode, "error").Inc()
		s.logger.Warn("search failed",
			zap.String("mode", mode),
			zap.String("request_id", w.Header().Get(requestIDHeader)),
			zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	metrics.SearchRequestsTotal.WithLabelValues(mode, "ok").Inc()
	metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	s.respondJSON(w, http.StatusOK, searchResponse{
		Results:     results,
		Count:       len(results),
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}

// statusFor maps search errors onto HTTP statuses: caller mistakes are 400,
// missing backends are 503.
func statusFor(err error) int {
	var (
		invalidFilter   *models.InvalidFilterError
		unknownField    *models.UnknownFieldError
		dimMismatch     *models.DimensionMismatchError
		strategyMism    *models.StrategyMismatchError
		invalidStrategy *models.InvalidStrategyError
	)
	switch {
	case errors.As(err, &invalidFilter),
		errors.As(err, &unknownField),
		errors.As(err, &dimMismatch),
		errors.As(err, &strategyMism),
		errors.As(err, &invalidStrategy):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrIndexUnavailable),
		errors.Is(err, models.ErrEmbeddingUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleIndexItems(w http.ResponseWriter, r *http.Request) {
	var dump ingest.Dump
	if err := json.NewDecoder(r.Body).Decode(&dump); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	items := dump.Items()
	if len(items) == 0 {
		s.respondError(w, http.StatusBadRequest, "no items in request")
		return
	}
	if err := s.indexer.IndexItems(r.Context(), items); err != nil {
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]int{"indexed": len(items)})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := s.store.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "item not found")
			return
		}
		s.logger.Error("get item failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.indexer.DeleteItem(r.Context(), id); err != nil {
		s.logger.Error("delete item failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountByType(r.Context())
	if err != nil {
		s.logger.Error("status: count items failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total := int64(0)
	byType := make(map[string]int64, len(counts))
	for itemType, n := range counts {
		byType[string(itemType)] = n
		total += n
	}

	resp := map[string]any{
		"items":         total,
		"items_by_type": byType,
	}
	if s.cfg != nil {
		diskBytes, err := storage.DiskUsageBytes(
			s.cfg.Storage.DatabasePath,
			s.cfg.Storage.BleveIndexPath,
			s.cfg.Storage.VectorIndexPath,
		)
		if err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
		resp["config"] = map[string]any{
			"embedding_dimensions": s.cfg.Embedding.Dimensions,
			"default_strategy":     s.cfg.Search.DefaultStrategy,
			"vector_filter_mode":   s.cfg.Search.VectorFilterMode,
			"database_path":        s.cfg.Storage.DatabasePath,
			"bleve_index_path":     s.cfg.Storage.BleveIndexPath,
			"vector_index_path":    s.cfg.Storage.VectorIndexPath,
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
