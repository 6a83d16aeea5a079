package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/catops/catsvc/store"
)

type catInput struct {
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Weight float64 `json:"weight"`
	Breed  string  `json:"breed"`
}

func (in catInput) validate() error {
	if in.Name == "" {
		return errors.New("name must not be empty")
	}
	if in.Age <= 0 || in.Age >= 100 {
		return errors.New("age must be between 1 and 99")
	}
	if in.Weight <= 0 || in.Weight >= 100 {
		return errors.New("weight must be greater than 0 and less than 100")
	}
	return nil
}

// catPatch distinguishes absent fields from zero values.
type catPatch struct {
	Name   *string  `json:"name"`
	Age    *int     `json:"age"`
	Weight *float64 `json:"weight"`
	Breed  *string  `json:"breed"`
}

func (p catPatch) validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("name must not be empty")
	}
	if p.Age != nil && (*p.Age <= 0 || *p.Age >= 100) {
		return errors.New("age must be between 1 and 99")
	}
	if p.Weight != nil && (*p.Weight <= 0 || *p.Weight >= 100) {
		return errors.New("weight must be greater than 0 and less than 100")
	}
	return nil
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in catInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := in.validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.svc.Create(r.Context(), store.Cat{
		Name:   in.Name,
		Age:    in.Age,
		Weight: in.Weight,
		Breed:  in.Breed,
	})
	if err != nil {
		s.serverError(w, "create cat", err)
		return
	}
	s.respondJSON(w, http.StatusOK, created)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := s.svc.List(r.Context())
	if err != nil {
		s.serverError(w, "list cats", err)
		return
	}
	s.respondJSON(w, http.StatusOK, all)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	cat, err := s.svc.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Cat not found")
		return
	}
	if err != nil {
		s.serverError(w, "get cat", err)
		return
	}
	s.respondJSON(w, http.StatusOK, cat)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("cat_name")
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "cat_name query parameter is required")
		return
	}
	results, err := s.svc.SearchByName(r.Context(), name)
	if err != nil {
		s.serverError(w, "search cats", err)
		return
	}
	s.respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var patch catPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := patch.validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.svc.Update(r.Context(), id, store.CatUpdate{
		Name:   patch.Name,
		Age:    patch.Age,
		Weight: patch.Weight,
		Breed:  patch.Breed,
	})
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Cat not found")
		return
	}
	if err != nil {
		s.serverError(w, "update cat", err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.svc.Delete(r.Context(), id); err != nil {
		s.serverError(w, "delete cat", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Cat with id '%d' was deleted", id),
	})
}

func (s *Server) handleCacheStatus(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.cache.Status())
}

func (s *Server) handleCacheFlush(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]bool{
		"success": s.cache.FlushAll(r.Context()),
	})
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid cat id")
		return 0, false
	}
	return id, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, detail string) {
	s.respondJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.log.Error("request failed", zap.String("op", op), zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, "internal server error")
}
