package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Arch-Mind/frontend-sub001/pkg/cluster"
	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
	"github.com/Arch-Mind/frontend-sub001/pkg/layout"
)

// HeaderCache reports whether a layout came from the cache ("hit" or "miss").
const HeaderCache = "X-Archmind-Cache"

// layout handles POST /api/v1/layout.
//
// Query parameters: strategy, cluster (bool), repo (loads saved cluster
// state), refresh (bool).
func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	var raw graph.RawGraph
	if err := decodeBody(w, r, &raw); err != nil {
		respondError(w, err)
		return
	}

	opts := s.Defaults
	q := r.URL.Query()
	if v := q.Get("strategy"); v != "" {
		opts.Strategy = v
	}
	if v := q.Get("cluster"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, errors.New(errors.ErrCodeInvalidInput, "cluster must be a boolean"))
			return
		}
		opts.Cluster = b
	}
	if v := q.Get("refresh"); v != "" {
		opts.Refresh, _ = strconv.ParseBool(v)
	}
	if repo := q.Get("repo"); repo != "" && opts.Cluster {
		if err := errors.ValidateRepo(repo); err != nil {
			respondError(w, err)
			return
		}
		if s.Store != nil {
			st, err := s.Store.Load(r.Context(), repo)
			if err != nil {
				respondError(w, errors.Wrap(errors.ErrCodeStorage, err, "load cluster state"))
				return
			}
			opts.State = st
		}
	}
	if opts.Logger == nil {
		opts.Logger = s.logger()
	}

	res, err := s.Runner.Execute(r.Context(), raw, opts)
	if err != nil {
		respondError(w, err)
		return
	}
	if res.CacheHit {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
	respondJSON(w, http.StatusOK, res.Layout)
}

func (s *Server) strategies(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"default":    layout.DefaultStrategy,
		"strategies": layout.Names(),
	})
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repoParam(w, r)
	if !ok {
		return
	}
	st, err := s.Store.Load(r.Context(), repo)
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeStorage, err, "load cluster state"))
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) putState(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repoParam(w, r)
	if !ok {
		return
	}
	st := cluster.NewState()
	if err := decodeBody(w, r, st); err != nil {
		respondError(w, err)
		return
	}
	for _, id := range st.IDs() {
		if err := errors.ValidateClusterID(id); err != nil {
			respondError(w, err)
			return
		}
	}
	if err := s.Store.Save(r.Context(), repo, st); err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeStorage, err, "save cluster state"))
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repoParam(w, r)
	if !ok {
		return
	}
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err == nil {
		err = errors.ValidateClusterID(id)
	}
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cluster id"))
		return
	}

	var expanded bool
	st, err := s.Store.Update(r.Context(), repo, func(st *cluster.State) {
		expanded = st.Toggle(id)
	})
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeStorage, err, "save cluster state"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":       id,
		"expanded": expanded,
		"state":    st,
	})
}

func (s *Server) setAll(expanded bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repo, ok := s.repoParam(w, r)
		if !ok {
			return
		}
		var ids []string
		if err := decodeBody(w, r, &ids); err != nil {
			respondError(w, err)
			return
		}
		clusters := make([]cluster.Cluster, 0, len(ids))
		for _, id := range ids {
			if err := errors.ValidateClusterID(id); err != nil {
				respondError(w, err)
				return
			}
			clusters = append(clusters, cluster.Cluster{ID: id})
		}

		st, err := s.Store.Update(r.Context(), repo, func(st *cluster.State) {
			if expanded {
				st.ExpandAll(clusters)
			} else {
				st.CollapseAll(clusters)
			}
		})
		if err != nil {
			respondError(w, errors.Wrap(errors.ErrCodeStorage, err, "save cluster state"))
			return
		}
		respondJSON(w, http.StatusOK, st)
	}
}

// repoParam returns the unescaped {repo} parameter, responding with an
// error when it is invalid or no store is configured.
func (s *Server) repoParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	if s.Store == nil {
		respondError(w, errors.New(errors.ErrCodeStorage, "cluster state storage is not configured"))
		return "", false
	}
	repo, err := url.PathUnescape(chi.URLParam(r, "repo"))
	if err == nil {
		err = errors.ValidateRepo(repo)
	}
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid repository"))
		return "", false
	}
	return repo, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, errors.HTTPStatus(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
