package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

// uploadKeyType labels upload cache events for observability hooks.
const uploadKeyType = "upload"

// contentTypes maps output formats to response content types. DOT graphs
// are returned rendered as SVG.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "image/svg+xml",
}

// upload is the cache entry of an uploaded tree.
type upload struct {
	Weights string          `json:"weights"`
	Tree    json.RawMessage `json:"tree"`
}

// UploadResponse is returned by POST /api/trees.
type UploadResponse struct {
	ID    string `json:"id"`
	Root  string `json:"root"`
	Nodes int    `json:"nodes"`
}

func (s *Server) uploadTree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	weights := r.URL.Query().Get("weights")
	if weights == "" {
		weights = pipeline.WeightsInt64
	}
	if !pipeline.ValidWeights[weights] {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidWeights, "invalid weights: %q (must be one of: int64, decimal)", weights))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	t, err := pipeline.ReadTree(data, pipeline.Options{Weights: weights})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	canonical, err := t.Marshal()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode tree"))
		return
	}
	entry, err := json.Marshal(upload{Weights: weights, Tree: canonical})
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode upload"))
		return
	}

	id := uuid.NewString()
	if err := s.cfg.Runner.Cache.Set(ctx, s.cfg.Runner.Keyer.UploadKey(id), entry, cache.TTLUpload); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store tree"))
		return
	}
	observability.Cache().OnCacheSet(ctx, uploadKeyType, len(entry))

	w.Header().Set("Location", "/api/trees/"+id)
	writeJSON(w, http.StatusCreated, UploadResponse{ID: id, Root: t.Root(), Nodes: t.Len()})
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	t, err := s.loadUpload(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := t.Marshal()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode tree"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) deleteTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cfg.Runner.Cache.Delete(r.Context(), s.cfg.Runner.Keyer.UploadKey(id)); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete tree"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) layoutTree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts, err := s.layoutOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.loadUpload(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rects, err := s.cfg.Runner.ComputeLayout(ctx, t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	artifacts, err := s.cfg.Runner.Render(ctx, pipeline.Scene(rects), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(artifacts[format])
}

// layoutOptions builds pipeline options from the configured defaults and the
// query parameters of a layout request.
func (s *Server) layoutOptions(q url.Values) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Formats = []string{pipeline.FormatJSON}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"depth", &opts.MaxDepth},
		{"border", &opts.Border},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", p.name, v)
		}
		*p.dst = n
	}
	if v := q.Get("labels"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid labels: %q", v)
		}
		opts.NoLabels = !on
	}
	if v := q.Get("start"); v != "" {
		opts.Start = v
	}
	if v := q.Get("palette"); v != "" {
		opts.Palette = v
	}

	if err := opts.ValidateForLayout(); err != nil {
		return opts, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return opts, err
	}
	return opts, nil
}

// loadUpload reads an uploaded tree back from the cache.
func (s *Server) loadUpload(ctx context.Context, id string) (pipeline.Tree, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	hooks := observability.Cache()
	data, hit, err := s.cfg.Runner.Cache.Get(ctx, s.cfg.Runner.Keyer.UploadKey(id))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load tree %s", id)
	}
	if !hit {
		hooks.OnCacheMiss(ctx, uploadKeyType)
		return nil, errors.New(errors.ErrCodeNotFound, "tree %s not found", id)
	}
	hooks.OnCacheHit(ctx, uploadKeyType)

	var u upload
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode tree %s", id)
	}
	return pipeline.ReadTree(u.Tree, pipeline.Options{Weights: u.Weights})
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid tree id: %q", id)
	}
	return nil
}
