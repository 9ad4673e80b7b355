package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sankeyflow/pkg/buildinfo"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/examples"
	flowio "github.com/matzehuels/sankeyflow/pkg/io"
	"github.com/matzehuels/sankeyflow/pkg/palette"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// Response headers describing how a result was produced.
const (
	CacheHeader     = "X-Cache"
	GraphHashHeader = "X-Graph-Hash"
)

// request is the body of /v1/layout and /v1/render.
type request struct {
	Data    json.RawMessage  `json:"data"`
	Format  string           `json:"format,omitempty"`
	Options pipeline.Options `json:"options"`
}

// decode reads the request body into pipeline options seeded from the
// server defaults. Slices and pointers are copied first since decoding
// writes through them. The options are not yet validated.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	req := request{Options: s.defaults}
	req.Options.Formats = slices.Clone(s.defaults.Formats)
	req.Options.Style.Colors = slices.Clone(s.defaults.Style.Colors)
	if f := s.defaults.Frame; f != nil {
		fc := *f
		req.Options.Frame = &fc
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return pipeline.Options{}, err
		}
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body").
			WithSuggestion(`send a JSON object such as {"data": "source,target,value\nA,B,10"}`)
	}

	opts := req.Options
	data, isObject, err := requestData(req.Data)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.Data = data
	if req.Format != "" {
		opts.Format = flowio.Format(strings.ToLower(strings.TrimSpace(req.Format)))
	}
	if isObject {
		if opts.Format != "" && opts.Format != flowio.FormatJSON {
			return pipeline.Options{}, badRequest("data is a JSON object but format is %q", opts.Format)
		}
		opts.Format = flowio.FormatJSON
	}
	return opts, nil
}

// requestData extracts the input text. A JSON string carries text in any
// supported format; a JSON object is a graph document.
func requestData(raw json.RawMessage) ([]byte, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false, errors.Parse("input is empty").
			WithSuggestion(`set "data" to JSON, CSV or TSV text`)
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid data string")
		}
		return []byte(text), false, nil
	case '{':
		return trimmed, true, nil
	}
	return nil, false, badRequest("data must be a string or a JSON object")
}

// =============================================================================
// Info endpoints
// =============================================================================

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	ids := palette.Schemes()
	out := make([]palette.Palette, 0, len(ids))
	for _, id := range ids {
		if p, ok := palette.Scheme(id); ok {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

// =============================================================================
// Examples
// =============================================================================

type exampleSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Nodes       int    `json:"nodes"`
	Links       int    `json:"links"`
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	all := examples.All()
	out := make([]exampleSummary, 0, len(all))
	for _, ex := range all {
		g, err := ex.Graph()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, exampleSummary{
			ID:          ex.ID,
			Name:        ex.Name,
			Description: ex.Description,
			Nodes:       g.NodeCount(),
			Links:       g.EdgeCount(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	ex, err := examples.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := flowio.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		if format, err = flowio.ParseFormat(q); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	text, err := ex.Text(format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", dataContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// =============================================================================
// Layout and render
// =============================================================================

type layoutResult struct {
	geom *pipeline.Geometry
	hit  bool
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	g, _, err := s.runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash := pipeline.GraphHash(g)

	// Identical concurrent requests share one computation. The shared call
	// must not be cancelled by whichever caller arrived first.
	key := s.runner.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	if f := opts.Frame; f != nil {
		key += fmt.Sprintf("|frame=%g,%g,%g,%g,%g", f.Width, f.Height, f.X, f.Y, opts.FrameMargin)
	}
	v, err, shared := s.layouts.Do(key, func() (any, error) {
		geom, hit, err := s.runner.LayoutWithCacheInfo(context.WithoutCancel(ctx), g, opts)
		return layoutResult{geom: geom, hit: hit}, err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res := v.(layoutResult)
	if shared {
		s.logger.Debug("shared layout computation", "id", RequestIDFromContext(ctx), "graph", hash[:12])
	}

	w.Header().Set(CacheHeader, cacheStatus(res.hit))
	w.Header().Set(GraphHashHeader, hash)
	writeJSON(w, http.StatusOK, res.geom.Payload)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", artifactContentType(format))
	w.Header().Set(CacheHeader, cacheStatus(result.CacheInfo.RenderHit))
	w.Header().Set(GraphHashHeader, result.GraphHash)
	if format == pipeline.FormatPNG || format == pipeline.FormatPDF {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="sankey%s"`, pipeline.Extension(format)))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func artifactContentType(format string) string {
	switch format {
	case pipeline.FormatSVG, pipeline.FormatNodelink:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	}
	return "application/octet-stream"
}

func dataContentType(format flowio.Format) string {
	switch format {
	case flowio.FormatCSV:
		return "text/csv; charset=utf-8"
	case flowio.FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	}
	return "application/json"
}
