package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cardfan/pkg/buildinfo"
	apperrors "github.com/matzehuels/cardfan/pkg/errors"
	"github.com/matzehuels/cardfan/pkg/fan"
	"github.com/matzehuels/cardfan/pkg/pipeline"
	"github.com/matzehuels/cardfan/pkg/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deck)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := render.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.renderOptions(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := s.offset(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	frames, _, err := s.runner.FramesWithCacheInfo(ctx, s.deck, []float64{offset}, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(frames) == 0 {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeUnsupported, "deck has a zero card size, nothing to render"))
		return
	}
	artifacts, hit, err := s.runner.RenderFrameWithCacheInfo(ctx, frames[0], s.deck, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Cache-Control", "no-cache")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

type framesResponse struct {
	PageWidth float64      `json:"page_width"`
	Geometry  fan.Geometry `json:"geometry"`
	Frames    []fan.Frame  `json:"frames"`
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tl := &pipeline.Timeline{From: 0, To: 1, Easing: q.Get("easing")}
	var err error
	if tl.From, err = intParam(q.Get("from"), tl.From); err != nil {
		s.writeError(w, r, err)
		return
	}
	if tl.To, err = intParam(q.Get("to"), tl.To); err != nil {
		s.writeError(w, r, err)
		return
	}
	if tl.Steps, err = intParam(q.Get("steps"), pipeline.DefaultSteps); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{Timeline: tl}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	geo := s.deck.Geometry()
	offsets, err := opts.ResolveOffsets(geo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	frames, err := s.runner.Frames(r.Context(), s.deck, offsets)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, framesResponse{PageWidth: geo.PageWidth, Geometry: geo, Frames: frames})
}

// renderOptions layers the request's query over the server defaults.
func (s *Server) renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.defaults
	opts.Formats = []string{format}
	opts.Offsets, opts.Pages, opts.Timeline = nil, nil, nil
	opts.Logger = s.logger

	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("background"); v != "" {
		opts.Background = v
	}
	if v := q.Get("labels"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, apperrors.New(apperrors.ErrCodeInvalidInput, "labels must be a boolean, got %q", v)
		}
		opts.Labels = b
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, apperrors.New(apperrors.ErrCodeInvalidInput, "scale must be a number, got %q", v)
		}
		opts.Scale = f
	}
	opts.SetRenderDefaults()
	return opts, opts.ValidateForRender()
}

// offset reads ?offset= in points or ?page= in pages. Without either the
// fan is at rest on the first card.
func (s *Server) offset(r *http.Request) (float64, error) {
	q := r.URL.Query()
	if v := q.Get("offset"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, apperrors.New(apperrors.ErrCodeInvalidOffset, "offset must be a number, got %q", v)
		}
		return f, apperrors.ValidateOffset(f)
	}
	if v := q.Get("page"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, apperrors.New(apperrors.ErrCodeInvalidOffset, "page must be a number, got %q", v)
		}
		if err := apperrors.ValidateOffset(f); err != nil {
			return 0, err
		}
		return f * s.deck.Geometry().PageWidth, nil
	}
	return 0, nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "expected an integer, got %q", v)
	}
	return n, nil
}

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{
		Error:     string(code),
		Message:   apperrors.UserMessage(err),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func statusFor(err error) int {
	if apperrors.IsValidation(err) {
		return http.StatusBadRequest
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
