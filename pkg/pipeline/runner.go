package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardfan/pkg/cache"
	"github.com/matzehuels/cardfan/pkg/deck"
	"github.com/matzehuels/cardfan/pkg/fan"
	"github.com/matzehuels/cardfan/pkg/observability"
	"github.com/matzehuels/cardfan/pkg/render"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute loads the deck, computes the frames and renders every frame in
// every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	d, err := LoadDeck(opts)
	if err != nil {
		return nil, err
	}
	offsets, err := opts.ResolveOffsets(d.Geometry())
	if err != nil {
		return nil, err
	}

	result := &Result{Stats: Stats{Cards: len(d.Cards)}}
	result.DeckHash, err = DeckHash(d)
	if err != nil {
		return nil, err
	}

	frameStart := time.Now()
	frames, hit, err := r.FramesWithCacheInfo(ctx, d, offsets, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("frames: %w", err)
	}
	result.Frames = frames
	result.Stats.Frames = len(frames)
	result.Stats.FrameTime = time.Since(frameStart)
	result.CacheInfo.FramesHit = hit

	r.Logger.Info("computed frames",
		"cards", len(d.Cards),
		"frames", len(frames),
		"duration", result.Stats.FrameTime)

	renderStart := time.Now()
	result.Artifacts = make([]map[string][]byte, len(frames))
	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		artifacts, hit, err := r.RenderFrameWithCacheInfo(ctx, frame, d, opts)
		if err != nil {
			return nil, fmt.Errorf("render frame %d: %w", i, err)
		}
		if hit {
			result.CacheInfo.RenderHits++
		}
		for _, data := range artifacts {
			result.Stats.Bytes += len(data)
		}
		result.Artifacts[i] = artifacts
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered frames",
		"formats", opts.Formats,
		"bytes", result.Stats.Bytes,
		"cached", result.CacheInfo.RenderHits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadDeck returns the deck named by the options, or the sample deck.
func LoadDeck(opts Options) (*deck.Deck, error) {
	switch {
	case opts.DeckSource != "":
		return deck.Parse([]byte(opts.DeckSource))
	case opts.DeckPath != "":
		return deck.Load(opts.DeckPath)
	default:
		return deck.Sample(), nil
	}
}

// DeckHash hashes the canonical TOML encoding of d.
func DeckHash(d *deck.Deck) (string, error) {
	data, err := d.Bytes()
	if err != nil {
		return "", fmt.Errorf("encode deck: %w", err)
	}
	return cache.Hash(data), nil
}

// ComputeFrames feeds offsets through a fresh engine in order. Offsets the
// engine ignores (a zero card size) produce no frame.
func ComputeFrames(d *deck.Deck, offsets []float64) ([]fan.Frame, error) {
	engine, err := fan.NewEngine(d.FanConfig())
	if err != nil {
		return nil, err
	}
	geo := d.Geometry()
	if err := engine.Layout(geo.Count, geo.SurfaceWidth, geo.SurfaceOriginX); err != nil {
		return nil, err
	}
	frames := make([]fan.Frame, 0, len(offsets))
	for _, off := range offsets {
		if frame, ok := engine.Update(off); ok {
			frames = append(frames, frame)
		}
	}
	return frames, nil
}

// FramesWithCacheInfo computes the frames for offsets with caching and
// reports whether they came from the cache.
func (r *Runner) FramesWithCacheInfo(ctx context.Context, d *deck.Deck, offsets []float64, refresh bool) ([]fan.Frame, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnFramesStart(ctx, len(d.Cards), len(offsets))
	start := time.Now()

	deckHash, err := DeckHash(d)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.FrameKey(deckHash, cache.FrameKeyOpts{Offsets: offsets})

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var frames []fan.Frame
			if err := json.Unmarshal(data, &frames); err == nil {
				observability.Cache().OnCacheHit(ctx, "frames")
				hooks.OnFramesComplete(ctx, len(frames), time.Since(start), nil)
				return frames, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("frame cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "frames")
	}

	frames, err := ComputeFrames(d, offsets)
	hooks.OnFramesComplete(ctx, len(frames), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(frames); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLFrames); err != nil {
			r.Logger.Warn("frame cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "frames", len(data))
		}
	}
	return frames, false, nil
}

// Frames is FramesWithCacheInfo without the cache report.
func (r *Runner) Frames(ctx context.Context, d *deck.Deck, offsets []float64) ([]fan.Frame, error) {
	frames, _, err := r.FramesWithCacheInfo(ctx, d, offsets, false)
	return frames, err
}

// RenderFrameWithCacheInfo renders one frame in every format of opts and
// reports whether all of them came from the cache.
func (r *Runner) RenderFrameWithCacheInfo(ctx context.Context, frame fan.Frame, d *deck.Deck, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	frameHash, err := FrameHash(frame, d)
	if err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered, err := RenderFrame(ctx, frame, d, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// RenderFrame renders one frame in every format of opts without caching.
func RenderFrame(ctx context.Context, frame fan.Frame, d *deck.Deck, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	renderOpts, err := opts.RenderOptions()
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	total := 0
	for _, format := range opts.Formats {
		data, err := render.Render(format, frame, d, renderOpts...)
		if err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			hooks.OnRenderComplete(ctx, opts.Formats, total, time.Since(start), err)
			return nil, err
		}
		artifacts[format] = data
		total += len(data)
	}
	hooks.OnRenderComplete(ctx, opts.Formats, total, time.Since(start), nil)
	return artifacts, nil
}

// FrameHash identifies a frame of a deck. Card colors and labels live in the
// deck, so both go into the hash.
func FrameHash(frame fan.Frame, d *deck.Deck) (string, error) {
	deckHash, err := DeckHash(d)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	return cache.Hash(append([]byte(deckHash), data...)), nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
