package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a charm logger at debug level, and
// failures at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger. It implements all three hook
// interfaces.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnFramesStart(_ context.Context, cards, offsets int) {
	h.logger.Debug("frames start", "cards", cards, "offsets", offsets)
}

func (h *LogHooks) OnFramesComplete(_ context.Context, frames int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("frames failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("frames done", "frames", frames, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, bytes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "bytes", bytes, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("response", "method", method, "route", route, "status", status, "duration", d)
		return
	}
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
