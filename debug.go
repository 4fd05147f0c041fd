package geonet

import (
	"log/slog"
	"time"
)

// globalDebug enables extra tree checks. Set through Map.SetDebugMode.
var globalDebug bool

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Map.debug is true.
type debugStats struct {
	traverseTime time.Duration
	sortTime     time.Duration
	submitTime   time.Duration
	commandCount int
	vertexCount  int
	batchCount   int
}

// debugLog writes timing and draw-call stats at debug level.
func (m *Map) debugLog(stats debugStats) {
	if !m.debug {
		return
	}
	m.log.Debug("frame",
		slog.Duration("traverse", stats.traverseTime),
		slog.Duration("sort", stats.sortTime),
		slog.Duration("submit", stats.submitTime),
		slog.Duration("total", stats.traverseTime+stats.sortTime+stats.submitTime),
		slog.Int("commands", stats.commandCount),
		slog.Int("vertices", stats.vertexCount),
		slog.Int("batches", stats.batchCount),
	)
}

// debugMaxTreeDepth is the depth past which debugCheckTreeDepth warns.
const debugMaxTreeDepth = 16

func debugCheckTreeDepth(l *Layer) {
	depth := 0
	for p := l; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		slog.Warn("layer tree is unusually deep",
			slog.Int("depth", depth),
			slog.Int("threshold", debugMaxTreeDepth),
			slog.String("layer", l.Name),
		)
	}
}
