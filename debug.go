package jade

import (
	"fmt"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jade")

// debugStats holds per-frame draw timings. Only gathered in debug mode.
type debugStats struct {
	collectTime time.Duration
	submitTime  time.Duration
	drawCount   int
}

// debugLogEvery throttles frame statistics to one line per second at 60 TPS.
const debugLogEvery = 60

func (w *World) debugLog(stats debugStats) {
	if !w.debug || w.frame%debugLogEvery != 0 {
		return
	}
	log.Debugf("frame %d: collect %v | submit %v | draws %d | tweens %d",
		w.frame, stats.collectTime, stats.submitTime, stats.drawCount, len(w.tweens))
}

// debugCheckDisposed panics when a disposed morph is used in a tree
// operation. Only called in debug mode.
func debugCheckDisposed(m *Morph, op string) {
	if m.disposed {
		panic(fmt.Sprintf("jade debug: %s on disposed morph %q", op, m.Name))
	}
}

const debugMaxTreeDepth = 32

func debugCheckTreeDepth(m *Morph) {
	depth := 0
	for p := m; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		log.Warningf("tree depth %d exceeds %d (morph %q)", depth, debugMaxTreeDepth, m.Name)
	}
}

const debugMaxChildCount = 1000

func debugCheckChildCount(m *Morph) {
	if len(m.children) > debugMaxChildCount {
		log.Warningf("morph %q has %d children (threshold %d)", m.Name, len(m.children), debugMaxChildCount)
	}
}
