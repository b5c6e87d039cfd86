package engine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/phanxgames/jade/blocks"
)

// execute applies one command to its thread's sprite and returns the delay
// before the thread's next step. Opcodes without an effect (hats met inside
// a chain, reporters, predicates, anything unknown) do nothing and return
// zero.
func (e *Engine) execute(c blocks.Command, t *Thread) time.Duration {
	sp := t.Sprite
	e.trace(t, c)

	switch c.Op {
	// Motion
	case blocks.OpMoveSteps:
		steps := e.num(c, 0)
		rad := sp.Direction * math.Pi / 180
		sp.X += steps * math.Sin(rad)
		sp.Y += steps * math.Cos(rad)
	case blocks.OpTurnRight:
		sp.Direction = wrapDirection(sp.Direction + e.num(c, 0))
	case blocks.OpTurnLeft:
		sp.Direction = wrapDirection(sp.Direction - e.num(c, 0))
	case blocks.OpGoTo:
		delete(e.glides, sp)
		sp.X, sp.Y = e.num(c, 0), e.num(c, 1)
	case blocks.OpGlide:
		d := e.seconds(e.num(c, 0))
		x, y := e.num(c, 1), e.num(c, 2)
		if d <= 0 {
			delete(e.glides, sp)
			sp.X, sp.Y = x, y
			return 0
		}
		e.glides[sp] = newGlide(sp, x, y, d)
		return d
	case blocks.OpPointInDirection:
		sp.Direction = wrapDirection(e.num(c, 0))
	case blocks.OpChangeX:
		sp.X += e.num(c, 0)
	case blocks.OpChangeY:
		sp.Y += e.num(c, 0)

	// Looks
	case blocks.OpSayFor:
		d := e.seconds(e.num(c, 1))
		sp.Bubble = Bubble{Text: e.text(c, 0), Timed: true, Until: e.now + d}
		log.Infof("%s says %q", sp.Name, sp.Bubble.Text)
		return d
	case blocks.OpSay:
		sp.Bubble = Bubble{Text: e.text(c, 0)}
		log.Infof("%s says %q", sp.Name, sp.Bubble.Text)
	case blocks.OpShow:
		sp.Visible = true
	case blocks.OpHide:
		sp.Visible = false
	case blocks.OpChangeSize:
		sp.Size = math.Max(0, sp.Size+e.num(c, 0))
	case blocks.OpSetSize:
		sp.Size = math.Max(0, e.num(c, 0))

	// Sound
	case blocks.OpPlaySound, blocks.OpPlaySoundUntilDone:
		log.Infof("%s plays sound %q", sp.Name, e.text(c, 0))
	case blocks.OpChangeVolume:
		sp.Volume = math.Min(100, math.Max(0, sp.Volume+e.num(c, 0)))

	// Events
	case blocks.OpBroadcast:
		e.Broadcast(e.text(c, 0))

	// Control
	case blocks.OpWait:
		return e.seconds(e.num(c, 0))
	case blocks.OpRepeat, blocks.OpForever, blocks.OpIf:
		// TODO: run the wrapped body once c-blocks can hold nested chains.
		log.Debugf("%s: %q has no body to run", sp.Name, c.Text)
	case blocks.OpStopAll:
		e.Stop()
	case blocks.OpStopThisScript:
		t.State = ThreadFinished

	// Variables
	case blocks.OpSetVariable:
		name, v := e.text(c, 0), c.Text(1, "")
		sp.Vars[name] = v
		t.Vars[name] = v
	case blocks.OpChangeVariable:
		name := e.text(c, 0)
		cur, err := strconv.ParseFloat(strings.TrimSpace(sp.Vars[name]), 64)
		if err != nil {
			cur = 0
		}
		v := strconv.FormatFloat(cur+e.num(c, 1), 'f', -1, 64)
		sp.Vars[name] = v
		t.Vars[name] = v
	}
	return 0
}

// num resolves numeric input i, falling back to the catalog default.
func (e *Engine) num(c blocks.Command, i int) float64 {
	def := 0.0
	if tmpl, ok := blocks.TemplateFor(c.Op); ok && i < len(tmpl.Inputs) {
		if v, err := strconv.ParseFloat(tmpl.Inputs[i].Default, 64); err == nil {
			def = v
		}
	}
	return c.Number(i, def)
}

// text resolves text input i, falling back to the catalog default.
func (e *Engine) text(c blocks.Command, i int) string {
	def := ""
	if tmpl, ok := blocks.TemplateFor(c.Op); ok && i < len(tmpl.Inputs) {
		def = tmpl.Inputs[i].Default
	}
	return c.Text(i, def)
}

// seconds converts script seconds to clock time. Negative values clamp to
// zero. Values too large for the clock saturate so that now plus the
// result stays representable.
func (e *Engine) seconds(secs float64) time.Duration {
	if !(secs > 0) {
		return 0
	}
	ceiling := time.Duration(math.MaxInt64) - e.now
	if d := secs * float64(e.cfg.SecondsScale); d < float64(ceiling) {
		return time.Duration(d)
	}
	return ceiling
}

func (e *Engine) trace(t *Thread, c blocks.Command) {
	if e.cfg.Trace {
		log.Infof("[%v] %s#%d: %s %v", e.now, t.Sprite.Name, t.ID, c.Op, c.Args)
		return
	}
	log.Debugf("[%v] %s#%d: %s %v", e.now, t.Sprite.Name, t.ID, c.Op, c.Args)
}
