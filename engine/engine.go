package engine

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/phanxgames/jade/blocks"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jade.engine")

// Stats counts engine activity since construction.
type Stats struct {
	Spawned    uint64
	Executed   uint64
	Broadcasts uint64
}

// Engine schedules and runs the scripts found in a block graph against the
// sprites of a stage.
type Engine struct {
	graph *blocks.Graph
	stage *Stage
	cfg   Config

	now     time.Duration
	running bool
	ast     blocks.AST

	threads    []*Thread
	stepping   bool
	queue      stepQueue
	seq        uint64
	nextThread ThreadID
	glides     map[*Sprite]*glide

	stats Stats
	sink  EventSink
}

// New creates a stopped engine. Zero Config fields take their defaults.
func New(g *blocks.Graph, stage *Stage, cfg Config) *Engine {
	return &Engine{
		graph:  g,
		stage:  stage,
		cfg:    cfg.withDefaults(),
		glides: make(map[*Sprite]*glide),
	}
}

// Graph returns the block graph the engine reads scripts from.
func (e *Engine) Graph() *blocks.Graph { return e.graph }

// Stage returns the engine's stage.
func (e *Engine) Stage() *Stage { return e.stage }

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Now returns the virtual clock.
func (e *Engine) Now() time.Duration { return e.now }

// Running reports whether the engine accepts new threads.
func (e *Engine) Running() bool { return e.running }

// Stats returns the activity counters.
func (e *Engine) Stats() Stats { return e.stats }

// SetEventSink installs fn as the event observer. nil removes it.
func (e *Engine) SetEventSink(fn EventSink) { e.sink = fn }

// Threads returns the live threads in spawn order.
func (e *Engine) Threads() []*Thread {
	out := make([]*Thread, len(e.threads))
	copy(out, e.threads)
	return out
}

// Pending returns the number of scheduled steps.
func (e *Engine) Pending() int { return e.queue.Len() }

// NextStep returns the clock time of the earliest scheduled step.
func (e *Engine) NextStep() (time.Duration, bool) {
	s, ok := e.queue.peek()
	return s.due, ok
}

// Idle reports whether nothing is scheduled and no sprite is gliding.
func (e *Engine) Idle() bool {
	return e.queue.Len() == 0 && len(e.glides) == 0
}

func (e *Engine) emit(ev Event) {
	if e.sink == nil {
		return
	}
	ev.Time = e.now
	e.sink(ev)
}

// Start resets the program and fires the green flag: every thread is
// stopped, sprite variables are cleared, scripts are extracted afresh from
// the graph and one thread is spawned per flag hat. It returns the number
// of threads spawned.
func (e *Engine) Start() int {
	e.Stop()
	for _, sp := range e.stage.Sprites() {
		sp.Vars = make(map[string]string)
	}
	e.ast = blocks.Extract(e.graph, e.stage.Names())
	e.running = true

	n := e.fire(func(t blocks.Trigger) bool { return t.Kind == blocks.TriggerFlag }, "")
	log.Infof("started: %d thread(s)", n)
	e.emit(Event{Kind: EventStart, Count: n})
	return n
}

// Stop halts every thread and drops all pending steps. New threads are
// refused until Start. Stopping a stopped engine does nothing.
func (e *Engine) Stop() {
	for _, t := range e.threads {
		t.State = ThreadStopped
		e.emit(Event{Kind: EventThreadStopped, Thread: t.ID, Sprite: t.Sprite.Name})
	}
	e.threads = nil
	e.queue = e.queue[:0]
	clear(e.glides)
	if e.running {
		e.running = false
		log.Info("stopped")
		e.emit(Event{Kind: EventStop})
	}
}

// KeyPressed spawns a thread for every "when [] key pressed" script
// listening for key. Key names compare case-insensitively.
func (e *Engine) KeyPressed(key string) int {
	return e.fire(func(t blocks.Trigger) bool {
		return t.Kind == blocks.TriggerKey && strings.EqualFold(t.Arg, key)
	}, "")
}

// SpriteClicked spawns a thread for every "when this sprite clicked" script
// of the named sprite.
func (e *Engine) SpriteClicked(name string) int {
	if name == "" {
		return 0
	}
	return e.fire(func(t blocks.Trigger) bool {
		return t.Kind == blocks.TriggerSpriteClick
	}, name)
}

// fire spawns threads for the scripts extracted at Start whose trigger
// matches. A non-empty sprite restricts the search to that sprite.
func (e *Engine) fire(match func(blocks.Trigger) bool, sprite string) int {
	if !e.running {
		return 0
	}
	n := 0
	for _, sp := range e.stage.Sprites() {
		if sprite != "" && sp.Name != sprite {
			continue
		}
		for _, sc := range e.ast[sp.Name] {
			if match(sc.Trigger) && e.spawn(sp, sc) != nil {
				n++
			}
		}
	}
	return n
}

// spawn registers a thread and schedules its first step. Outside of a step
// the first step is due immediately and runs on the next Advance. A thread
// spawned by a running command waits one step delay, so a script that
// broadcasts to itself cannot spin forever at a single clock instant.
func (e *Engine) spawn(sp *Sprite, sc blocks.Script) *Thread {
	if !e.running || sp == nil {
		return nil
	}
	e.nextThread++
	t := &Thread{
		ID:       e.nextThread,
		Sprite:   sp,
		Hat:      sc.Hat,
		Trigger:  sc.Trigger,
		Commands: sc.Commands,
		State:    ThreadRunning,
		Vars:     make(map[string]string),
	}
	e.threads = append(e.threads, t)
	e.stats.Spawned++
	due := e.now
	if e.stepping {
		due += e.cfg.StepDelay
	}
	e.schedule(t, due)
	log.Debugf("thread %d: %s on %s (%d commands)", t.ID, t.Trigger, sp.Name, len(t.Commands))
	e.emit(Event{Kind: EventThreadStarted, Thread: t.ID, Sprite: sp.Name, Hat: t.Hat})
	return t
}

func (e *Engine) schedule(t *Thread, due time.Duration) {
	e.seq++
	e.queue.push(step{due: due, seq: e.seq, thread: t})
}

// step runs one command of t and schedules the next.
func (e *Engine) step(t *Thread) {
	if !t.Active() {
		return
	}
	if t.Cursor >= len(t.Commands) {
		e.finish(t)
		return
	}
	cmd := t.Commands[t.Cursor]
	e.stepping = true
	delay := e.execute(cmd, t)
	e.stepping = false
	e.stats.Executed++
	e.emit(Event{Kind: EventCommand, Thread: t.ID, Sprite: t.Sprite.Name, Op: cmd.Op, Args: cmd.Args})
	t.Cursor++

	if t.State == ThreadFinished || t.Cursor >= len(t.Commands) {
		e.finish(t)
		return
	}
	if !t.Active() {
		return
	}
	if delay <= 0 {
		delay = e.cfg.StepDelay
	}
	e.schedule(t, saturatingAdd(e.now, delay))
}

// saturatingAdd returns now+d, pinned at the largest clock time.
func saturatingAdd(now, d time.Duration) time.Duration {
	if d > time.Duration(math.MaxInt64)-now {
		return time.Duration(math.MaxInt64)
	}
	return now + d
}

// finish marks t finished and drops it from the thread table.
func (e *Engine) finish(t *Thread) {
	t.State = ThreadFinished
	for i, cur := range e.threads {
		if cur == t {
			e.threads = append(e.threads[:i], e.threads[i+1:]...)
			break
		}
	}
	log.Debugf("thread %d finished", t.ID)
	e.emit(Event{Kind: EventThreadFinished, Thread: t.ID, Sprite: t.Sprite.Name})
}

// Advance moves the clock forward by dt, running every step that falls due
// in (due, scheduling) order. Glides and speech bubbles follow the clock.
func (e *Engine) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := saturatingAdd(e.now, dt)
	for {
		s, ok := e.queue.peek()
		if !ok || s.due > target {
			break
		}
		e.queue.pop()
		if s.due > e.now {
			e.tick(s.due - e.now)
		}
		e.step(s.thread)
	}
	if target > e.now {
		e.tick(target - e.now)
	}
}

// tick moves the clock by dt without running steps.
func (e *Engine) tick(dt time.Duration) {
	e.now += dt
	for sp, g := range e.glides {
		g.update(dt)
		if g.done {
			delete(e.glides, sp)
		}
	}
	for _, sp := range e.stage.Sprites() {
		if sp.Bubble.Timed && sp.Bubble.Until <= e.now {
			sp.Bubble = Bubble{}
		}
	}
}

// nextWake returns the clock time of the next step or glide landing.
func (e *Engine) nextWake() (time.Duration, bool) {
	wake, ok := e.NextStep()
	for _, g := range e.glides {
		at := e.now + g.remaining()
		if !ok || at < wake {
			wake, ok = at, true
		}
	}
	return wake, ok
}

// RunUntilIdle fast-forwards the clock until the engine is idle or limit
// clock time has elapsed, and returns the clock time consumed.
func (e *Engine) RunUntilIdle(limit time.Duration) time.Duration {
	start := e.now
	deadline := saturatingAdd(e.now, limit)
	for {
		wake, ok := e.nextWake()
		if !ok {
			break
		}
		if wake > deadline {
			e.Advance(deadline - e.now)
			break
		}
		e.Advance(wake - e.now)
	}
	return e.now - start
}

// Run drives the clock in real time, advancing by the wall time elapsed at
// every tick, until the engine goes idle or ctx ends.
func (e *Engine) Run(ctx context.Context, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	last := time.Now()
	for !e.Idle() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			e.Advance(now.Sub(last))
			last = now
		}
	}
	return nil
}

// ThreadsFor returns the live threads of the named sprite, by ID.
func (e *Engine) ThreadsFor(sprite string) []*Thread {
	var out []*Thread
	for _, t := range e.threads {
		if t.Sprite.Name == sprite {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
