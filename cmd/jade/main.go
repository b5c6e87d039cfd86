// Command jade runs a block project without the editor window. It loads the
// jade.toml project found at or above the given directory, clicks the green
// flag and runs the scripts until every thread has finished, then prints the
// final state of each sprite.
//
//	jade [flags] [dir]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/phanxgames/jade/blocktext"
	"github.com/phanxgames/jade/engine"
	"github.com/phanxgames/jade/project"
	"github.com/phanxgames/jade/tuning"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("jade.cmd")

func main() {
	var (
		verbose   = flag.Int("v", 0, "log verbosity (0 = warnings, 1 = info, 2 = debug)")
		realtime  = flag.Bool("realtime", false, "run on the wall clock instead of fast-forwarding")
		limit     = flag.Duration("limit", time.Minute, "maximum clock time to run")
		tick      = flag.Duration("tick", 10*time.Millisecond, "clock tick in realtime mode")
		tunePath  = flag.String("tuning", "", "tuning YAML file (overrides the project's)")
		dump      = flag.Bool("dump", false, "print the loaded scripts and exit")
		trace     = flag.Bool("trace", false, "print every executed command")
		broadcast = flag.String("broadcast", "", "message to broadcast after the green flag")
	)
	flag.Parse()

	commonlog.Configure(*verbose, nil)

	dir := "."
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}
	if err := run(dir, options{
		realtime:  *realtime,
		limit:     *limit,
		tick:      *tick,
		tuning:    *tunePath,
		dump:      *dump,
		trace:     *trace,
		broadcast: *broadcast,
	}, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "jade:", err)
		os.Exit(1)
	}
}

type options struct {
	realtime  bool
	limit     time.Duration
	tick      time.Duration
	tuning    string
	dump      bool
	trace     bool
	broadcast string
}

// run loads the project at or above dir, runs it and writes the report to
// out.
func run(dir string, opts options, out io.Writer) error {
	m, err := project.FindAndLoad(dir)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("no %s found at or above %s", project.FileName, dir)
	}

	g, stage, err := m.Build()
	if err != nil {
		return err
	}
	if opts.dump {
		fmt.Fprint(out, blocktext.Format(g, stage.Names()))
		return nil
	}

	t, err := loadTuning(m, opts.tuning)
	if err != nil {
		return err
	}
	cfg := t.EngineConfig()
	e := engine.New(g, stage, cfg)
	if opts.trace {
		e.SetEventSink(func(ev engine.Event) { printEvent(out, ev) })
	}

	log.Infof("running %s (%d sprites, %d blocks)", m.Project.Name, len(stage.Sprites()), g.Len())
	e.Start()
	if opts.broadcast != "" {
		e.Broadcast(opts.broadcast)
	}

	if opts.realtime {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		ctx, cancelLimit := context.WithTimeout(ctx, opts.limit)
		defer cancelLimit()
		switch err := e.Run(ctx, opts.tick); {
		case err == nil, errors.Is(err, context.DeadlineExceeded):
		case errors.Is(err, context.Canceled):
			log.Info("interrupted")
		default:
			return err
		}
	} else {
		e.RunUntilIdle(opts.limit)
	}
	if !e.Idle() {
		log.Warningf("stopped after %v with %d threads still running", e.Now(), len(e.Threads()))
	}
	e.Stop()

	st := e.Stats()
	fmt.Fprintf(out, "clock %v, %d threads, %d commands\n", e.Now(), st.Spawned, st.Executed)
	for _, sp := range stage.Sprites() {
		printSprite(out, sp)
	}
	return nil
}

func loadTuning(m *project.Manifest, path string) (tuning.Tuning, error) {
	if path != "" {
		return tuning.Load(path)
	}
	return m.Tuning()
}

func printEvent(out io.Writer, ev engine.Event) {
	switch ev.Kind {
	case engine.EventCommand:
		fmt.Fprintf(out, "%8v  %-8s #%d %s %s\n", ev.Time, ev.Sprite, ev.Thread, ev.Op, strings.Join(ev.Args, " "))
	case engine.EventBroadcast:
		fmt.Fprintf(out, "%8v  broadcast %q -> %d\n", ev.Time, ev.Message, ev.Count)
	}
}

func printSprite(out io.Writer, sp *engine.Sprite) {
	vis := "shown"
	if !sp.Visible {
		vis = "hidden"
	}
	fmt.Fprintf(out, "%s: x=%g y=%g dir=%g size=%g%% %s", sp.Name, sp.X, sp.Y, sp.Direction, sp.Size, vis)
	if sp.Bubble.Text != "" {
		fmt.Fprintf(out, " says %q", sp.Bubble.Text)
	}
	fmt.Fprintln(out)
}
