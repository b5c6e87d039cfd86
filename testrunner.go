package jade

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// testStep is one action in a test script.
type testStep struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	Key    string  `yaml:"key,omitempty"`
	Text   string  `yaml:"text,omitempty"`
}

type testScript struct {
	Steps []testStep `yaml:"steps"`
}

var knownActions = map[string]bool{
	"click": true, "drag": true, "wait": true, "key": true, "type": true,
}

// TestRunner sequences injected input across frames so that an editor
// session can be replayed without a person at the keyboard. Attach it to a
// World via SetTestRunner.
//
//	steps:
//	  - {action: drag, fromX: 60, fromY: 160, toX: 400, toY: 200, frames: 6}
//	  - {action: click, x: 800, y: 400}
//	  - {action: wait, frames: 30}
//	  - {action: key, key: space}
//	  - {action: type, text: "42"}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a YAML test script.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i+1, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a runner. It is stepped from Update before input is
// processed.
func (w *World) SetTestRunner(runner *TestRunner) {
	w.testRunner = runner
}

// Done reports whether every step has been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. A step is taken only once the
// inject queue has drained.
func (r *TestRunner) step(w *World) {
	if r.done || len(w.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		w.InjectClick(st.X, st.Y)
	case "drag":
		w.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "key":
		w.InjectKey(st.Key)
	case "type":
		w.InjectText(st.Text)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(w.injectQueue) == 0 {
		r.done = true
	}
}
