package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/jade/project"
)

const manifest = `
[project]
name = "demo"

[[sprite]]
name = "Cat"
source = """
when flag clicked
change x by [10]
say [hi]
"""

[[sprite]]
name = "Dog"
x = 50
direction = -90
source = """
when I receive [go]
move [5] steps
"""
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func defaults() options {
	return options{limit: time.Minute, tick: time.Millisecond}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]string
		opts   func(o *options)
		want   []string
		reject []string
	}{
		{
			name:  "fast forward",
			files: map[string]string{project.FileName: manifest},
			want: []string{
				"clock 50ms, 1 threads, 2 commands\n",
				"Cat: x=10 y=0 dir=90",
				`says "hi"`,
				"Dog: x=50 y=0 dir=-90",
			},
		},
		{
			name:  "broadcast after flag",
			files: map[string]string{project.FileName: manifest},
			opts:  func(o *options) { o.broadcast = "go" },
			want: []string{
				"2 threads, 3 commands",
				"Cat: x=10 y=0",
				"Dog: x=45 y=",
			},
		},
		{
			name:  "dump",
			files: map[string]string{project.FileName: manifest},
			opts:  func(o *options) { o.dump = true },
			want: []string{
				"sprite Cat\nwhen flag clicked\nchange x by [10]\nsay [hi]\n",
				"sprite Dog\nwhen I receive [go]\nmove [5] steps\n",
			},
			reject: []string{"clock", "Cat: x="},
		},
		{
			name: "tuning override",
			files: map[string]string{
				project.FileName: manifest,
				"fast.yaml":      "step_delay_ms: 20\n",
			},
			opts: func(o *options) { o.tuning = "fast.yaml" },
			want: []string{"clock 20ms, 1 threads, 2 commands\n"},
		},
		{
			name:  "trace",
			files: map[string]string{project.FileName: manifest},
			opts: func(o *options) {
				o.trace = true
				o.broadcast = "go"
			},
			want: []string{
				`broadcast "go" -> 1`,
				"Cat      #1 change x by [] 10\n",
				"Dog      #2 move [] steps 5\n",
			},
		},
		{
			name: "limit stops a long wait",
			files: map[string]string{project.FileName: `
[project]
name = "slow"

[[sprite]]
name = "Cat"
source = """
when flag clicked
wait [10] secs
change x by [1]
"""
`},
			opts: func(o *options) { o.limit = time.Second },
			want: []string{"clock 1s, 1 threads, 1 commands\n", "Cat: x=0 y=0"},
		},
		{
			name:  "realtime",
			files: map[string]string{project.FileName: manifest},
			opts:  func(o *options) { o.realtime = true },
			want:  []string{"Cat: x=10 y=0", "Dog: x=50 y=0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, tt.files)
			o := defaults()
			if tt.opts != nil {
				tt.opts(&o)
			}
			if o.tuning != "" {
				// The flag names a path, not a project-relative file.
				o.tuning = filepath.Join(dir, o.tuning)
			}
			var out bytes.Buffer
			if err := run(dir, o, &out); err != nil {
				t.Fatalf("run: %v", err)
			}
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, r := range tt.reject {
				if strings.Contains(got, r) {
					t.Errorf("output has %q:\n%s", r, got)
				}
			}
		})
	}
}

func TestRunFindsProjectAbove(t *testing.T) {
	dir := writeProject(t, map[string]string{project.FileName: manifest})
	sub := filepath.Join(dir, "assets", "sounds")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(sub, defaults(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cat: x=10") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		opts  options
		want  string
	}{
		{"no project", nil, defaults(), "no " + project.FileName},
		{"bad manifest", map[string]string{project.FileName: "[project\n"}, defaults(), project.FileName},
		{"missing tuning", map[string]string{project.FileName: manifest},
			options{limit: time.Minute, tuning: "/nonexistent/tuning.yaml"}, "tuning.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, tt.files)
			var out bytes.Buffer
			err := run(dir, tt.opts, &out)
			if err == nil {
				t.Fatalf("run succeeded:\n%s", out.String())
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
			if out.Len() != 0 {
				t.Errorf("wrote output on error: %q", out.String())
			}
		})
	}
}
