// Package sandbox runs untrusted Python snippets in an isolated
// subprocess: a static deny-list scan first, then execution under a
// stripped environment, a fresh working directory and a hard timeout.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/observability"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// resultMarker prefixes the single stdout line carrying the harness
// result JSON.
const resultMarker = "__SANDBOX_RESULT__"

// Limits bounds one sandbox run. CPU and memory ceilings are carried
// for the runner; the timeout and output cap are enforced here.
type Limits struct {
	MaxCPUSeconds int
	MaxMemoryMB   int
	MaxOutputKB   int
	Timeout       time.Duration
	AllowNetwork  bool
}

// DefaultLimits returns the standard execution budget.
func DefaultLimits() Limits {
	return Limits{
		MaxCPUSeconds: 10,
		MaxMemoryMB:   256,
		MaxOutputKB:   1024,
		Timeout:       30 * time.Second,
	}
}

// Result is the outcome of one sandbox run.
type Result struct {
	Success   bool
	Output    any
	Stdout    string
	Stderr    string
	Error     string
	ElapsedMS int64
}

// denyPattern pairs a forbidden substring with its rejection message.
// The scan is a coarse filter: it runs on lowercased source and accepts
// known false positives (an identifier like "photos.count" trips the
// "os." pattern) in exchange for never spawning a process for code
// that names a forbidden capability. Specific import patterns come
// before their prefix patterns so the message stays precise.
type denyPattern struct {
	substring string
	message   string
}

var denyList = []denyPattern{
	{"import os", "Direct os import not allowed"},
	{"import sys", "Direct sys import not allowed"},
	{"subprocess", "subprocess not allowed"},
	{"socket", "socket access not allowed"},
	{"shutil", "shutil not allowed"},
	{"pathlib", "pathlib not allowed"},
	{"import requests", "requests import not allowed"},
	{"import urllib", "urllib import not allowed"},
	{"import http", "http import not allowed"},
	{"__import__", "__import__ not allowed"},
	{"eval(", "eval not allowed"},
	{"exec(", "exec not allowed"},
	{"compile(", "compile not allowed"},
	{"open(", "open() not allowed - use provided data"},
	{"file(", "file() not allowed"},
	{"globals(", "globals() not allowed"},
	{"locals(", "locals() not allowed"},
	{"getattr(", "getattr() not allowed"},
	{"setattr(", "setattr() not allowed"},
	{"delattr(", "delattr() not allowed"},
	{"os.", "os access not allowed"},
	{"sys.", "sys access not allowed"},
}

// CheckSafety scans code against the deny list. A match returns an
// error wrapping domain.ErrSandbox; nil means the code may run.
func CheckSafety(code string) error {
	lower := strings.ToLower(code)
	for _, p := range denyList {
		if strings.Contains(lower, p.substring) {
			return fmt.Errorf("%w: Code safety check failed: %s", domain.ErrSandbox, p.message)
		}
	}
	return nil
}

// Sandbox executes snippets with python subprocesses.
type Sandbox struct {
	python    string
	available bool
	defaults  Limits
	now       func() time.Time
}

// New locates python3 with the standard execution budget.
func New() *Sandbox {
	return NewWithConfig("", DefaultLimits())
}

// NewWithConfig locates the given interpreter (empty means python3) and
// pins the instance's default limits; zero limit fields take the
// DefaultLimits values. A missing interpreter leaves the sandbox
// constructed but unavailable; every run then fails cleanly instead of
// taking the service down.
func NewWithConfig(python string, defaults Limits) *Sandbox {
	std := DefaultLimits()
	if defaults.MaxCPUSeconds <= 0 {
		defaults.MaxCPUSeconds = std.MaxCPUSeconds
	}
	if defaults.MaxMemoryMB <= 0 {
		defaults.MaxMemoryMB = std.MaxMemoryMB
	}
	if defaults.MaxOutputKB <= 0 {
		defaults.MaxOutputKB = std.MaxOutputKB
	}
	if defaults.Timeout <= 0 {
		defaults.Timeout = std.Timeout
	}
	if python == "" {
		python = "python3"
	}

	s := &Sandbox{defaults: defaults, now: time.Now}
	path, err := exec.LookPath(python)
	if err != nil {
		slog.Warn("python not found, sandbox unavailable",
			slog.String("python", python), slog.Any("error", err))
		return s
	}
	s.python = path
	s.available = true
	slog.Info("sandbox initialized", slog.String("python", path))
	return s
}

// Available reports whether the interpreter was found.
func (s *Sandbox) Available() bool { return s.available }

// Defaults returns the instance's default limits.
func (s *Sandbox) Defaults() Limits { return s.defaults }

// harnessResult is the JSON the wrapper prints after the marker.
type harnessResult struct {
	Success bool    `json:"success"`
	Output  any     `json:"output"`
	Error   *string `json:"error"`
}

// Execute runs code with inputs exposed as the `inputs` variable. The
// snippet communicates its result by assigning `__result__`.
func (s *Sandbox) Execute(ctx context.Context, code string, inputs map[string]any, limits Limits) Result {
	start := s.now()
	if err := CheckSafety(code); err != nil {
		observability.ObserveSandbox("rejected")
		return Result{
			Error:     strings.TrimPrefix(err.Error(), domain.ErrSandbox.Error()+": "),
			ElapsedMS: s.now().Sub(start).Milliseconds(),
		}
	}
	if !s.available {
		observability.ObserveSandbox("unavailable")
		return Result{Error: "Sandbox not available"}
	}

	wrapper, err := buildWrapper(code, inputs)
	if err != nil {
		observability.ObserveSandbox("error")
		return Result{Error: err.Error(), ElapsedMS: s.now().Sub(start).Milliseconds()}
	}

	if limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limits.Timeout)
		defer cancel()
	}

	workDir, err := os.MkdirTemp("", "sandbox-*")
	if err != nil {
		observability.ObserveSandbox("error")
		return Result{Error: fmt.Sprintf("op=sandbox.Execute: %v", err), ElapsedMS: s.now().Sub(start).Milliseconds()}
	}
	defer os.RemoveAll(workDir)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.python, "-c", wrapper)
	cmd.Dir = workDir
	cmd.Env = []string{
		"PATH=" + os.Getenv("PATH"),
		"PYTHONPATH=",
		"PYTHONDONTWRITEBYTECODE=1",
	}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	elapsed := s.now().Sub(start).Milliseconds()
	outStr := capOutput(stdout.String(), limits.MaxOutputKB)
	errStr := capOutput(stderr.String(), limits.MaxOutputKB)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		observability.ObserveSandbox("timeout")
		return Result{
			Error:     fmt.Sprintf("Execution timeout after %ds", int(limits.Timeout.Seconds())),
			Stdout:    outStr,
			Stderr:    errStr,
			ElapsedMS: elapsed,
		}
	}

	if res, ok := parseMarker(outStr, errStr, elapsed); ok {
		if res.Success {
			observability.ObserveSandbox("ok")
		} else {
			observability.ObserveSandbox("error")
		}
		return res
	}

	// No marker: fall back to the process exit status.
	if runErr != nil {
		observability.ObserveSandbox("error")
		return Result{
			Error:     tail(errStr, 2048),
			Stdout:    outStr,
			Stderr:    errStr,
			ElapsedMS: elapsed,
		}
	}
	observability.ObserveSandbox("ok")
	return Result{
		Success:   true,
		Output:    outStr,
		Stdout:    outStr,
		Stderr:    errStr,
		ElapsedMS: elapsed,
	}
}

// buildWrapper embeds the snippet in the I/O harness. Inputs are
// injected as a JSON string literal; double encoding makes the payload
// a valid Python string literal.
func buildWrapper(code string, inputs map[string]any) (string, error) {
	if inputs == nil {
		inputs = map[string]any{}
	}
	payload, err := json.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("op=sandbox.buildWrapper: %w", err)
	}
	literal, err := json.Marshal(string(payload))
	if err != nil {
		return "", fmt.Errorf("op=sandbox.buildWrapper: %w", err)
	}

	var b strings.Builder
	b.WriteString("import json\n\n")
	b.WriteString("inputs = json.loads(")
	b.Write(literal)
	b.WriteString(")\n")
	b.WriteString("__result__ = None\n")
	b.WriteString("__error__ = None\n\n")
	b.WriteString("try:\n")
	b.WriteString(indent(code, 4))
	b.WriteString("\n    if __result__ is None:\n")
	b.WriteString("        __result__ = {\"status\": \"completed\"}\n")
	b.WriteString("except Exception as e:\n")
	b.WriteString("    __error__ = str(e)\n\n")
	b.WriteString("print(\"" + resultMarker + "\" + json.dumps({\"success\": __error__ is None, \"output\": __result__, \"error\": __error__}))\n")
	return b.String(), nil
}

func indent(code string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}

// parseMarker extracts the harness result line from stdout. Everything
// before the marker line is user print output.
func parseMarker(stdout, stderr string, elapsed int64) (Result, bool) {
	idx := strings.LastIndex(stdout, resultMarker)
	if idx < 0 {
		return Result{}, false
	}
	line := stdout[idx+len(resultMarker):]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	var hr harnessResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &hr); err != nil {
		return Result{}, false
	}
	res := Result{
		Success:   hr.Success,
		Output:    hr.Output,
		Stdout:    strings.TrimSpace(stdout[:idx]),
		Stderr:    stderr,
		ElapsedMS: elapsed,
	}
	if hr.Error != nil {
		res.Error = *hr.Error
	}
	return res, true
}

func capOutput(s string, maxKB int) string {
	if maxKB <= 0 {
		return s
	}
	max := maxKB * 1024
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
