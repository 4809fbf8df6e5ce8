package lua

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func newState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	state, err := NewState(opts...)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	t.Cleanup(func() { _ = state.Close() })
	return state
}

func TestStateDoString(t *testing.T) {
	state := newState(t)

	if err := state.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	num, ok := state.GetGlobal("x").(glua.LNumber)
	if !ok || float64(num) != 2 {
		t.Errorf("x = %v, want 2", state.GetGlobal("x"))
	}
}

func TestStateSyntaxError(t *testing.T) {
	state := newState(t)
	if err := state.DoString(`invalid lua code !!!`); err == nil {
		t.Error("DoString() should fail for invalid code")
	}
}

func TestStateRuntimeError(t *testing.T) {
	state := newState(t)
	err := state.DoString(`error("boom")`)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("DoString() error = %v, want boom", err)
	}
}

func TestStateSandbox(t *testing.T) {
	state := newState(t)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("global %s = %v, want nil", name, v)
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs"} {
		if v := state.GetGlobal(name); v == glua.LNil {
			t.Errorf("global %s missing", name)
		}
	}
}

func TestStateTimeout(t *testing.T) {
	state := newState(t, WithExecutionTimeout(50*time.Millisecond))

	start := time.Now()
	err := state.Run(context.Background(), "loop", `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("Run() error = %v, want ErrExecutionTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Run() took %v, want about 50ms", elapsed)
	}

	// The state stays usable.
	if err := state.DoString(`y = 3`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestStateCanceled(t *testing.T) {
	state := newState(t, WithExecutionTimeout(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := state.Run(ctx, "loop", `while true do end`)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestStateRunFile(t *testing.T) {
	state := newState(t)
	path := filepath.Join(t.TempDir(), "script.lua")
	if err := os.WriteFile(path, []byte(`answer = 6 * 7`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := state.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}
	if v := state.GetGlobal("answer"); v.String() != "42" {
		t.Errorf("answer = %v, want 42", v)
	}
	if err := state.RunFile(context.Background(), path+".missing"); err == nil {
		t.Error("RunFile() should fail for a missing file")
	}
}

func TestStateClose(t *testing.T) {
	state := newState(t)
	if err := state.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !state.IsClosed() {
		t.Error("IsClosed() = false after Close()")
	}
	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close() = %v, want ErrStateClosed", err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestBridgeRoundTrip(t *testing.T) {
	state := newState(t)
	b := NewBridge(state.L)

	in := map[string]any{
		"name":  "p",
		"count": int64(3),
		"ratio": 0.5,
		"ok":    true,
		"path":  []any{int64(0), int64(2)},
	}
	out, ok := b.ToGoValue(b.ToLuaValue(in)).(map[string]any)
	if !ok {
		t.Fatalf("ToGoValue() = %T, want map", out)
	}
	for k, want := range in {
		if k == "path" {
			continue
		}
		if out[k] != want {
			t.Errorf("%s = %v (%T), want %v", k, out[k], out[k], want)
		}
	}
	path, ok := out["path"].([]any)
	if !ok || len(path) != 2 || path[1] != int64(2) {
		t.Errorf("path = %v, want [0 2]", out["path"])
	}
}
