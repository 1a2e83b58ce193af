package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klipworks/klipflow/internal/capability"
)

func writeBlueprint(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write blueprint: %v", err)
	}
	return path
}

func TestCompositeRunsSubDocument(t *testing.T) {
	dir := t.TempDir()
	subPath := writeBlueprint(t, dir, "double.kl", `planes:
  agentic:
    - name: Doubler
  structural:
    - name: math
      steps:
        - name: double
          agent: Doubler
          tool: doubling
          inputs: [n]
          outputs: doubled
`)

	doc := mustLoad(t, fmt.Sprintf(`planes:
  agentic:
    - name: SubFlow
      blueprint_path: %s
  structural:
    - name: main
      steps:
        - name: delegate
          agent: SubFlow
          inputs: [n]
          outputs: doubled
`, subPath))

	doubling := capability.NewFunc("doubling", func(input map[string]any) (any, error) {
		n, ok := input["n"].(int)
		if !ok {
			return nil, fmt.Errorf("n is not an int: %v", input["n"])
		}
		return n * 2, nil
	})

	e := New(WithCapabilities(doubling))
	e.Attach(doc)

	final, err := e.Execute(map[string]any{"n": 5})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if final["n"] != 5 {
		t.Errorf("Parent n should be untouched, got %v", final["n"])
	}
	result, ok := final["doubled"].(map[string]any)
	if !ok {
		t.Fatalf("Composite result should be a map, got %T", final["doubled"])
	}
	if result["unit"] != "SubFlow" {
		t.Errorf("Expected unit SubFlow, got %v", result["unit"])
	}
	sub, ok := result["state"].(map[string]any)
	if !ok {
		t.Fatalf("Composite result should carry the sub-state, got %T", result["state"])
	}
	if sub["doubled"] != 10 {
		t.Errorf("Expected sub-state doubled 10, got %v", sub["doubled"])
	}
	if sub["n"] != 5 {
		t.Errorf("Sub-state should retain its seeded input, got %v", sub["n"])
	}
}

func TestCompositeIsolatesParentState(t *testing.T) {
	dir := t.TempDir()
	subPath := writeBlueprint(t, dir, "mutate.kl", `planes:
  agentic:
    - name: Mutator
  structural:
    - name: touch
      steps:
        - name: rewrite
          agent: Mutator
          tool: mutate
          inputs: [cfg]
          outputs: private
`)

	doc := mustLoad(t, fmt.Sprintf(`planes:
  agentic:
    - name: SubFlow
      type: composite
      blueprint_path: %s
  structural:
    - name: main
      steps:
        - name: delegate
          agent: SubFlow
          inputs: [cfg]
          outputs: result
`, subPath))

	mutate := capability.NewFunc("mutate", func(input map[string]any) (any, error) {
		cfg := input["cfg"].(map[string]any)
		cfg["key"] = "hacked"
		return "done", nil
	})

	e := New(WithCapabilities(mutate))
	e.Attach(doc)

	final, err := e.Execute(map[string]any{"cfg": map[string]any{"key": "original"}})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	cfg := final["cfg"].(map[string]any)
	if cfg["key"] != "original" {
		t.Errorf("Sub-run must not reach the parent's state, got %v", cfg["key"])
	}
	if _, ok := final["private"]; ok {
		t.Error("Sub-run writes must stay inside the composite result")
	}

	sub := final["result"].(map[string]any)["state"].(map[string]any)
	if sub["cfg"].(map[string]any)["key"] != "hacked" {
		t.Errorf("Sub-run should see its own mutation, got %v", sub["cfg"])
	}
}

func TestCompositeIgnoresBoundCapability(t *testing.T) {
	dir := t.TempDir()
	subPath := writeBlueprint(t, dir, "noop.kl", "planes: {}")

	doc := mustLoad(t, fmt.Sprintf(`planes:
  agentic:
    - name: SubFlow
      blueprint_path: %s
  structural:
    - name: main
      steps:
        - name: delegate
          agent: SubFlow
          tool: boom
          outputs: result
`, subPath))

	boom := capability.NewFunc("boom", func(input map[string]any) (any, error) {
		return nil, fmt.Errorf("must never run")
	})

	e := New(WithCapabilities(boom))
	e.Attach(doc)

	if _, err := e.Execute(nil); err != nil {
		t.Fatalf("Composite must not invoke the step's capability: %v", err)
	}
}

func TestCompositeWithoutSubDocument(t *testing.T) {
	doc := mustLoad(t, `planes:
  agentic:
    - name: Hollow
      type: composite
  structural:
    - name: main
      steps:
        - name: delegate
          agent: Hollow
`)

	e := New()
	e.Attach(doc)

	final, err := e.Execute(nil)
	if !errors.Is(err, ErrNoDocument) {
		t.Errorf("Expected ErrNoDocument, got %v", err)
	}
	if final != nil {
		t.Errorf("Failed run must discard state, got %v", final)
	}
}

func TestCompositeMissingSubDocumentFile(t *testing.T) {
	doc := mustLoad(t, `planes:
  agentic:
    - name: SubFlow
      blueprint_path: /nonexistent/blueprint.kl
  structural:
    - name: main
      steps:
        - name: delegate
          agent: SubFlow
`)

	e := New()
	e.Attach(doc)

	_, err := e.Execute(nil)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected a file-not-found error, got %v", err)
	}
}

func TestCompositeRecursionLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loop.kl")
	text := fmt.Sprintf(`planes:
  agentic:
    - name: Loop
      blueprint_path: %s
  structural:
    - name: spin
      steps:
        - name: recurse
          agent: Loop
          outputs: out
`, path)
	writeBlueprint(t, dir, "loop.kl", text)

	doc := mustLoad(t, text)

	e := New(WithMaxDepth(3))
	e.Attach(doc)

	_, err := e.Execute(nil)
	if !errors.Is(err, ErrRecursionLimit) {
		t.Errorf("Expected ErrRecursionLimit, got %v", err)
	}
}

func TestCompositeReusesChildEngine(t *testing.T) {
	dir := t.TempDir()
	subPath := writeBlueprint(t, dir, "count.kl", `planes:
  agentic:
    - name: Counter
  structural:
    - name: tick
      steps:
        - name: bump
          agent: Counter
          tool: counting
          outputs: count
`)

	doc := mustLoad(t, fmt.Sprintf(`planes:
  agentic:
    - name: SubFlow
      blueprint_path: %s
  structural:
    - name: main
      steps:
        - name: delegate
          agent: SubFlow
          outputs: result
`, subPath))

	calls := 0
	counting := capability.NewFunc("counting", func(input map[string]any) (any, error) {
		calls++
		return calls, nil
	})

	e := New(WithCapabilities(counting))
	e.Attach(doc)

	if _, err := e.Execute(nil); err != nil {
		t.Fatalf("First execute failed: %v", err)
	}
	if _, err := e.Execute(nil); err != nil {
		t.Fatalf("Second execute failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected the sub-workflow to run twice, got %d calls", calls)
	}
}

func TestObserverSeesSubSteps(t *testing.T) {
	dir := t.TempDir()
	subPath := writeBlueprint(t, dir, "inner.kl", `planes:
  agentic:
    - name: Inner
  structural:
    - name: nested
      steps:
        - name: inner-step
          agent: Inner
          outputs: inner
`)

	doc := mustLoad(t, fmt.Sprintf(`planes:
  agentic:
    - name: SubFlow
      blueprint_path: %s
  structural:
    - name: main
      steps:
        - name: delegate
          agent: SubFlow
          outputs: result
`, subPath))

	var steps []string
	e := New(WithObserver(func(r StepRecord) { steps = append(steps, r.Step) }))
	e.Attach(doc)

	if _, err := e.Execute(nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := []string{"inner-step", "delegate"}
	if len(steps) != 2 || steps[0] != want[0] || steps[1] != want[1] {
		t.Errorf("Expected records %v, got %v", want, steps)
	}
}
