package detection

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassName(t *testing.T) {
	name, ok := ClassName(0)
	if !ok || name != "pipe_coupling" {
		t.Errorf("ClassName(0) = %q, %v", name, ok)
	}

	if _, ok := ClassName(-1); ok {
		t.Error("ClassName(-1) should not resolve")
	}
	if _, ok := ClassName(NumClasses()); ok {
		t.Error("ClassName(NumClasses()) should not resolve")
	}
}

func TestSymbolClasses_ReturnsCopy(t *testing.T) {
	classes := SymbolClasses()
	classes[0] = "mutated"

	if name, _ := ClassName(0); name == "mutated" {
		t.Error("SymbolClasses must not expose the vocabulary table")
	}
}

func TestLoadLabels_EmptyPathUsesVocabulary(t *testing.T) {
	labels, err := LoadLabels("")
	if err != nil {
		t.Fatalf("LoadLabels failed: %v", err)
	}
	if len(labels) != NumClasses() {
		t.Errorf("got %d labels, want %d", len(labels), NumClasses())
	}
}

func TestLoadLabels_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	content := "# P&ID classes\ngate_valve\n\n  check_valve  \npump\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write labels: %v", err)
	}

	labels, err := LoadLabels(path)
	if err != nil {
		t.Fatalf("LoadLabels failed: %v", err)
	}

	want := []string{"gate_valve", "check_valve", "pump"}
	if len(labels) != len(want) {
		t.Fatalf("got %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestLoadLabels_Errors(t *testing.T) {
	if _, err := LoadLabels("/nonexistent/labels.txt"); err == nil {
		t.Error("expected error for missing label table")
	}

	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n# nothing\n"), 0o644); err != nil {
		t.Fatalf("failed to write labels: %v", err)
	}
	if _, err := LoadLabels(path); err == nil {
		t.Error("expected error for empty label table")
	}
}

func TestLabelFor_Fallback(t *testing.T) {
	labels := []string{"a", "b"}
	if got := labelFor(labels, 1); got != "b" {
		t.Errorf("labelFor(1) = %q", got)
	}
	if got := labelFor(labels, 5); got != "class_5" {
		t.Errorf("labelFor(5) = %q, want class_5", got)
	}
}
