package fixer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logics-tools/logics/internal/config"
	"github.com/logics-tools/logics/internal/docs"
	"github.com/logics-tools/logics/internal/repo"
)

// --- Helpers ---

func writeDoc(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readDoc(t *testing.T, r *repo.Repository, ref string) *docs.Document {
	t.Helper()
	doc, err := r.Resolve(ref)
	if err != nil {
		t.Fatalf("Resolve %s: %v", ref, err)
	}
	return doc
}

func testFixer(t *testing.T) (*Fixer, *repo.Repository, string) {
	t.Helper()
	root := t.TempDir()
	r := repo.New(root)
	return New(r, config.Default(), nil), r, root
}

// --- Indicators ---

func TestRun_FillsMissingIndicators(t *testing.T) {
	f, r, root := testFixer(t)
	writeDoc(t, root, "logics/request/req_001_x.md",
		"## req_001_x - X\n> From version: 1.0.0\n\n# Needs\n- n\n\n# Context\nc\n\n# Backlog\n- (none yet)\n")

	result, err := f.Run(Options{Write: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Changed) != 1 {
		t.Fatalf("Changed = %v", result.Changed)
	}

	doc := readDoc(t, r, "req_001_x")
	if v, _ := doc.Indicator(docs.Understanding); v != "??%" {
		t.Errorf("Understanding = %q, want placeholder", v)
	}
	if v, _ := doc.Indicator(docs.Theme); v != "General" {
		t.Errorf("Theme = %q, want General", v)
	}
	// Existing value untouched.
	if v, _ := doc.Indicator(docs.FromVersion); v != "1.0.0" {
		t.Errorf("From version = %q", v)
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	f, _, root := testFixer(t)
	relPath := "logics/request/req_001_x.md"
	content := "## req_001_x - X\n\n# Needs\n- n\n"
	writeDoc(t, root, relPath, content)

	result, err := f.Run(Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Changed) != 1 {
		t.Fatalf("Changed = %v", result.Changed)
	}

	data, _ := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
	if string(data) != content {
		t.Errorf("dry run modified the file:\n%s", data)
	}
}

// --- Progress policy ---

func taskWithPlan(progress, plan string) string {
	return "## task_001_x - X\n> From version: 1.0.0\n> Understanding: 80%\n> Confidence: 70%\n> Complexity: M\n> Theme: General\n> Progress: " + progress + "\n\n# Context\nc\n\n# Plan\n" + plan + "\n# Validation\n- v\n\n# Report\n-\n\n# Notes\n"
}

func TestRun_AutoProgressFromCheckboxes(t *testing.T) {
	f, r, root := testFixer(t)
	writeDoc(t, root, "logics/tasks/task_001_x.md",
		taskWithPlan("??%", "- [x] a\n- [x] b\n- [x] c\n- [ ] d\n- [ ] e\n"))

	if _, err := f.Run(Options{Write: true, AutoProgress: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	doc := readDoc(t, r, "task_001_x")
	if v, _ := doc.Indicator(docs.Progress); v != "60%" {
		t.Errorf("Progress = %q, want 60%%", v)
	}
}

func TestRun_ProgressNeverDecreasesByDefault(t *testing.T) {
	f, r, root := testFixer(t)
	// Manually set 80% but only 1 of 2 boxes checked (50%).
	writeDoc(t, root, "logics/tasks/task_001_x.md",
		taskWithPlan("80%", "- [x] a\n- [ ] b\n"))

	if _, err := f.Run(Options{Write: true, AutoProgress: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	doc := readDoc(t, r, "task_001_x")
	if v, _ := doc.Indicator(docs.Progress); v != "80%" {
		t.Errorf("Progress = %q, want 80%% kept", v)
	}
}

func TestRun_ProgressDecreaseAllowedByConfig(t *testing.T) {
	root := t.TempDir()
	r := repo.New(root)
	cfg := config.Default()
	cfg.Progress.AllowDecrease = true
	f := New(r, cfg, nil)

	writeDoc(t, root, "logics/tasks/task_001_x.md",
		taskWithPlan("80%", "- [x] a\n- [ ] b\n"))

	if _, err := f.Run(Options{Write: true, AutoProgress: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	doc := readDoc(t, r, "task_001_x")
	if v, _ := doc.Indicator(docs.Progress); v != "50%" {
		t.Errorf("Progress = %q, want 50%%", v)
	}
}

func TestRun_NoProgressChangeWithoutCheckboxes(t *testing.T) {
	f, r, root := testFixer(t)
	writeDoc(t, root, "logics/tasks/task_001_x.md",
		taskWithPlan("40%", "prose, no checkboxes\n"))

	if _, err := f.Run(Options{Write: true, AutoProgress: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	doc := readDoc(t, r, "task_001_x")
	if v, _ := doc.Indicator(docs.Progress); v != "40%" {
		t.Errorf("Progress = %q, want 40%% untouched", v)
	}
}

// --- Sections ---

func TestRun_AddsMissingSections(t *testing.T) {
	f, r, root := testFixer(t)
	writeDoc(t, root, "logics/tasks/task_001_x.md",
		"## task_001_x - X\n> From version: 1.0.0\n> Understanding: 80%\n> Confidence: 70%\n> Complexity: M\n> Theme: General\n> Progress: 0%\n\n# Context\nc\n")

	if _, err := f.Run(Options{Write: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	doc := readDoc(t, r, "task_001_x")
	for _, heading := range []string{"# Plan", "# Validation", "# Report", "# Notes"} {
		if doc.Section(heading) == nil {
			t.Errorf("missing section %s after fix", heading)
		}
	}
	// Task validation comes from configuration.
	validation := doc.Section("# Validation")
	if validation == nil || !validation.Contains("npm run tests") {
		t.Error("Validation not seeded from config")
	}
}

// --- Reference repair ---

func TestRun_RepairsSlugMatchedReferences(t *testing.T) {
	f, r, root := testFixer(t)
	writeDoc(t, root, "logics/request/req_001_fix_login.md",
		"## req_001_fix_login - Fix login\n> From version: 1.0.0\n> Understanding: 80%\n> Confidence: 70%\n> Complexity: M\n> Theme: General\n\n# Needs\n- n\n\n# Context\nc\n\n# Backlog\n- (none yet)\n")
	writeDoc(t, root, "logics/backlog/item_001_fix_login.md",
		"## item_001_fix_login - Fix login\n> From version: 1.0.0\n> Understanding: 80%\n> Confidence: 70%\n> Complexity: M\n> Theme: General\n> Progress: 0%\n\n# Problem\np\n\n# Scope\n- In:\n- Out:\n\n# Acceptance criteria\n- a\n\n# Priority\n- Impact:\n- Urgency:\n\n# Notes\n")

	result, err := f.Run(Options{Write: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Ambiguous) != 0 {
		t.Errorf("Ambiguous = %v", result.Ambiguous)
	}

	req := readDoc(t, r, "req_001_fix_login")
	if !req.Section("# Backlog").Contains("item_001_fix_login") {
		t.Error("request not linked to backlog item")
	}
	item := readDoc(t, r, "item_001_fix_login")
	if !item.Section("# Notes").Contains("req_001_fix_login") {
		t.Error("backlog item missing derived-from reference")
	}
}

func TestRun_AmbiguousSlugReportedNotLinked(t *testing.T) {
	f, r, root := testFixer(t)
	base := "> From version: 1.0.0\n> Understanding: 80%\n> Confidence: 70%\n> Complexity: M\n> Theme: General\n\n# Needs\n- n\n\n# Context\nc\n\n# Backlog\n- (none yet)\n"
	writeDoc(t, root, "logics/request/req_001_fix_login.md", "## req_001_fix_login - A\n"+base)
	writeDoc(t, root, "logics/request/req_002_fix_login.md", "## req_002_fix_login - B\n"+base)
	writeDoc(t, root, "logics/backlog/item_001_fix_login.md",
		"## item_001_fix_login - C\n> From version: 1.0.0\n> Understanding: 80%\n> Confidence: 70%\n> Complexity: M\n> Theme: General\n> Progress: 0%\n\n# Problem\np\n\n# Scope\n- In:\n- Out:\n\n# Acceptance criteria\n- a\n\n# Priority\n- Impact:\n- Urgency:\n\n# Notes\n")

	result, err := f.Run(Options{Write: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Ambiguous) != 1 {
		t.Fatalf("Ambiguous = %v, want 1", result.Ambiguous)
	}
	item := readDoc(t, r, "item_001_fix_login")
	if item.Section("# Notes").Contains("req_00") {
		t.Error("ambiguous match was linked anyway")
	}
}

// --- Warnings ---

func TestRun_UnparsableFileBecomesWarning(t *testing.T) {
	f, _, root := testFixer(t)
	writeDoc(t, root, "logics/request/req_001_bad.md", "no heading\n")

	result, err := f.Run(Options{Write: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0].Path, "req_001_bad.md") {
		t.Errorf("warning path = %s", result.Warnings[0].Path)
	}
}
