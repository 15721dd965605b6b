package templates

import (
	"strings"
	"testing"

	"github.com/logics-tools/logics/internal/docs"
)

func testCommon(ref, title string) Common {
	return Common{
		DocRef:        ref,
		Title:         title,
		FromVersion:   "1.0.0",
		Understanding: "80%",
		Confidence:    "70%",
		Complexity:    "M",
		Theme:         "Auth",
		Progress:      "0%",
	}
}

func TestNewRenderer(t *testing.T) {
	if _, err := NewRenderer(); err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
}

func TestRender_Request(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Render(docs.KindRequest, RequestData{
		Common:  testCommon("req_001_fix_login", "Fix login"),
		Needs:   []string{"Login must survive token refresh"},
		Context: "Users are logged out hourly.",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"## req_001_fix_login - Fix login",
		"> From version: 1.0.0",
		"> Theme: Auth",
		"# Needs",
		"- Login must survive token refresh",
		"# Context",
		"# Backlog",
		"- (none yet)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("request output missing %q:\n%s", want, out)
		}
	}
	// Requests carry no Progress indicator.
	if strings.Contains(out, "> Progress:") {
		t.Errorf("request output has Progress indicator:\n%s", out)
	}
}

func TestRender_TaskHasCheckboxes(t *testing.T) {
	r, _ := NewRenderer()
	out, err := r.Render(docs.KindTask, TaskData{
		Common:     testCommon("task_001_fix_login", "Fix login"),
		Context:    "Derived from `logics/backlog/item_001_fix_login.md`.",
		Plan:       []string{"Reproduce", "Patch", "Test"},
		Validation: []string{"npm run tests"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Count(out, "- [ ] ") != 3 {
		t.Errorf("want 3 unchecked plan items:\n%s", out)
	}
	if !strings.Contains(out, "> Progress: 0%") {
		t.Errorf("task output missing Progress:\n%s", out)
	}
}

func TestRender_OutputParses(t *testing.T) {
	r, _ := NewRenderer()
	for kind, data := range map[docs.Kind]any{
		docs.KindRequest: RequestData{Common: testCommon("req_001_x", "X"), Needs: []string{"n"}, Context: "c"},
		docs.KindBacklog: BacklogData{Common: testCommon("item_001_x", "X"), Problem: "p", Acceptance: []string{"a"}},
		docs.KindTask:    TaskData{Common: testCommon("task_001_x", "X"), Context: "c", Plan: []string{"p"}, Validation: []string{"v"}},
		docs.KindSpec: SpecData{
			Common: testCommon("spec_001_x", "X"), Overview: "o", Goal: "g", NonGoal: "n",
			UseCase: "u", Requirement: "r", Acceptance: "a", Validation: "v", Question: "q",
		},
	} {
		out, err := r.Render(kind, data)
		if err != nil {
			t.Errorf("Render %s: %v", kind, err)
			continue
		}
		doc, err := docs.Parse(kind, "x.md", []byte(out))
		if err != nil {
			t.Errorf("rendered %s does not parse: %v\n%s", kind, err, out)
			continue
		}
		if missing := doc.MissingIndicators(); len(missing) != 0 {
			t.Errorf("rendered %s missing indicators %v", kind, missing)
		}
	}
}
