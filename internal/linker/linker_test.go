package linker

import (
	"strings"
	"testing"

	"github.com/logics-tools/logics/internal/docs"
)

// --- Helpers ---

func parseDoc(t *testing.T, kind docs.Kind, path, content string) *docs.Document {
	t.Helper()
	doc, err := docs.Parse(kind, path, []byte(content))
	if err != nil {
		t.Fatalf("Parse %s: %v", path, err)
	}
	return doc
}

func request(t *testing.T, ref string) *docs.Document {
	return parseDoc(t, docs.KindRequest, "logics/request/"+ref+".md",
		"## "+ref+" - Title\n\n# Needs\n- x\n\n# Context\nctx\n\n# Backlog\n- (none yet)\n")
}

func backlog(t *testing.T, ref string) *docs.Document {
	return parseDoc(t, docs.KindBacklog, "logics/backlog/"+ref+".md",
		"## "+ref+" - Title\n\n# Problem\np\n\n# Acceptance criteria\n- x\n\n# Notes\n")
}

func task(t *testing.T, ref string) *docs.Document {
	return parseDoc(t, docs.KindTask, "logics/tasks/"+ref+".md",
		"## "+ref+" - Title\n\n# Context\nExisting context.\n\n# Plan\n- [ ] x\n\n# Notes\n")
}

func sectionText(doc *docs.Document, heading string) string {
	section := doc.Section(heading)
	if section == nil {
		return ""
	}
	return strings.Join(section.Lines, "\n")
}

// --- Repair: one candidate ---

func TestRepair_SingleCandidateLinksBothDirections(t *testing.T) {
	req := request(t, "req_001_fix_login")
	item := backlog(t, "item_004_fix_login")

	report := Repair([]*docs.Document{req, item})

	if len(report.Links) != 1 {
		t.Fatalf("got %d links, want 1", len(report.Links))
	}
	if report.Links[0].From != "req_001_fix_login" || report.Links[0].To != "item_004_fix_login" {
		t.Errorf("link = %+v", report.Links[0])
	}
	if !strings.Contains(sectionText(item, "# Notes"), "Derived from `logics/request/req_001_fix_login.md`.") {
		t.Errorf("backlog Notes missing derived-from:\n%s", sectionText(item, "# Notes"))
	}
	if !strings.Contains(sectionText(req, "# Backlog"), "`logics/backlog/item_004_fix_login.md`") {
		t.Errorf("request Backlog missing back-reference:\n%s", sectionText(req, "# Backlog"))
	}
	if strings.Contains(sectionText(req, "# Backlog"), "(none yet)") {
		t.Error("placeholder not dropped after linking")
	}
	if len(report.Changed) != 2 {
		t.Errorf("Changed has %d entries, want 2", len(report.Changed))
	}
}

func TestRepair_TaskGetsContextPrepend(t *testing.T) {
	item := backlog(t, "item_002_add_oauth")
	tk := task(t, "task_007_add_oauth")

	Repair([]*docs.Document{item, tk})

	ctx := tk.Section("# Context")
	if ctx == nil || len(ctx.Lines) == 0 {
		t.Fatal("task Context empty")
	}
	if !strings.HasPrefix(ctx.Lines[0], "Derived from `logics/backlog/item_002_add_oauth.md`.") {
		t.Errorf("derived-from not first in Context: %q", ctx.Lines[0])
	}
	if !strings.Contains(sectionText(item, "# Notes"), "- Task: `logics/tasks/task_007_add_oauth.md`.") {
		t.Errorf("backlog Notes missing task back-reference:\n%s", sectionText(item, "# Notes"))
	}
}

// --- Repair: zero or many candidates ---

func TestRepair_NoCandidateNoChange(t *testing.T) {
	req := request(t, "req_001_one_thing")
	item := backlog(t, "item_001_other_thing")

	report := Repair([]*docs.Document{req, item})
	if len(report.Links) != 0 || len(report.Ambiguous) != 0 || len(report.Changed) != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}

func TestRepair_AmbiguousReportedNotGuessed(t *testing.T) {
	reqA := request(t, "req_001_fix_login")
	reqB := request(t, "req_002_fix_login")
	item := backlog(t, "item_001_fix_login")

	report := Repair([]*docs.Document{reqA, reqB, item})

	if len(report.Links) != 0 {
		t.Errorf("links applied despite ambiguity: %+v", report.Links)
	}
	if len(report.Ambiguous) != 1 {
		t.Fatalf("got %d ambiguities, want 1", len(report.Ambiguous))
	}
	amb := report.Ambiguous[0]
	if amb.Ref != "item_001_fix_login" || len(amb.Candidates) != 2 {
		t.Errorf("ambiguity = %+v", amb)
	}
	if sectionText(item, "# Notes") != "" {
		t.Errorf("ambiguous doc was mutated:\n%s", sectionText(item, "# Notes"))
	}
}

// --- Connect idempotence ---

func TestConnect_Idempotent(t *testing.T) {
	req := request(t, "req_001_fix_login")
	item := backlog(t, "item_001_fix_login")

	if !Connect(req, item) {
		t.Fatal("first Connect reported no change")
	}
	if Connect(req, item) {
		t.Error("second Connect reported a change")
	}
	if strings.Count(sectionText(req, "# Backlog"), "item_001_fix_login") != 1 {
		t.Errorf("back-reference duplicated:\n%s", sectionText(req, "# Backlog"))
	}
}

// --- Dangling ---

func TestDangling(t *testing.T) {
	tk := parseDoc(t, docs.KindTask, "logics/tasks/task_001_x.md",
		"## task_001_x - X\n\n# Context\nDerived from `item_001_x` and also mentions spec_009_missing.\n")
	item := backlog(t, "item_001_x")

	byRef := Index([]*docs.Document{tk, item})
	missing := Dangling(tk, byRef)
	if len(missing) != 1 || missing[0] != "spec_009_missing" {
		t.Errorf("Dangling = %v, want [spec_009_missing]", missing)
	}
}
