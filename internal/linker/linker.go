// Package linker discovers and repairs cross-references between documents
// of adjacent lifecycle stages.
//
// Matching is by exact slug equality — the ID prefix and number are
// ignored. The policy is deliberately conservative: a link is added only
// when exactly one candidate exists in the adjacent stage. Zero or many
// candidates are reported, never guessed, so unrelated documents are never
// corrupted by an automatic repair.
package linker

import (
	"fmt"
	"strings"

	"github.com/logics-tools/logics/internal/docs"
)

// pairs lists the linked stage adjacencies: the later kind derives from
// the earlier kind.
var pairs = []struct {
	earlier docs.Kind
	later   docs.Kind
}{
	{docs.KindRequest, docs.KindBacklog},
	{docs.KindBacklog, docs.KindTask},
	{docs.KindTask, docs.KindSpec},
}

// derivedFromLine renders the "Derived from" reference written into the
// later document, and names the section it belongs in.
func derivedFrom(later docs.Kind, earlierPath string) (section, line string) {
	switch later {
	case docs.KindTask:
		return "# Context", fmt.Sprintf("Derived from `%s`.", earlierPath)
	default:
		return "# Notes", fmt.Sprintf("- Derived from `%s`.", earlierPath)
	}
}

// backRef renders the reference written into the earlier document.
func backRef(earlier docs.Kind, laterPath string) (section, line string) {
	switch earlier {
	case docs.KindRequest:
		return "# Backlog", fmt.Sprintf("- `%s`", laterPath)
	case docs.KindBacklog:
		return "# Notes", fmt.Sprintf("- Task: `%s`.", laterPath)
	default:
		return "# Notes", fmt.Sprintf("- Spec: `%s`.", laterPath)
	}
}

// Ambiguity reports a document whose adjacent-stage slug match was not
// unique. Soft: surfaced in the report, no link added.
type Ambiguity struct {
	Ref        string
	Kind       docs.Kind
	Candidates []string
}

func (a Ambiguity) Error() string {
	return fmt.Sprintf("%s: %d %s candidates share slug %q; not linking",
		a.Ref, len(a.Candidates), a.Kind, docs.RefSlug(a.Ref))
}

// Link records one applied bidirectional link.
type Link struct {
	From string // earlier-stage doc_ref
	To   string // later-stage doc_ref
}

// Report summarizes a linking pass.
type Report struct {
	Links     []Link
	Ambiguous []Ambiguity
	// Changed holds the documents mutated by the pass, keyed by ref.
	Changed map[string]*docs.Document
}

// FindCandidates returns the documents in the stage adjacent to doc (the
// earlier stage doc derives from) whose slug matches exactly.
func FindCandidates(doc *docs.Document, all []*docs.Document) []*docs.Document {
	earlier, ok := earlierKind(doc.Kind)
	if !ok {
		return nil
	}
	var out []*docs.Document
	for _, candidate := range all {
		if candidate.Kind == earlier && candidate.Slug() == doc.Slug() {
			out = append(out, candidate)
		}
	}
	return out
}

func earlierKind(k docs.Kind) (docs.Kind, bool) {
	for _, p := range pairs {
		if p.later == k {
			return p.earlier, true
		}
	}
	return "", false
}

// Repair walks every adjacent pair and applies the one-candidate policy:
// the later document gets a "Derived from" reference, the earlier document
// gets a back-reference. Mutations happen in memory; the caller decides
// whether to persist Report.Changed.
func Repair(all []*docs.Document) *Report {
	report := &Report{Changed: map[string]*docs.Document{}}

	for _, doc := range all {
		if _, ok := earlierKind(doc.Kind); !ok {
			continue
		}
		candidates := FindCandidates(doc, all)
		switch len(candidates) {
		case 0:
			continue
		case 1:
			source := candidates[0]
			if Connect(source, doc) {
				report.Changed[source.Ref] = source
				report.Changed[doc.Ref] = doc
			}
			report.Links = append(report.Links, Link{From: source.Ref, To: doc.Ref})
		default:
			refs := make([]string, len(candidates))
			for i, c := range candidates {
				refs[i] = c.Ref
			}
			report.Ambiguous = append(report.Ambiguous, Ambiguity{
				Ref: doc.Ref, Kind: candidates[0].Kind, Candidates: refs,
			})
		}
	}
	return report
}

// Connect writes both directions of a link, skipping lines already
// present. Reports whether either document changed. The flow engine uses
// it directly when a promotion knows its exact source.
func Connect(earlier, later *docs.Document) bool {
	changed := false

	section, line := derivedFrom(later.Kind, earlier.Path)
	if addLine(later, section, line) {
		later.RefreshReferences()
		changed = true
	}

	section, line = backRef(earlier.Kind, later.Path)
	if addLine(earlier, section, line) {
		dropPlaceholder(earlier.Section(section))
		earlier.RefreshReferences()
		changed = true
	}
	return changed
}

// addLine inserts the reference line unless an equivalent one exists.
// Task context references go first so "Derived from" leads the section.
func addLine(doc *docs.Document, heading, line string) bool {
	section := doc.Section(heading)
	if section == nil {
		doc.Sections = append(doc.Sections, docs.Section{Heading: heading, Lines: []string{line}})
		return true
	}
	if section.Contains(line) {
		return false
	}
	if doc.Kind == docs.KindTask && heading == "# Context" {
		section.Lines = append([]string{line}, section.Lines...)
		return true
	}
	section.Lines = append(section.Lines, line)
	return true
}

// dropPlaceholder removes the "(none yet)" stub once a real entry lands.
func dropPlaceholder(section *docs.Section) {
	if section == nil {
		return
	}
	for i, line := range section.Lines {
		if containsNoneYet(line) {
			section.Lines = append(section.Lines[:i], section.Lines[i+1:]...)
			return
		}
	}
}

func containsNoneYet(line string) bool {
	return strings.Contains(line, "(none yet)")
}

// Dangling returns the outgoing references of doc that do not resolve to
// any scanned document. Lint errors, never silently dropped.
func Dangling(doc *docs.Document, byRef map[string]*docs.Document) []string {
	var missing []string
	for _, ref := range doc.References {
		if _, ok := byRef[ref]; !ok {
			missing = append(missing, ref)
		}
	}
	return missing
}

// Index builds a ref → document lookup for a scanned set.
func Index(all []*docs.Document) map[string]*docs.Document {
	byRef := make(map[string]*docs.Document, len(all))
	for _, doc := range all {
		byRef[doc.Ref] = doc
	}
	return byRef
}
