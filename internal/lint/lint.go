// Package lint validates Logics documents without ever mutating them:
// filename grammar, heading format, required indicators, and dangling
// cross-references. Findings accumulate per document; one bad file never
// aborts the batch.
package lint

import (
	"fmt"
	"path"
	"regexp"

	"github.com/logics-tools/logics/internal/docs"
	"github.com/logics-tools/logics/internal/linker"
	"github.com/logics-tools/logics/internal/repo"
)

var filenamePatterns = map[docs.Kind]*regexp.Regexp{}

func init() {
	for _, kind := range docs.AllKinds {
		filenamePatterns[kind] = regexp.MustCompile(
			`^` + regexp.QuoteMeta(kind.Prefix()) + `_\d{3}_[a-z0-9_]+\.md$`)
	}
}

// Issue is one finding against one document.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Report holds all findings of a lint pass.
type Report struct {
	Issues []Issue
	// Warnings are files that failed to parse; they count as findings.
	Warnings []repo.ScanWarning
}

// OK reports whether the pass found nothing.
func (r *Report) OK() bool {
	return len(r.Issues) == 0 && len(r.Warnings) == 0
}

// Run lints every document in the repository.
func Run(r *repo.Repository) (*Report, error) {
	all, warnings, err := r.ScanAll()
	if err != nil {
		return nil, err
	}
	report := &Report{Warnings: warnings}
	byRef := linker.Index(all)

	for _, doc := range all {
		lintDoc(report, doc, byRef)
	}
	return report, nil
}

func lintDoc(report *Report, doc *docs.Document, byRef map[string]*docs.Document) {
	add := func(format string, args ...any) {
		report.Issues = append(report.Issues, Issue{Path: doc.Path, Message: fmt.Sprintf(format, args...)})
	}

	name := path.Base(doc.Path)
	if !filenamePatterns[doc.Kind].MatchString(name) {
		add("bad filename %q: want %s_<NNN>_<slug>.md", name, doc.Kind.Prefix())
	}

	stem := name[:len(name)-len(".md")]
	if doc.Ref != stem {
		add("heading doc_ref %q does not match filename stem %q", doc.Ref, stem)
	}

	for _, label := range doc.MissingIndicators() {
		add("missing indicator: %s", label)
	}

	for _, ref := range linker.Dangling(doc, byRef) {
		add("dangling reference: %s", ref)
	}
}
