package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/logics-tools/logics/internal/linker"
	"github.com/logics-tools/logics/internal/repo"
)

// RelationsFile is the default output path, repo-relative.
const RelationsFile = "logics/RELATIONSHIPS.md"

// Relations renders the outgoing/incoming doc_ref graph across every
// document. References to documents that no longer exist are excluded here;
// the linter reports them as dangling.
func Relations(r *repo.Repository) (string, []repo.ScanWarning, error) {
	all, warnings, err := r.ScanAll()
	if err != nil {
		return "", nil, err
	}
	byRef := linker.Index(all)

	incoming := map[string][]string{}
	for _, doc := range all {
		for _, ref := range doc.References {
			if _, ok := byRef[ref]; ok {
				incoming[ref] = append(incoming[ref], doc.Ref)
			}
		}
	}

	var lines []string
	lines = append(lines,
		"# Logics Relationships", "",
		"## Summary", "",
		fmt.Sprintf("- Docs scanned: %d", len(all)), "",
		"## By document", "",
	)

	var sorted []string
	for ref := range byRef {
		sorted = append(sorted, ref)
	}
	sort.Strings(sorted)

	for _, ref := range sorted {
		doc := byRef[ref]
		lines = append(lines, fmt.Sprintf("### [%s](%s) - %s", doc.Ref, doc.Path, doc.Title), "")

		var out []string
		for _, target := range doc.References {
			if _, ok := byRef[target]; ok {
				out = append(out, target)
			}
		}
		sort.Strings(out)
		in := append([]string(nil), incoming[ref]...)
		sort.Strings(in)

		lines = append(lines,
			"- Outgoing: "+joinOrNone(out),
			"- Incoming: "+joinOrNone(in),
			"",
		)
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n", warnings, nil
}

func joinOrNone(refs []string) string {
	if len(refs) == 0 {
		return "_none_"
	}
	return strings.Join(refs, ", ")
}
