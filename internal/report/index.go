// Package report renders the read-only summary documents: the index, the
// relationship graph, and the duplicate-title report. It consumes the
// repository scanner's output and never mutates work documents.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/logics-tools/logics/internal/docs"
	"github.com/logics-tools/logics/internal/repo"
)

// IndexFile is the default output path, repo-relative.
const IndexFile = "logics/INDEX.md"

// Index renders the INDEX.md summary tables for every document kind.
func Index(r *repo.Repository) (string, []repo.ScanWarning, error) {
	var parts []string
	parts = append(parts, "# Logics Index", "")

	var allWarnings []repo.ScanWarning
	sections := []struct {
		title        string
		kind         docs.Kind
		showProgress bool
	}{
		{"Requests", docs.KindRequest, false},
		{"Backlog", docs.KindBacklog, true},
		{"Tasks", docs.KindTask, true},
		{"Specs", docs.KindSpec, false},
	}

	for _, s := range sections {
		scanned, warnings, err := r.Scan(s.kind)
		if err != nil {
			return "", nil, err
		}
		allWarnings = append(allWarnings, warnings...)
		parts = append(parts, renderIndexSection(s.title, scanned, s.showProgress))
	}

	return strings.TrimRight(strings.Join(parts, "\n"), "\n") + "\n", allWarnings, nil
}

func renderIndexSection(title string, scanned []*docs.Document, showProgress bool) string {
	var lines []string
	lines = append(lines, "## "+title, "")
	if len(scanned) == 0 {
		lines = append(lines, "_None_", "")
		return strings.Join(lines, "\n")
	}

	if showProgress {
		lines = append(lines, "| Doc | Title | Progress |", "|---|---|---|")
	} else {
		lines = append(lines, "| Doc | Title |", "|---|---|")
	}
	for _, doc := range scanned {
		link := fmt.Sprintf("[%s](%s)", doc.Ref, doc.Path)
		if showProgress {
			progress, _ := doc.Indicator(docs.Progress)
			lines = append(lines, fmt.Sprintf("| %s | %s | %s |", link, doc.Title, progress))
		} else {
			lines = append(lines, fmt.Sprintf("| %s | %s |", link, doc.Title))
		}
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// WriteFile persists a rendered report under the repository root, creating
// parent directories as needed.
func WriteFile(r *repo.Repository, relPath, content string) (string, error) {
	path := filepath.Join(r.Root(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
