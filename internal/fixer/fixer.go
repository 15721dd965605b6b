// Package fixer validates and repairs Logics documents: required sections,
// indicator blocks, auto-computed progress, and slug-matched
// cross-references.
//
// Default is dry-run: the fixer reports what it would change and writes
// nothing. Only --write applies repairs, including filling missing required
// indicators with placeholder defaults — validation alone never invents
// values.
package fixer

import (
	"fmt"
	"path/filepath"

	"github.com/logics-tools/logics/internal/config"
	"github.com/logics-tools/logics/internal/docs"
	"github.com/logics-tools/logics/internal/flow"
	"github.com/logics-tools/logics/internal/linker"
	"github.com/logics-tools/logics/internal/repo"
)

// sectionDefault is one required section with its skeleton body.
type sectionDefault struct {
	heading string
	lines   []string
}

var requiredSections = map[docs.Kind][]sectionDefault{
	docs.KindRequest: {
		{"# Needs", []string{"- Describe the need"}},
		{"# Context", []string{"Add context and constraints."}},
		{"# Backlog", []string{"- (none yet)"}},
	},
	docs.KindBacklog: {
		{"# Problem", []string{"Describe the problem and user impact."}},
		{"# Scope", []string{"- In:", "- Out:"}},
		{"# Acceptance criteria", []string{"- Define acceptance criteria"}},
		{"# Priority", []string{"- Impact:", "- Urgency:"}},
		{"# Notes", nil},
	},
	docs.KindTask: {
		{"# Context", []string{"Add task context."}},
		{"# Plan", []string{"- [ ] First implementation step", "- [ ] Second implementation step"}},
		{"# Validation", nil}, // filled from config
		{"# Report", []string{"-"}},
		{"# Notes", nil},
	},
	docs.KindSpec: {
		{"# Overview", []string{"Describe the user-facing behavior and context."}},
		{"# Goals", []string{"- Primary goal"}},
		{"# Non-goals", []string{"- Explicitly out of scope"}},
		{"# Use cases", []string{"- Key use case"}},
		{"# Requirements", []string{"- Requirement"}},
		{"# Acceptance criteria", []string{"- Acceptance criterion"}},
		{"# Validation", []string{"- How to validate it"}},
		{"# Open questions", []string{"- Open question"}},
		{"# Notes", nil},
	},
}

// Options controls a fixer run.
type Options struct {
	// Write applies repairs; without it the run only reports.
	Write bool
	// AutoProgress recomputes Progress from checkbox completion.
	AutoProgress bool
	// Paths restricts the run to specific documents (repo-relative).
	Paths []string
}

// Result summarizes a fixer run.
type Result struct {
	// Changed lists repo-relative paths that were (or would be) rewritten.
	Changed []string
	// Warnings are documents that failed to parse and were skipped.
	Warnings []repo.ScanWarning
	// Ambiguous lists reference repairs skipped because the slug matched
	// more than one candidate.
	Ambiguous []linker.Ambiguity
}

// Fixer repairs a repository's documents in one batch pass.
type Fixer struct {
	repo    *repo.Repository
	cfg     *config.Config
	journal flow.Journal
}

// New creates a Fixer. journal may be nil.
func New(r *repo.Repository, cfg *config.Config, journal flow.Journal) *Fixer {
	return &Fixer{repo: r, cfg: cfg, journal: journal}
}

// Run scans every document, repairs structure and indicators, then repairs
// cross-references. Per-document parse failures accumulate as warnings;
// the batch never aborts for one bad file.
func (f *Fixer) Run(opts Options) (*Result, error) {
	all, warnings, err := f.repo.ScanAll()
	if err != nil {
		return nil, err
	}
	result := &Result{Warnings: warnings}

	selected := filterPaths(all, opts.Paths)
	changed := map[string]bool{}

	for _, doc := range selected {
		if f.fixIndicators(doc, opts.AutoProgress) {
			changed[doc.Ref] = true
		}
		if f.fixSections(doc) {
			changed[doc.Ref] = true
		}
	}

	// Reference repair works on the full scanned set so a filtered run
	// still sees every link candidate.
	report := linker.Repair(all)
	result.Ambiguous = report.Ambiguous
	for ref := range report.Changed {
		changed[ref] = true
	}

	for _, doc := range all {
		if !changed[doc.Ref] {
			continue
		}
		result.Changed = append(result.Changed, doc.Path)
		if opts.Write {
			if err := f.repo.Rewrite(doc); err != nil {
				return nil, err
			}
			f.record(doc.Ref)
		}
	}
	return result, nil
}

// fixIndicators fills missing required indicators with their defaults and
// recomputes Progress when enabled. Reports whether the document changed.
func (f *Fixer) fixIndicators(doc *docs.Document, autoProgress bool) bool {
	changed := false
	for _, label := range doc.MissingIndicators() {
		doc.SetIndicator(label, docs.Defaults[label])
		changed = true
	}

	if autoProgress && doc.Kind.HasProgress() {
		if computed, ok := docs.ComputeProgress(doc); ok {
			if f.shouldSetProgress(doc, computed) {
				doc.SetIndicator(docs.Progress, docs.FormatPercent(computed))
				changed = true
			}
		}
	}
	return changed
}

// shouldSetProgress applies the progress precedence policy: auto-computed
// progress never lowers a higher manually-set value unless the config
// allows decreases.
func (f *Fixer) shouldSetProgress(doc *docs.Document, computed int) bool {
	current, has := doc.Indicator(docs.Progress)
	if !has {
		return true
	}
	existing, parseable := docs.ParsePercent(current)
	if !parseable {
		return true // placeholder like "??%"
	}
	if computed == existing {
		return false
	}
	if computed < existing && !f.cfg.Progress.AllowDecrease {
		return false
	}
	return true
}

// fixSections appends any required section the document is missing.
func (f *Fixer) fixSections(doc *docs.Document) bool {
	changed := false
	for _, def := range requiredSections[doc.Kind] {
		lines := def.lines
		if doc.Kind == docs.KindTask && def.heading == "# Validation" {
			lines = make([]string, len(f.cfg.Validation))
			for i, cmd := range f.cfg.Validation {
				lines[i] = "- " + cmd
			}
		}
		if doc.EnsureSection(def.heading, lines) {
			changed = true
		}
	}
	return changed
}

func filterPaths(all []*docs.Document, paths []string) []*docs.Document {
	if len(paths) == 0 {
		return all
	}
	wanted := map[string]bool{}
	for _, p := range paths {
		wanted[filepath.ToSlash(p)] = true
	}
	var out []*docs.Document
	for _, doc := range all {
		if wanted[doc.Path] {
			out = append(out, doc)
		}
	}
	return out
}

func (f *Fixer) record(ref string) {
	if f.journal == nil {
		return
	}
	_ = f.journal.Record("fix", ref, fmt.Sprintf("repaired %s", ref))
}
