// Package flow implements the document lifecycle state machine:
// creation of new documents from templates and promotion along the
// defined edges (request→backlog, backlog→task), with spec as a parallel
// artifact attachable at any stage.
//
// Every mutating operation is all-or-nothing per document: either the
// fully-formed file is written or nothing is. Source documents are never
// deleted or marked terminal — a request may spawn multiple backlog items.
package flow

import (
	"fmt"
	"strings"

	"github.com/logics-tools/logics/internal/config"
	"github.com/logics-tools/logics/internal/docs"
	"github.com/logics-tools/logics/internal/linker"
	"github.com/logics-tools/logics/internal/repo"
	"github.com/logics-tools/logics/internal/templates"
)

// Edges defines the valid promotion transitions. There is no terminal
// state: "Progress: 100%" on a task is a convention, not a transition.
var Edges = map[docs.Kind]docs.Kind{
	docs.KindRequest: docs.KindBacklog,
	docs.KindBacklog: docs.KindTask,
}

// CanPromote reports whether from→to is a defined edge.
func CanPromote(from, to docs.Kind) bool {
	return Edges[from] == to
}

// Journal receives a record of every applied flow operation. Nil disables
// journaling; the flow never depends on journal contents.
type Journal interface {
	Record(op, ref, detail string) error
}

// Engine orchestrates document creation and promotion.
type Engine struct {
	repo     *repo.Repository
	renderer *templates.Renderer
	cfg      *config.Config
	journal  Journal
}

// NewEngine wires the engine's collaborators. journal may be nil.
func NewEngine(r *repo.Repository, renderer *templates.Renderer, cfg *config.Config, journal Journal) *Engine {
	return &Engine{repo: r, renderer: renderer, cfg: cfg, journal: journal}
}

// NewParams describes a document to create.
type NewParams struct {
	Kind  docs.Kind
	Title string
	// Slug overrides the slug derived from the title.
	Slug string
	// Indicators overrides the default indicator values, keyed by label
	// (synonyms accepted).
	Indicators map[string]string
	DryRun     bool
}

// Result describes a created document.
type Result struct {
	Ref     string
	Path    string // absolute path of the new document
	Content string
	// SourceRef is set on promotions: the source document whose reference
	// section was updated.
	SourceRef string
}

// New allocates an ID and slug, renders the kind's template, applies
// indicator overrides, and writes the document. DryRun renders without
// touching the filesystem.
func (e *Engine) New(p NewParams) (*Result, error) {
	if err := docs.ValidateKind(p.Kind); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, &docs.InvalidTitleError{Title: p.Title}
	}

	ref, path, _, err := e.allocate(p.Kind, p.Title, p.Slug)
	if err != nil {
		return nil, err
	}

	common := e.commonBindings(ref, p.Title, p.Kind, p.Indicators)
	content, err := e.renderNew(p.Kind, common)
	if err != nil {
		return nil, err
	}

	result := &Result{Ref: ref, Path: path, Content: content}
	if p.DryRun {
		return result, nil
	}
	if err := e.repo.Create(path, []byte(content)); err != nil {
		return nil, err
	}
	e.record("new", ref, p.Title)
	return result, nil
}

// PromoteParams describes a promotion.
type PromoteParams struct {
	SourceRef  string
	Target     docs.Kind
	Indicators map[string]string
	DryRun     bool
}

// Promote creates a new target-kind document seeded from the source's
// acceptance-relevant sections and links the two bidirectionally. Valid
// only along Edges; anything else fails with InvalidPromotionError before
// any write.
func (e *Engine) Promote(p PromoteParams) (*Result, error) {
	if err := docs.ValidateKind(p.Target); err != nil {
		return nil, err
	}

	source, err := e.repo.Resolve(p.SourceRef)
	if err != nil {
		return nil, &InvalidPromotionError{SourceRef: p.SourceRef, Target: p.Target, Reason: err.Error()}
	}
	if !CanPromote(source.Kind, p.Target) {
		return nil, &InvalidPromotionError{
			SourceRef: p.SourceRef,
			Target:    p.Target,
			Reason:    fmt.Sprintf("no %s→%s edge", source.Kind, p.Target),
		}
	}

	ref, path, _, err := e.allocate(p.Target, source.Title, "")
	if err != nil {
		return nil, err
	}

	common := e.commonBindings(ref, source.Title, p.Target, p.Indicators)
	content, err := e.renderPromoted(p.Target, common, source)
	if err != nil {
		return nil, err
	}

	result := &Result{Ref: ref, Path: path, Content: content, SourceRef: source.Ref}
	if p.DryRun {
		return result, nil
	}

	if err := e.repo.Create(path, []byte(content)); err != nil {
		return nil, err
	}

	// Back-reference on the source. The target already carries its
	// "Derived from" line from the seeded template.
	target, err := docs.Parse(p.Target, e.repo.RelPath(path), []byte(content))
	if err != nil {
		return nil, fmt.Errorf("re-parsing created document: %w", err)
	}
	if linker.Connect(source, target) {
		if err := e.repo.Rewrite(source); err != nil {
			return nil, fmt.Errorf("updating source references: %w", err)
		}
	}
	e.record("promote", ref, "from "+source.Ref)
	return result, nil
}

// allocate picks the next free ID and a collision-tolerant slug, returning
// the doc_ref and target path. When the derived slug is already taken by
// another document of the kind, the numeric ID is appended — IDs are
// unique, so the combined slug is too.
func (e *Engine) allocate(kind docs.Kind, title, slugOverride string) (ref, path, slug string, err error) {
	raw := title
	if slugOverride != "" {
		raw = slugOverride
	}
	slug, err = docs.Slugify(raw)
	if err != nil {
		return "", "", "", err
	}

	id, err := e.repo.NextID(kind)
	if err != nil {
		return "", "", "", err
	}

	taken, err := e.repo.SlugExists(kind, slug)
	if err != nil {
		return "", "", "", err
	}
	if taken {
		slug = fmt.Sprintf("%s_%d", slug, id)
	}

	ref = docs.FormatRef(kind, id, slug)
	path = e.repo.DocPath(kind, id, slug)
	return ref, path, slug, nil
}

// commonBindings merges indicator defaults with caller overrides.
func (e *Engine) commonBindings(ref, title string, kind docs.Kind, overrides map[string]string) templates.Common {
	values := map[string]string{}
	for label, def := range docs.Defaults {
		values[label] = def
	}
	for label, v := range overrides {
		if v != "" {
			values[docs.CanonicalLabel(label)] = v
		}
	}
	return templates.Common{
		DocRef:        ref,
		Title:         title,
		FromVersion:   values[docs.FromVersion],
		Understanding: values[docs.Understanding],
		Confidence:    values[docs.Confidence],
		Complexity:    values[docs.Complexity],
		Theme:         values[docs.Theme],
		Progress:      values[docs.Progress],
	}
}

// renderNew renders the blank skeleton for a kind.
func (e *Engine) renderNew(kind docs.Kind, common templates.Common) (string, error) {
	switch kind {
	case docs.KindRequest:
		return e.renderer.Render(kind, templates.RequestData{
			Common:  common,
			Needs:   []string{"Describe the need"},
			Context: "Add context and constraints.",
		})
	case docs.KindBacklog:
		return e.renderer.Render(kind, templates.BacklogData{
			Common:     common,
			Problem:    "Describe the problem and user impact.",
			Acceptance: []string{"Define acceptance criteria"},
		})
	case docs.KindTask:
		return e.renderer.Render(kind, templates.TaskData{
			Common:     common,
			Context:    "Add task context.",
			Plan:       []string{"First implementation step", "Second implementation step", "Third implementation step"},
			Validation: e.cfg.Validation,
		})
	default:
		return e.renderer.Render(kind, templates.SpecData{
			Common:      common,
			Overview:    "Describe the user-facing behavior and context.",
			Goal:        "Primary goal",
			NonGoal:     "Explicitly out of scope",
			UseCase:     "Key use case",
			Requirement: "Requirement",
			Acceptance:  "Acceptance criterion",
			Validation:  "How to validate it",
			Question:    "Open question",
		})
	}
}

// renderPromoted renders a target document seeded from the source's
// acceptance-relevant sections.
func (e *Engine) renderPromoted(target docs.Kind, common templates.Common, source *docs.Document) (string, error) {
	switch target {
	case docs.KindBacklog:
		acceptance := bulletTexts(source.Section("# Needs"))
		if len(acceptance) == 0 {
			acceptance = []string{"Define acceptance criteria"}
		}
		return e.renderer.Render(target, templates.BacklogData{
			Common:     common,
			Problem:    fmt.Sprintf("Promoted from `%s`.", source.Path),
			Acceptance: acceptance,
			Notes:      []string{fmt.Sprintf("- Derived from `%s`.", source.Path)},
		})
	case docs.KindTask:
		plan := bulletTexts(source.Section("# Acceptance criteria"))
		if len(plan) == 0 {
			plan = []string{"Clarify scope and acceptance criteria", "Implement changes", "Add/adjust tests and polish UX"}
		}
		return e.renderer.Render(target, templates.TaskData{
			Common:     common,
			Context:    fmt.Sprintf("Derived from `%s`.", source.Path),
			Plan:       plan,
			Validation: e.cfg.Validation,
		})
	default:
		return "", &InvalidPromotionError{Target: target, Reason: "no template seeding for this edge"}
	}
}

// bulletTexts extracts the text of "- " bullets (checkboxed or not) from a
// section, for seeding the next stage's list.
func bulletTexts(section *docs.Section) []string {
	if section == nil {
		return nil
	}
	var out []string
	for _, line := range section.Lines {
		text := strings.TrimSpace(line)
		if !strings.HasPrefix(text, "- ") {
			continue
		}
		text = strings.TrimSpace(strings.TrimPrefix(text, "- "))
		for _, box := range []string{"[ ]", "[x]", "[X]"} {
			if strings.HasPrefix(text, box) {
				text = strings.TrimSpace(strings.TrimPrefix(text, box))
				break
			}
		}
		if text == "" || strings.Contains(text, "(none yet)") {
			continue
		}
		out = append(out, text)
	}
	return out
}

func (e *Engine) record(op, ref, detail string) {
	if e.journal == nil {
		return
	}
	// Journaling is best-effort; a failed insert never fails the flow.
	_ = e.journal.Record(op, ref, detail)
}
