// Package repo implements the repository handle: document discovery,
// ID allocation, and all-or-nothing persistence for Logics docs.
//
// The documents root is constructor-injected — no component reads ambient
// global state. Every operation re-scans the filesystem fresh; the Markdown
// tree under version control is the single source of truth.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/logics-tools/logics/internal/docs"
)

// DuplicateIDError reports an allocator race: the target path for a freshly
// allocated doc_ref already exists. Detected at write time; the operation
// fails loudly rather than overwriting.
type DuplicateIDError struct {
	Path string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("document already exists at %s (ID allocated twice?)", e.Path)
}

// ScanWarning records a document that failed to parse during a batch scan.
type ScanWarning struct {
	Path string
	Err  error
}

// Repository is the handle to one Logics documents root.
type Repository struct {
	root string
}

// New creates a Repository rooted at the given directory (the directory
// containing logics/).
func New(root string) *Repository {
	return &Repository{root: root}
}

// Root returns the repository root path.
func (r *Repository) Root() string { return r.root }

// FindRoot walks up from start looking for a logics/ directory.
// Returns an error when no enclosing Logics repository exists.
func FindRoot(start string) (string, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	for {
		info, err := os.Stat(filepath.Join(current, "logics"))
		if err == nil && info.IsDir() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("could not locate repository root (no 'logics/' directory above %s)", start)
		}
		current = parent
	}
}

// KindDir returns the absolute directory for a kind's documents.
func (r *Repository) KindDir(kind docs.Kind) string {
	return filepath.Join(r.root, filepath.FromSlash(kind.Dir()))
}

// DocPath returns the absolute path a document of the given ref would
// occupy.
func (r *Repository) DocPath(kind docs.Kind, id int, slug string) string {
	return filepath.Join(r.KindDir(kind), docs.FormatRef(kind, id, slug)+".md")
}

// RelPath converts an absolute path under the root to the repo-relative
// forward-slash form used inside documents.
func (r *Repository) RelPath(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Scan parses every document of one kind. Malformed files become warnings,
// never fatal errors; the batch continues with the rest. Results are sorted
// by filename so output is deterministic.
func (r *Repository) Scan(kind docs.Kind) ([]*docs.Document, []ScanWarning, error) {
	dir := r.KindDir(kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var result []*docs.Document
	var warnings []ScanWarning
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			warnings = append(warnings, ScanWarning{Path: r.RelPath(path), Err: err})
			continue
		}
		doc, err := docs.Parse(kind, r.RelPath(path), data)
		if err != nil {
			warnings = append(warnings, ScanWarning{Path: r.RelPath(path), Err: err})
			continue
		}
		result = append(result, doc)
	}
	return result, warnings, nil
}

// ScanAll parses every document of every kind, in lifecycle order.
func (r *Repository) ScanAll() ([]*docs.Document, []ScanWarning, error) {
	var all []*docs.Document
	var warnings []ScanWarning
	for _, kind := range docs.AllKinds {
		scanned, w, err := r.Scan(kind)
		if err != nil {
			return nil, nil, err
		}
		all = append(all, scanned...)
		warnings = append(warnings, w...)
	}
	return all, warnings, nil
}

// Resolve loads the document with the given doc_ref, or an error when no
// file with that ref exists.
func (r *Repository) Resolve(ref string) (*docs.Document, error) {
	kind, _, _, err := docs.ParseRef(ref)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(r.KindDir(kind), ref+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %q not found", ref)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return docs.Parse(kind, r.RelPath(path), data)
}

// NextID scans existing filenames of a kind and returns max(IDs)+1, or 1
// on an empty repository. IDs are never reused for non-maximal deletions.
func (r *Repository) NextID(kind docs.Kind) (int, error) {
	dir := r.KindDir(kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, fmt.Errorf("reading %s: %w", dir, err)
	}

	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(kind.Prefix()) + `_(\d+)_.*\.md$`)
	maxID := 0
	for _, entry := range entries {
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

// SlugExists reports whether any document of the kind already uses the slug.
// Callers disambiguate collisions by appending the numeric ID.
func (r *Repository) SlugExists(kind docs.Kind, slug string) (bool, error) {
	scanned, _, err := r.Scan(kind)
	if err != nil {
		return false, err
	}
	for _, doc := range scanned {
		if doc.Slug() == slug {
			return true, nil
		}
	}
	return false, nil
}

// Create writes a brand-new document file. All-or-nothing: the write fails
// with DuplicateIDError when the path already exists (allocator race), and
// nothing is written on any error.
func (r *Repository) Create(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return &DuplicateIDError{Path: path}
		}
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Rewrite persists a mutated document back to its scanned path.
func (r *Repository) Rewrite(doc *docs.Document) error {
	if doc.Path == "" {
		return fmt.Errorf("document %q has no path", doc.Ref)
	}
	path := filepath.Join(r.root, filepath.FromSlash(doc.Path))
	if err := os.WriteFile(path, doc.Serialize(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
