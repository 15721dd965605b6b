package docs

import "fmt"

// ParseError reports a document whose heading or indicator block is
// malformed. Batch scans skip the document and keep going; the error is
// surfaced in the scan report instead of aborting.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Reason)
}

// InvalidTitleError reports a title that produces an empty slug
// (all-punctuation input). The operation aborts before any file is created.
type InvalidTitleError struct {
	Title string
}

func (e *InvalidTitleError) Error() string {
	return fmt.Sprintf("title %q produces an empty slug", e.Title)
}
