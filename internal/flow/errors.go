package flow

import (
	"fmt"

	"github.com/logics-tools/logics/internal/docs"
)

// InvalidPromotionError reports a promotion along an edge the lifecycle
// does not define (e.g. request→task directly), or a source doc_ref that
// does not resolve. The operation aborts with no partial write.
type InvalidPromotionError struct {
	SourceRef string
	Target    docs.Kind
	Reason    string
}

func (e *InvalidPromotionError) Error() string {
	return fmt.Sprintf("cannot promote %q to %s: %s", e.SourceRef, e.Target, e.Reason)
}
