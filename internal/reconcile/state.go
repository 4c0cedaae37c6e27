package reconcile

import "github.com/ozerpan/ercom-sync/internal/store"

// Action is what a reconciliation pass must do with a target document
// given its current lifecycle state.
type Action int

const (
	// CreateNew starts a fresh document, no predecessor.
	CreateNew Action = iota
	// ReuseDraft rebuilds the existing draft's body in place.
	ReuseDraft
	// CancelAndAmend cancels the submitted document and creates a
	// successor carrying a back-reference to it.
	CancelAndAmend
	// CreateUnrelated starts a fresh document next to a cancelled one,
	// without linking to it.
	CreateUnrelated
)

func (a Action) String() string {
	switch a {
	case CreateNew:
		return "create"
	case ReuseDraft:
		return "reuse draft"
	case CancelAndAmend:
		return "cancel and amend"
	case CreateUnrelated:
		return "create unrelated"
	}
	return "unknown"
}

// PlanTransition decides the action for a target document. Submitted
// documents are immutable, so any content change goes through
// cancel-and-amend; cancelled documents stay in history untouched.
func PlanTransition(exists bool, status store.DocStatus) Action {
	if !exists {
		return CreateNew
	}
	switch status {
	case store.StatusDraft:
		return ReuseDraft
	case store.StatusSubmitted:
		return CancelAndAmend
	default:
		return CreateUnrelated
	}
}
