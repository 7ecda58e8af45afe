package caseflow

import "staysure-portal-be/internal/entity"

// allowedTransitions is the forward-only case lifecycle. Rejection is the
// single escape hatch: reachable from every non-terminal status. Completed
// and rejected have no outgoing edges.
var allowedTransitions = map[entity.ApplicationStatus][]entity.ApplicationStatus{
	entity.StatusPending:   {entity.StatusReviewing, entity.StatusRejected},
	entity.StatusReviewing: {entity.StatusSubmitted, entity.StatusRejected},
	entity.StatusSubmitted: {entity.StatusApproved, entity.StatusRejected},
	entity.StatusApproved:  {entity.StatusCompleted, entity.StatusRejected},
	entity.StatusCompleted: nil,
	entity.StatusRejected:  nil,
}

// CanTransition reports whether a case may move from one status to another.
func CanTransition(from, to entity.ApplicationStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known case statuses.
func ValidStatus(s entity.ApplicationStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}
