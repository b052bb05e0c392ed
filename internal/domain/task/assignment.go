package task

import (
	"context"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/google/uuid"
)

// AssigneePatch is the tagged variant for the assignedTo field of an update.
// The wire format overloads one field with four meanings (absent, null,
// empty string, concrete id); this type makes each state explicit.
type AssigneePatch struct {
	kind assigneePatchKind
	id   uuid.UUID
}

type assigneePatchKind int

const (
	assigneeUnchanged assigneePatchKind = iota
	assigneeRebalance
	assigneeClear
	assigneeSet
)

// AssigneeUnchanged leaves the current assignment as is (field absent).
func AssigneeUnchanged() AssigneePatch {
	return AssigneePatch{kind: assigneeUnchanged}
}

// AssigneeRebalance routes the task through the workload balancer
// (explicit null on the wire).
func AssigneeRebalance() AssigneePatch {
	return AssigneePatch{kind: assigneeRebalance}
}

// AssigneeClear explicitly unassigns the task (empty string on the wire).
func AssigneeClear() AssigneePatch {
	return AssigneePatch{kind: assigneeClear}
}

// AssigneeSet assigns the task to a concrete user.
func AssigneeSet(id uuid.UUID) AssigneePatch {
	return AssigneePatch{kind: assigneeSet, id: id}
}

// leastLoadedUser picks the user with the fewest currently-assigned tasks.
// Users are enumerated in creation order and users missing from the
// aggregation count as zero, so ties resolve deterministically to the
// first-encountered user. Returns nil when no users exist.
//
// This is read-then-decide with no locking: two concurrent calls may pick
// the same user. Load balancing here is approximate by contract.
func (s *service) leastLoadedUser(ctx context.Context) (*user.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	counts, err := s.repo.CountByAssignee(ctx)
	if err != nil {
		return nil, err
	}

	leastLoaded := &users[0]
	minCount := counts[users[0].ID]

	for i := range users {
		if counts[users[i].ID] < minCount {
			leastLoaded = &users[i]
			minCount = counts[users[i].ID]
		}
	}

	return leastLoaded, nil
}
