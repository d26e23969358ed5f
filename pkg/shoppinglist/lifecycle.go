package shoppinglist

import (
	"time"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"
)

// transitions lists, per status, the statuses a list may move to next.
// COMPLETED and EXPIRED are terminal.
var transitions = map[entities.ListStatus][]entities.ListStatus{
	entities.ListStatusInProgress: {entities.ListStatusTriaged},
	entities.ListStatusTriaged:    {entities.ListStatusPending},
	entities.ListStatusPending:    {entities.ListStatusCompleted, entities.ListStatusExpired},
	entities.ListStatusCompleted:  {},
	entities.ListStatusExpired:    {},
}

func CanTransition(from, to entities.ListStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves list to status to. Asking for the current status is a
// no-op; completing stamps CompletedAt.
func Transition(list *entities.ShoppingList, to entities.ListStatus, now time.Time) error {
	if list.Status == to {
		return nil
	}
	if !CanTransition(list.Status, to) {
		return &domain.TransitionError{From: string(list.Status), To: string(to)}
	}

	list.Status = to
	if to == entities.ListStatusCompleted {
		list.CompletedAt = &now
	}
	return nil
}

// markCompleted closes a list through the completion engine, which accepts
// TRIAGED as well as PENDING lists.
func markCompleted(list *entities.ShoppingList, now time.Time) {
	list.Status = entities.ListStatusCompleted
	list.CompletedAt = &now
}
