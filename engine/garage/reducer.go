package garage

import (
	"context"

	"github.com/WessleyAI/carhub/engine/domain"
)

// ActionType selects a store operation.
type ActionType string

const (
	ActionAdd     ActionType = "ADD"
	ActionRemove  ActionType = "REMOVE"
	ActionToggle  ActionType = "TOGGLE"
	ActionClear   ActionType = "CLEAR"
	ActionHydrate ActionType = "HYDRATE"
)

// Action is a dispatched store operation. Vehicle is read by ADD and
// TOGGLE, Slug by REMOVE and State by HYDRATE.
type Action[E any] struct {
	Type    ActionType
	Vehicle domain.Vehicle
	Slug    string
	State   State[E]
}

// Reduce applies a to st. HYDRATE replaces the state wholesale without
// persisting; unknown action types return st unchanged.
func (s *Store[E]) Reduce(ctx context.Context, st State[E], a Action[E]) State[E] {
	switch a.Type {
	case ActionAdd:
		return s.Add(ctx, st, a.Vehicle)
	case ActionRemove:
		return s.Remove(ctx, st, a.Slug)
	case ActionToggle:
		return s.Toggle(ctx, st, a.Vehicle)
	case ActionClear:
		return s.Clear(ctx)
	case ActionHydrate:
		return s.sanitize(a.State)
	default:
		s.logger.WarnContext(ctx, "unknown action", "type", string(a.Type))
		return st
	}
}
