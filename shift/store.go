package shift

import "context"

// =============================================================================
// STORE - External persistence collaborator
// =============================================================================

// Store is the durable holder of the composed State. The engine treats it
// as a whole-document key-value store: last write wins, a reader never
// sees a half-written state. Implementations live under store/.
//
// Load returns ErrStateNotFound when nothing has been saved yet; the
// engine then seeds the cold-start state.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
}
