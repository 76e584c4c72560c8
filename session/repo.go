package session

import "context"

// VariableRepo persists instance variables, keyed by session name.
type VariableRepo interface {
	// List returns every variable stored for session. An unknown session
	// has no variables and is not an error.
	List(ctx context.Context, session string) (map[string]any, error)

	// Set creates or replaces a variable.
	Set(ctx context.Context, session, name string, value any) error

	// Delete removes a variable. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, session, name string) error
}
