package source

import "context"

// Source produces a snapshot of candidates for a scope. Implementations must
// be safe to call from a background goroutine and should return promptly
// once ctx is done.
type Source interface {
	List(ctx context.Context, scope Scope) ([]Candidate, error)
}
