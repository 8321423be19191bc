// Package evidence persists captured frames associated with intruder
// verdicts and annotates them for review.
package evidence

import "context"

// Store is write-once blob storage keyed by filename. Save returns a
// publicly resolvable URL. For a store without side state, saving the same
// content under the same filename returns the same URL.
type Store interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}
