// Package delivery defines the entry points through which the outside world
// reaches the application.
package delivery

import "context"

// Delivery is a serving surface (HTTP today) started by the composition root.
type Delivery interface {
	// Serve blocks, accepting work until the context is cancelled or the
	// listener fails.
	Serve(ctx context.Context) error
}
