// Package delivery defines the contract every transport entry point fulfils.
package delivery

import "context"

// Delivery is a serving surface (HTTP today). Serve blocks until the
// underlying server stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
