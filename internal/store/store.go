/**
 * @description
 * Shared definitions for the persistence backends. The application layer
 * depends on the small repository interface it declares itself; this package
 * provides the concrete implementations (JSON file, Postgres) and the
 * sentinel errors they share.
 */
package store

import "errors"

// ErrNotFound is returned when a subscription id does not exist in the store.
var ErrNotFound = errors.New("subscription not found")
