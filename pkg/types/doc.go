// Package types defines the entity model, event model, and standard error
// types for the Loom graph materializer: known classes, typed rows, the
// generic class-entity index, decoded ledger events, and the Store interface
// implemented by storage backends.
package types
