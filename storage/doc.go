// Package storage defines the persistence contract for embedded LAQ items
// and the serialization used by backends. The badger subpackage provides the
// production implementation.
package storage
