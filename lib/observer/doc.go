// Package observer defines the hook readers call while reading rows, and the
// no-op default used when a caller does not pass one.
package observer
