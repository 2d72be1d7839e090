// Package store defines the persistence contracts for users and tasks.
// Implementations live under internal/platform (postgres and memory); the
// service layer depends only on these interfaces and the shared errors.
package store
