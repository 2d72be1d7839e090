// Package memory implements the store interfaces in process memory. It backs
// the "memory" database driver for local runs and the HTTP tests; data is
// lost on restart.
package memory
