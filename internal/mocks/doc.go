// Package mocks provides hand-written test doubles for the store, auth and
// service interfaces. Each mock exposes an Fn field per method; when the
// field is nil a simple default is used instead.
package mocks
