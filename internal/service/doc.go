// Package service contains the application use cases: registering and
// authenticating users, and owner-scoped task management.
//
// Services validate their input structs, build domain entities and call the
// store interfaces. They never see HTTP types; the api package maps the
// errors returned here to status codes.
package service
