// Package domain contains the core business entities of the task tracker:
// users and the tasks they own, plus the validation rules and sentinel
// errors shared by every layer. It has no knowledge of HTTP or storage.
package domain
