package services

import "errors"

// Business errors surfaced by the service layer. Handlers map these to HTTP
// statuses; anything else is a server failure.
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrAssigneeNotFound   = errors.New("assigned user not found")
)
