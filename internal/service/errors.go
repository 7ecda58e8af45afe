package service

import "errors"

// Sentinel errors returned by the services. Controllers map these onto HTTP
// status codes; everything else is treated as a 500.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrAccountBlocked      = errors.New("account is blocked")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrUnauthorized        = errors.New("admins only")
	ErrForbidden           = errors.New("access denied")
	ErrApplicationNotFound = errors.New("application not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrVersionConflict     = errors.New("application was modified by another request")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrNothingDue          = errors.New("no outstanding balance on this application")
)
