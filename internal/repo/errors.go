package repo

import "errors"

// Domain errors surfaced by the stores. Handlers map them to HTTP problems.
// None of these is transient: every failure is terminal for the request.
var (
	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidToken  = errors.New("invalid invite token")
	ErrInviteUsed    = errors.New("invite already used")
	ErrInviteExpired = errors.New("invite expired")
	ErrNoEmail       = errors.New("account has no email")
	ErrEmailMismatch = errors.New("invite issued for a different email")
	ErrPlayerInUse   = errors.New("player has lineup entries")
	ErrOwnerRole     = errors.New("owner role cannot be granted or changed")
)
