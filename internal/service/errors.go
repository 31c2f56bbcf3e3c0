package service

import "errors"

var (
	ErrUnauthenticated    = errors.New("not signed in")
	ErrForbidden          = errors.New("not permitted for this role")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyCredentials   = errors.New("username and password cannot be empty")
	ErrUserNotFound       = errors.New("user not found")
	ErrLastAdmin          = errors.New("cannot change the role of the only administrator")
	ErrSelfDelete         = errors.New("admins cannot delete their own account")
	ErrInvalidRole        = errors.New("role must be admin or staff")

	ErrBillNotFound       = errors.New("bill not found")
	ErrUnknownZone        = errors.New("unknown game zone")
	ErrUnknownTier        = errors.New("unknown pricing tier")
	ErrUnknownDuration    = errors.New("unknown duration")
	ErrInvalidPayment     = errors.New("payment method must be Cash, UPI or Card")
	ErrNegativeDiscount   = errors.New("discount cannot be negative")
	ErrMissingCustomer    = errors.New("customer name and age are required")
	ErrArchiveUnavailable = errors.New("archive storage is not configured")
)
