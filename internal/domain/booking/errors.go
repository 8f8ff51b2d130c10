package booking

import "errors"

type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindTiming        ErrorKind = "timing"
	KindNotFound      ErrorKind = "not_found"
)

// Error is a rejected transition. Code names the failed precondition.
type Error struct {
	kind ErrorKind
	code string
	msg  string
}

func newError(kind ErrorKind, code, msg string) *Error {
	return &Error{kind: kind, code: code, msg: msg}
}

func (e *Error) Error() string {
	return e.code + ": " + e.msg
}

func (e *Error) Kind() ErrorKind { return e.kind }
func (e *Error) Code() string    { return e.code }

// Is matches on code so wrapped or re-created errors compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.code == t.code
}

func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}
	return "", false
}

// Validation
var (
	ErrInvalidProperty   = newError(KindValidation, "InvalidProperty", "property does not exist or is not active")
	ErrSelfBooking       = newError(KindValidation, "SelfBooking", "host cannot book own property")
	ErrInvalidDateRange  = newError(KindValidation, "InvalidDateRange", "check-out must be a whole number of days after a future check-in")
	ErrDateConflict      = newError(KindValidation, "DateConflict", "dates overlap an existing booking")
	ErrInvalidPercentage = newError(KindValidation, "InvalidPercentage", "guest percentage must be within 0..100")
	ErrInvalidAddress    = newError(KindValidation, "InvalidAddress", "address must be 0x followed by 40 hex characters")
	ErrInvalidAmount     = newError(KindValidation, "InvalidAmount", "amount must be a non-negative integer")
	ErrUnknownTransition = newError(KindValidation, "UnknownTransition", "unknown transition")
	ErrMissingReference  = newError(KindValidation, "MissingPaymentReference", "off-chain bookings require a payment reference")
	ErrInvalidChannel    = newError(KindValidation, "InvalidChannel", "unknown payment channel")
	ErrInvalidFeeRate    = newError(KindValidation, "InvalidFeeRate", "fee rate must be within 0..denominator with a positive denominator")
)

// Status preconditions
var (
	ErrNotActive       = newError(KindValidation, "NotActive", "booking is not active")
	ErrAlreadyOpened   = newError(KindValidation, "AlreadyOpened", "check-in window already opened")
	ErrNotReady        = newError(KindValidation, "NotReady", "booking is not ready for check-in")
	ErrNotInWindow     = newError(KindValidation, "NotInWindow", "booking is not in its check-in window")
	ErrNotDisputed     = newError(KindValidation, "NotDisputed", "booking is not disputed")
	ErrAlreadyResolved = newError(KindValidation, "AlreadyResolved", "both parties already resolved the dispute")
	ErrNotEscalated    = newError(KindValidation, "NotEscalated", "booking is not escalated")
	ErrNotCancellable  = newError(KindValidation, "NotCancellable", "only active bookings can be cancelled")
)

// Authorization
var (
	ErrNotGuest   = newError(KindAuthorization, "NotGuest", "caller is not the guest")
	ErrNotParty   = newError(KindAuthorization, "NotParty", "caller is not the resolving party")
	ErrNotArbiter = newError(KindAuthorization, "NotArbiter", "caller is not the arbiter")
	ErrNotHost    = newError(KindAuthorization, "NotHost", "caller is not the property host")
)

// Timing
var (
	ErrTooEarly          = newError(KindTiming, "TooEarly", "check-in date not reached")
	ErrWindowExpired     = newError(KindTiming, "WindowExpired", "check-in window expired")
	ErrWindowNotExpired  = newError(KindTiming, "WindowNotExpired", "check-in window still open")
	ErrDisputeExpired    = newError(KindTiming, "DisputeExpired", "dispute window expired")
	ErrDisputeWindowOpen = newError(KindTiming, "DisputeWindowOpen", "dispute window still open")
	ErrPastCheckIn       = newError(KindTiming, "PastCheckIn", "check-in date already reached")
)

var (
	ErrBookingNotFound  = newError(KindNotFound, "BookingNotFound", "booking not found")
	ErrPropertyNotFound = newError(KindNotFound, "PropertyNotFound", "property not found")
)
