package settlement

import (
	"github.com/iov-one/weave/errors"
)

var (
	// ErrUnderflow is returned when a checked subtraction would produce
	// a negative amount. It signals an inconsistent fee policy, for
	// example fees exceeding the payment.
	ErrUnderflow = errors.Register(1200, "an operation cannot be completed due to value underflow")

	// ErrInvalidRecipient is returned when a supplied payout candidate
	// does not match the expected recipient.
	ErrInvalidRecipient = errors.Register(1201, "invalid recipient")

	// ErrMissingRecipient is returned when fewer payout candidates are
	// supplied than creators with a nonzero share.
	ErrMissingRecipient = errors.Register(1202, "missing recipient")
)
