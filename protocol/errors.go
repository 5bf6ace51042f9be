package protocol

import "errors"

// Protocol errors. InsufficientBalance and WindowFull are retryable caller
// conditions; the rest indicate a malformed request or a fatal
// misconfiguration.
var (
	ErrInvalidConfig       = errors.New("protocol: invalid config")
	ErrInvalidGenesis      = errors.New("protocol: invalid genesis state")
	ErrInsufficientBalance = errors.New("protocol: insufficient balance")
	ErrWindowFull          = errors.New("protocol: slot window full")
	ErrUnknownBlock        = errors.New("protocol: unknown block")
	ErrDuplicateBlock      = errors.New("protocol: duplicate block")
	ErrArithmeticOverflow  = errors.New("protocol: arithmetic overflow")
)

// IsRetryable reports whether err is a transient condition the caller is
// expected to retry: the proposer lacks funds, or the slot window is at
// capacity and a proof must land first.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrWindowFull)
}
