package wallet

import "fmt"

// Kind is the stable machine-readable error classification surfaced to
// callers. Raw storage-layer errors are never exposed directly.
type Kind string

const (
	KindInsufficientBalance Kind = "insufficient_balance"
	KindAccountFrozen       Kind = "account_frozen"
	KindAccountNotFound     Kind = "account_not_found"
	KindDuplicateOperation  Kind = "duplicate_operation"
	KindInvalidAmount       Kind = "invalid_amount"
	KindInvalidAddress      Kind = "invalid_address"
	KindLimitExceeded       Kind = "limit_exceeded"
	KindPlacementNotFound   Kind = "placement_not_found"
)

// Error carries a stable kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, wallet.ErrInsufficientBalance) regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance, Message: "insufficient balance"}
	ErrAccountFrozen       = &Error{Kind: KindAccountFrozen, Message: "account is frozen"}
	ErrAccountNotFound     = &Error{Kind: KindAccountNotFound, Message: "account not found"}
	ErrDuplicateOperation  = &Error{Kind: KindDuplicateOperation, Message: "duplicate operation"}
	ErrInvalidAmount       = &Error{Kind: KindInvalidAmount, Message: "invalid amount"}
	ErrInvalidAddress      = &Error{Kind: KindInvalidAddress, Message: "invalid wallet address"}
	ErrLimitExceeded       = &Error{Kind: KindLimitExceeded, Message: "limit exceeded"}
	ErrPlacementNotFound   = &Error{Kind: KindPlacementNotFound, Message: "no qualifying placement found"}
)

func insufficientBalance(required, available float64) error {
	return &Error{
		Kind:    KindInsufficientBalance,
		Message: fmt.Sprintf("insufficient balance: required %.2f, available %.2f", required, available),
	}
}

func accountFrozen(reason string) error {
	msg := "account is frozen"
	if reason != "" {
		msg = fmt.Sprintf("account is frozen: %s", reason)
	}
	return &Error{Kind: KindAccountFrozen, Message: msg}
}

func accountNotFound(accountID string) error {
	return &Error{Kind: KindAccountNotFound, Message: fmt.Sprintf("account %s not found", accountID)}
}

func duplicateOperation(orderID string) error {
	return &Error{Kind: KindDuplicateOperation, Message: fmt.Sprintf("order %s already processed", orderID)}
}

func invalidAmount(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidAmount, Message: fmt.Sprintf(format, args...)}
}

func invalidAddress(message string) error {
	return &Error{Kind: KindInvalidAddress, Message: message}
}

// LimitExceeded builds a limit_exceeded error; exported because the
// withdrawal flow raises it outside this package.
func LimitExceeded(format string, args ...interface{}) error {
	return &Error{Kind: KindLimitExceeded, Message: fmt.Sprintf(format, args...)}
}

// Duplicate builds a duplicate_operation error; exported for flows that
// detect replays outside the ledger's unique order key.
func Duplicate(format string, args ...interface{}) error {
	return &Error{Kind: KindDuplicateOperation, Message: fmt.Sprintf(format, args...)}
}

// PlacementNotFound builds a placement_not_found error for the tree engine.
func PlacementNotFound(message string) error {
	return &Error{Kind: KindPlacementNotFound, Message: message}
}
