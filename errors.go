package ocean

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for common failure conditions.
var (
	// ErrReentrantCall indicates an interaction entry point was re-entered
	// while a batch was already in flight.
	ErrReentrantCall = errors.New("ocean: reentrant interaction call")

	// ErrNotOwner indicates an administrative operation was attempted by a
	// caller other than the engine owner.
	ErrNotOwner = errors.New("ocean: caller is not the owner")

	// ErrNotApproved indicates a forwarded call without standing operator
	// approval from the user being acted for.
	ErrNotApproved = errors.New("ocean: forwarder not approved by user")

	// ErrFeeDivisorTooLow indicates an unwrap fee divisor below the minimum,
	// which would allow a fee rate above the cap.
	ErrFeeDivisorTooLow = errors.New("ocean: unwrap fee divisor below minimum")

	// ErrMissingTokenID indicates an interaction touched a token that was not
	// declared in the batch's token id list.
	ErrMissingTokenID = errors.New("ocean: missing token id")

	// ErrAmountTooLarge indicates an amount whose magnitude does not safely
	// fit the signed 256-bit delta range.
	ErrAmountTooLarge = errors.New("ocean: amount exceeds signed range")

	// ErrDeltaOverflow indicates a running delta total overflowed the signed
	// 256-bit range.
	ErrDeltaOverflow = errors.New("ocean: balance delta overflow")

	// ErrDeltaSign indicates a delta roll-over whose stored sign disagrees
	// with the direction the interaction requires.
	ErrDeltaSign = errors.New("ocean: delta sign mismatch")

	// ErrDeltaUnavailable indicates the delta-amount sentinel was used
	// outside a batch, where no accumulated delta exists.
	ErrDeltaUnavailable = errors.New("ocean: delta roll-over requires a batch")

	// ErrNFTAmount indicates a non-fungible wrap or unwrap whose specified
	// amount is not exactly one unit.
	ErrNFTAmount = errors.New("ocean: non-fungible amount must be exactly one")

	// ErrInvalidInteraction indicates an unresolvable interaction kind or
	// token combination.
	ErrInvalidInteraction = errors.New("ocean: invalid interaction")

	// ErrUnknownToken indicates no asset adapter is registered for the
	// target contract address.
	ErrUnknownToken = errors.New("ocean: unknown external token")

	// ErrUnknownPrimitive indicates no primitive is registered at the target
	// contract address.
	ErrUnknownPrimitive = errors.New("ocean: unknown primitive")

	// ErrAlreadyRegistered indicates a duplicate adapter, primitive, or
	// issued-token registration.
	ErrAlreadyRegistered = errors.New("ocean: already registered")

	// ErrUnexpectedTransfer indicates an inbound asset-transfer callback
	// arrived while no wrap was in flight.
	ErrUnexpectedTransfer = errors.New("ocean: unsolicited asset transfer")

	// ErrDecimalOverflow indicates a decimal up-scaling that does not fit in
	// 256 bits.
	ErrDecimalOverflow = errors.New("ocean: decimal conversion overflow")

	// ErrLengthMismatch indicates batch id and amount arrays of different
	// lengths.
	ErrLengthMismatch = errors.New("ocean: id and amount length mismatch")

	// ErrInsufficientBalance indicates a burn or transfer exceeding the
	// owner's ledger balance.
	ErrInsufficientBalance = errors.New("ocean: insufficient balance")

	// ErrInvalidSnapshot indicates a revert to a snapshot id that was never
	// taken or is no longer live.
	ErrInvalidSnapshot = errors.New("ocean: invalid snapshot id")
)

// InteractionError wraps a failure of one interaction within a batch.
type InteractionError struct {
	Index int
	Kind  InteractionKind
	Err   error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("ocean: interaction %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *InteractionError) Unwrap() error {
	return e.Err
}

// DecimalsError indicates an external fungible asset failed to report its
// native precision, which aborts any wrap or unwrap against it.
type DecimalsError struct {
	Token common.Address
	Err   error
}

func (e *DecimalsError) Error() string {
	return fmt.Sprintf("ocean: token %s: reading decimals: %v", e.Token.Hex(), e.Err)
}

func (e *DecimalsError) Unwrap() error {
	return e.Err
}

// TransferError wraps an external asset transfer refused by the underlying
// token contract.
type TransferError struct {
	Token common.Address
	Err   error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("ocean: token %s: transfer: %v", e.Token.Hex(), e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
