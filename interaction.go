package ocean

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// InteractionKind identifies the operation an interaction requests. The set
// is closed: dispatch is an exhaustive switch over these values.
type InteractionKind uint8

const (
	// WrapFungible deposits an external fungible token for ledger credit.
	WrapFungible InteractionKind = iota

	// UnwrapFungible redeems ledger credit for an external fungible token,
	// charging the unwrap fee.
	UnwrapFungible

	// WrapNonFungible deposits a single external non-fungible token.
	WrapNonFungible

	// UnwrapNonFungible redeems a single external non-fungible token.
	UnwrapNonFungible

	// WrapMultiToken deposits an external semi-fungible token.
	WrapMultiToken

	// UnwrapMultiToken redeems an external semi-fungible token, charging
	// the unwrap fee.
	UnwrapMultiToken

	// ComputeOutputAmount asks a primitive for the output owed for a given
	// input amount.
	ComputeOutputAmount

	// ComputeInputAmount asks a primitive for the input owed for a given
	// output amount.
	ComputeInputAmount
)

// String returns the kind's name.
func (k InteractionKind) String() string {
	switch k {
	case WrapFungible:
		return "WrapFungible"
	case UnwrapFungible:
		return "UnwrapFungible"
	case WrapNonFungible:
		return "WrapNonFungible"
	case UnwrapNonFungible:
		return "UnwrapNonFungible"
	case WrapMultiToken:
		return "WrapMultiToken"
	case UnwrapMultiToken:
		return "UnwrapMultiToken"
	case ComputeOutputAmount:
		return "ComputeOutputAmount"
	case ComputeInputAmount:
		return "ComputeInputAmount"
	default:
		return "InvalidInteraction"
	}
}

// deltaAmount is the sentinel specified amount meaning "use the current
// accumulated delta for the specified token". It is the maximum unsigned
// 256-bit value, which can never be a legitimate literal amount because
// literal contributions must fit the signed range.
var deltaAmount = new(uint256.Int).SetAllOne()

// DeltaAmount returns the sentinel specified amount that rolls the current
// accumulated delta of the specified token into the interaction. Only valid
// inside a batch.
func DeltaAmount() *uint256.Int {
	return new(uint256.Int).Set(deltaAmount)
}

// Interaction is one requested step of a batch: wrap or unwrap an external
// asset, or delegate a swap computation to a primitive. Interactions are
// read-only during dispatch.
type Interaction struct {
	// Kind selects the effect handler.
	Kind InteractionKind

	// Target is the external asset contract for wraps and unwraps, or the
	// primitive contract for compute interactions.
	Target common.Address

	// Metadata is an opaque 32-byte field: the sub-id for non-fungible and
	// semi-fungible assets, passed through untouched to primitives.
	Metadata common.Hash

	// SpecifiedAmount is the amount of the specified token, or the
	// DeltaAmount sentinel to roll over the current batch delta.
	SpecifiedAmount *uint256.Int

	// InputToken names the input side of a ComputeOutputAmount interaction.
	// Unused for other kinds.
	InputToken TokenID

	// OutputToken names the output side of a ComputeInputAmount
	// interaction. Unused for other kinds.
	OutputToken TokenID
}

// SpecifiedToken derives the canonical id of the token whose amount the
// interaction names. For wraps and unwraps it is computed from the target
// contract (and sub-id where the asset has one); for compute interactions
// it is the side the caller did not name explicitly.
func (in *Interaction) SpecifiedToken() (TokenID, error) {
	switch in.Kind {
	case WrapFungible, UnwrapFungible:
		return FungibleTokenID(in.Target), nil
	case WrapNonFungible, UnwrapNonFungible, WrapMultiToken, UnwrapMultiToken:
		return CalculateTokenID(in.Target, in.Metadata), nil
	case ComputeOutputAmount:
		return in.InputToken, nil
	case ComputeInputAmount:
		return in.OutputToken, nil
	default:
		return TokenID{}, ErrInvalidInteraction
	}
}

// wantsDelta reports whether the interaction's specified amount is the
// roll-over sentinel.
func (in *Interaction) wantsDelta() bool {
	return in.SpecifiedAmount != nil && in.SpecifiedAmount.Eq(deltaAmount)
}

// amountOrZero returns the specified amount, treating nil as zero.
func (in *Interaction) amountOrZero() *uint256.Int {
	if in.SpecifiedAmount == nil {
		return new(uint256.Int)
	}
	return in.SpecifiedAmount
}
