package ocean

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// On-chain deployments of this engine receive interactions as ABI-encoded
// calldata with the kind and target packed into one 32-byte word:
//
//	[kind:1][padding:11][target address:20]
//
// The functions below produce and consume that representation so plans
// built with this library can be submitted to a deployed engine.

// kindByteIndex and targetOffset fix the packed word layout.
const (
	kindByteIndex = 0
	targetOffset  = 12
)

// interactionComponents is the ABI layout of one interaction.
var interactionComponents = []abi.ArgumentMarshaling{
	{Name: "interactionTypeAndAddress", Type: "bytes32"},
	{Name: "inputToken", Type: "uint256"},
	{Name: "outputToken", Type: "uint256"},
	{Name: "specifiedAmount", Type: "uint256"},
	{Name: "metadata", Type: "bytes32"},
}

var (
	interactionType      = mustNewType("tuple", interactionComponents)
	interactionSliceType = mustNewType("tuple[]", interactionComponents)
	uint256SliceType     = mustNewType("uint256[]", nil)

	doInteractionArgs = abi.Arguments{{Type: interactionType}}

	doMultipleInteractionsArgs = abi.Arguments{
		{Type: interactionSliceType},
		{Type: uint256SliceType},
	}

	doInteractionSelector          = selector("doInteraction((bytes32,uint256,uint256,uint256,bytes32))")
	doMultipleInteractionsSelector = selector("doMultipleInteractions((bytes32,uint256,uint256,uint256,bytes32)[],uint256[])")
)

// mustNewType builds an ABI type or panics. Only used with compile-time
// constant type strings.
func mustNewType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(err)
	}
	return typ
}

// selector returns the 4-byte function selector for a signature.
func selector(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

// wireInteraction mirrors the on-chain interaction struct for ABI packing.
type wireInteraction struct {
	InteractionTypeAndAddress [32]byte
	InputToken                *big.Int
	OutputToken               *big.Int
	SpecifiedAmount           *big.Int
	Metadata                  [32]byte
}

// PackKindAndTarget packs an interaction kind and target contract address
// into the single 32-byte word the on-chain representation uses.
func PackKindAndTarget(kind InteractionKind, target common.Address) common.Hash {
	var word common.Hash
	word[kindByteIndex] = byte(kind)
	copy(word[targetOffset:], target.Bytes())
	return word
}

// UnpackKindAndTarget reverses PackKindAndTarget.
func UnpackKindAndTarget(word common.Hash) (InteractionKind, common.Address) {
	kind := InteractionKind(word[kindByteIndex])
	target := common.BytesToAddress(word[targetOffset:])
	return kind, target
}

// wire converts an interaction to its ABI shape.
func (in *Interaction) wire() wireInteraction {
	specified := new(big.Int)
	if in.SpecifiedAmount != nil {
		specified = in.SpecifiedAmount.ToBig()
	}
	return wireInteraction{
		InteractionTypeAndAddress: PackKindAndTarget(in.Kind, in.Target),
		InputToken:                new(big.Int).SetBytes(in.InputToken[:]),
		OutputToken:               new(big.Int).SetBytes(in.OutputToken[:]),
		SpecifiedAmount:           specified,
		Metadata:                  in.Metadata,
	}
}

// EncodeDoInteraction produces the calldata for submitting one interaction
// to an on-chain deployment: selector plus the ABI-encoded interaction.
func EncodeDoInteraction(interaction Interaction) ([]byte, error) {
	packed, err := doInteractionArgs.Pack(interaction.wire())
	if err != nil {
		return nil, err
	}
	return append(doInteractionSelector[:], packed...), nil
}

// EncodeDoMultipleInteractions produces the calldata for submitting a batch
// with its declared token id list.
func EncodeDoMultipleInteractions(interactions []Interaction, ids []TokenID) ([]byte, error) {
	wires := make([]wireInteraction, len(interactions))
	for i := range interactions {
		wires[i] = interactions[i].wire()
	}
	wireIDs := make([]*big.Int, len(ids))
	for i, id := range ids {
		wireIDs[i] = new(big.Int).SetBytes(id[:])
	}

	packed, err := doMultipleInteractionsArgs.Pack(wires, wireIDs)
	if err != nil {
		return nil, err
	}
	return append(doMultipleInteractionsSelector[:], packed...), nil
}
