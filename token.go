package ocean

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// TokenID is the canonical 256-bit identifier of a token on the ocean
// ledger. Fungible external tokens map to their contract address; all other
// tokens map to a hash of the issuing contract and a 32-byte sub-identifier.
type TokenID [32]byte

// Hex returns the id as a 0x-prefixed hex string.
func (id TokenID) Hex() string {
	return common.Hash(id).Hex()
}

// Hash returns the id as a common.Hash.
func (id TokenID) Hash() common.Hash {
	return common.Hash(id)
}

// IsZero returns true for the zero token id.
func (id TokenID) IsZero() bool {
	return id == TokenID{}
}

// FungibleTokenID derives the ledger id of a wrapped fungible token: the
// contract address occupies the low 20 bytes, the high bytes are zero.
func FungibleTokenID(token common.Address) TokenID {
	return TokenID(common.BytesToHash(token.Bytes()))
}

// CalculateTokenID derives the ledger id of a wrapped non-fungible or
// semi-fungible token, or of a primitive-issued token, as
// keccak256(contract || subID). The derivation is deterministic: the same
// contract and sub-id always produce the same ledger id.
func CalculateTokenID(contract common.Address, subID common.Hash) TokenID {
	return TokenID(crypto.Keccak256Hash(contract.Bytes(), subID.Bytes()))
}
