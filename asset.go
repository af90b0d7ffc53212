package ocean

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// FungibleToken is the boundary to an external fungible asset contract.
// Amounts are in the asset's native precision, reported by Decimals.
type FungibleToken interface {
	// Decimals returns the asset's native fixed-point precision. An error
	// aborts any wrap or unwrap of the asset.
	Decimals() (uint8, error)

	// TransferFrom moves amount from `from` into `to`'s custody, using the
	// asset's own approval rules.
	TransferFrom(from, to common.Address, amount *uint256.Int) error

	// Transfer moves amount out of the caller's custody to `to`.
	Transfer(to common.Address, amount *uint256.Int) error
}

// NonFungibleToken is the boundary to an external non-fungible asset
// contract. Each sub-id is a single indivisible unit.
type NonFungibleToken interface {
	// SafeTransferFrom moves one token, invoking the receiver callback on
	// the destination if it expects one.
	SafeTransferFrom(from, to common.Address, subID common.Hash) error
}

// MultiToken is the boundary to an external semi-fungible asset contract.
type MultiToken interface {
	// SafeTransferFrom moves amount of sub-id, invoking the receiver
	// callback on the destination if it expects one.
	SafeTransferFrom(from, to common.Address, subID common.Hash, amount *uint256.Int) error
}

// transferStatus tracks whether the engine is currently expecting an
// inbound safe-transfer callback. Anything arriving outside that window is
// unsolicited and rejected rather than silently accepted.
type transferStatus uint8

const (
	transferNotExpected transferStatus = iota
	transferExpected
)

// wrapFungible collects external backing for a ledger credit of `amount`
// (ledger precision). The external transfer is the ceiling of the required
// native amount; any over-collection is minted to the engine owner as dust
// revenue. The user's own ledger credit is applied by the dispatch path,
// not here.
func (e *Engine) wrapFungible(token common.Address, amount *uint256.Int, user common.Address) error {
	adapter, ok := e.erc20s[token]
	if !ok {
		return ErrUnknownToken
	}
	decimals, err := adapter.Decimals()
	if err != nil {
		return &DecimalsError{Token: token, Err: err}
	}

	transfer, dust, err := determineTransferAmount(amount, decimals)
	if err != nil {
		return err
	}
	if err := adapter.TransferFrom(user, e.address, transfer); err != nil {
		return &TransferError{Token: token, Err: err}
	}
	if !dust.IsZero() {
		return e.ledger.Mint(e.owner, FungibleTokenID(token), dust)
	}
	return nil
}

// unwrapFungible pays out `amount` (ledger precision) minus the unwrap fee
// in the asset's native precision. Sub-precision truncation is folded into
// the fee, so nothing is lost: fee plus truncation is minted to the engine
// owner in ledger credit.
func (e *Engine) unwrapFungible(token common.Address, amount *uint256.Int, user common.Address) error {
	adapter, ok := e.erc20s[token]
	if !ok {
		return ErrUnknownToken
	}
	decimals, err := adapter.Decimals()
	if err != nil {
		return &DecimalsError{Token: token, Err: err}
	}

	fee := e.unwrapFee(amount)
	remaining := new(uint256.Int).Sub(amount, fee)
	transfer, truncated, err := convertDecimals(NormalizedDecimals, decimals, remaining)
	if err != nil {
		return err
	}

	feeTotal := new(uint256.Int).Add(fee, truncated)
	if !feeTotal.IsZero() {
		if err := e.ledger.Mint(e.owner, FungibleTokenID(token), feeTotal); err != nil {
			return err
		}
	}
	if err := adapter.Transfer(user, transfer); err != nil {
		return &TransferError{Token: token, Err: err}
	}
	return nil
}

// wrapNonFungible takes custody of one external non-fungible token. The
// inbound callback window is open only for the duration of the transfer.
func (e *Engine) wrapNonFungible(token common.Address, subID common.Hash, amount *uint256.Int, user common.Address) error {
	if !amount.Eq(uint256.NewInt(1)) {
		return ErrNFTAmount
	}
	adapter, ok := e.erc721s[token]
	if !ok {
		return ErrUnknownToken
	}

	e.erc721Status = transferExpected
	defer func() { e.erc721Status = transferNotExpected }()

	if err := adapter.SafeTransferFrom(user, e.address, subID); err != nil {
		return &TransferError{Token: token, Err: err}
	}
	return nil
}

// unwrapNonFungible releases one external non-fungible token. Indivisible
// units carry no unwrap fee.
func (e *Engine) unwrapNonFungible(token common.Address, subID common.Hash, amount *uint256.Int, user common.Address) error {
	if !amount.Eq(uint256.NewInt(1)) {
		return ErrNFTAmount
	}
	adapter, ok := e.erc721s[token]
	if !ok {
		return ErrUnknownToken
	}
	if err := adapter.SafeTransferFrom(e.address, user, subID); err != nil {
		return &TransferError{Token: token, Err: err}
	}
	return nil
}

// wrapMultiToken takes custody of an external semi-fungible amount.
// Semi-fungible ledgers carry no decimal convention, so amounts pass
// through unconverted.
func (e *Engine) wrapMultiToken(token common.Address, subID common.Hash, amount *uint256.Int, user common.Address) error {
	adapter, ok := e.erc1155s[token]
	if !ok {
		return ErrUnknownToken
	}

	e.erc1155Status = transferExpected
	defer func() { e.erc1155Status = transferNotExpected }()

	if err := adapter.SafeTransferFrom(user, e.address, subID, amount); err != nil {
		return &TransferError{Token: token, Err: err}
	}
	return nil
}

// unwrapMultiToken releases an external semi-fungible amount minus the
// unwrap fee, which is minted to the engine owner in ledger credit.
func (e *Engine) unwrapMultiToken(token common.Address, subID common.Hash, amount *uint256.Int, user common.Address) error {
	adapter, ok := e.erc1155s[token]
	if !ok {
		return ErrUnknownToken
	}

	fee := e.unwrapFee(amount)
	if !fee.IsZero() {
		if err := e.ledger.Mint(e.owner, CalculateTokenID(token, subID), fee); err != nil {
			return err
		}
	}
	remaining := new(uint256.Int).Sub(amount, fee)
	if err := adapter.SafeTransferFrom(e.address, user, subID, remaining); err != nil {
		return &TransferError{Token: token, Err: err}
	}
	return nil
}

// unwrapFee computes floor(amount / divisor).
func (e *Engine) unwrapFee(amount *uint256.Int) *uint256.Int {
	return new(uint256.Int).Div(amount, e.feeDivisor)
}

// OnERC721Received accepts an inbound non-fungible transfer only while a
// wrap is in flight. Unsolicited transfers are rejected so they cannot be
// silently absorbed into the engine's custody.
func (e *Engine) OnERC721Received(operator, from common.Address, subID common.Hash, data []byte) error {
	if e.erc721Status != transferExpected {
		return ErrUnexpectedTransfer
	}
	return nil
}

// OnERC1155Received accepts an inbound semi-fungible transfer only while a
// wrap is in flight.
func (e *Engine) OnERC1155Received(operator, from common.Address, subID common.Hash, amount *uint256.Int, data []byte) error {
	if e.erc1155Status != transferExpected {
		return ErrUnexpectedTransfer
	}
	return nil
}
