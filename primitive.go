package ocean

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Primitive is the pricing capability an external contract exposes to the
// engine. A primitive establishes a market between ledger tokens; the
// engine never inspects its math, it only asks for one side of a swap given
// the other.
//
// Both methods are invoked by the engine only. A primitive may query the
// ledger synchronously while computing, including its own balances, and
// will always observe values consistent with every effect completed so far.
type Primitive interface {
	// ComputeOutputAmount returns the output amount owed for inputAmount of
	// inputToken.
	ComputeOutputAmount(inputToken, outputToken TokenID, inputAmount *uint256.Int, user common.Address, metadata common.Hash) (*uint256.Int, error)

	// ComputeInputAmount returns the input amount required for outputAmount
	// of outputToken.
	ComputeInputAmount(inputToken, outputToken TokenID, outputAmount *uint256.Int, user common.Address, metadata common.Hash) (*uint256.Int, error)
}

// RegisterPrimitive makes a primitive reachable by compute interactions
// targeting addr.
func (e *Engine) RegisterPrimitive(addr common.Address, p Primitive) error {
	if p == nil {
		return ErrUnknownPrimitive
	}
	if _, exists := e.primitives[addr]; exists {
		return ErrAlreadyRegistered
	}
	e.primitives[addr] = p
	e.log.Info().Str("primitive", addr.Hex()).Msg("primitive registered")
	return nil
}

// RegisterTokens records the ledger token ids a primitive itself issues
// (for example a pool's liquidity-share token). Ids are derived from the
// primitive's address and each sub-id, so no two primitives can claim the
// same id. A registered id is reconciled implicitly when its issuer is
// called: the issuer is assumed to have accounted for the supply change
// internally, so the gateway skips the explicit mint or burn on the
// primitive's own balance.
func (e *Engine) RegisterTokens(primitive common.Address, subIDs []common.Hash) ([]TokenID, error) {
	if _, ok := e.primitives[primitive]; !ok {
		return nil, ErrUnknownPrimitive
	}
	ids := make([]TokenID, len(subIDs))
	for i, subID := range subIDs {
		id := CalculateTokenID(primitive, subID)
		if _, taken := e.issuedBy[id]; taken {
			return nil, ErrAlreadyRegistered
		}
		ids[i] = id
	}
	for _, id := range ids {
		e.issuedBy[id] = primitive
		e.log.Info().Str("primitive", primitive.Hex()).Str("token", id.Hex()).Msg("token registered")
	}
	return ids, nil
}

// TokenIssuer returns the primitive that registered id, if any.
func (e *Engine) TokenIssuer(id TokenID) (common.Address, bool) {
	addr, ok := e.issuedBy[id]
	return addr, ok
}

// creditPrimitive settles a foreign input token onto the primitive's
// durable ledger balance before its computation can observe it. Tokens the
// primitive itself issued are skipped: the issuer already accounts for them
// internally.
//
// This write is immediate, never deferred to batch end. A primitive may
// re-enter the ledger with a balance query mid-call, and in-memory batch
// deltas are not visible across that boundary.
func (e *Engine) creditPrimitive(primitive common.Address, token TokenID, amount *uint256.Int) error {
	if e.issuedBy[token] == primitive {
		return nil
	}
	if amount.IsZero() {
		return nil
	}
	return e.ledger.Mint(primitive, token, amount)
}

// debitPrimitive settles a foreign output token off the primitive's durable
// ledger balance, with the same issued-token exemption as creditPrimitive.
func (e *Engine) debitPrimitive(primitive common.Address, token TokenID, amount *uint256.Int) error {
	if e.issuedBy[token] == primitive {
		return nil
	}
	if amount.IsZero() {
		return nil
	}
	return e.ledger.Burn(primitive, token, amount)
}

// computeOutputAmount invokes a primitive in the forward direction. The
// input credit lands before the call so the primitive prices against its
// true balance; the output debit follows the call.
func (e *Engine) computeOutputAmount(primitive common.Address, inputToken, outputToken TokenID, inputAmount *uint256.Int, user common.Address, metadata common.Hash) (*uint256.Int, error) {
	p, ok := e.primitives[primitive]
	if !ok {
		return nil, ErrUnknownPrimitive
	}
	if err := e.creditPrimitive(primitive, inputToken, inputAmount); err != nil {
		return nil, err
	}
	outputAmount, err := p.ComputeOutputAmount(inputToken, outputToken, inputAmount, user, metadata)
	if err != nil {
		return nil, err
	}
	if err := e.debitPrimitive(primitive, outputToken, outputAmount); err != nil {
		return nil, err
	}
	return outputAmount, nil
}

// computeInputAmount invokes a primitive in the reverse direction: the
// output amount is fixed and the primitive names the required input. The
// reconciliation happens after the call, once the input amount is known.
func (e *Engine) computeInputAmount(primitive common.Address, inputToken, outputToken TokenID, outputAmount *uint256.Int, user common.Address, metadata common.Hash) (*uint256.Int, error) {
	p, ok := e.primitives[primitive]
	if !ok {
		return nil, ErrUnknownPrimitive
	}
	inputAmount, err := p.ComputeInputAmount(inputToken, outputToken, outputAmount, user, metadata)
	if err != nil {
		return nil, err
	}
	if err := e.creditPrimitive(primitive, inputToken, inputAmount); err != nil {
		return nil, err
	}
	if err := e.debitPrimitive(primitive, outputToken, outputAmount); err != nil {
		return nil, err
	}
	return inputAmount, nil
}
