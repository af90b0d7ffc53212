package ocean

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// Fee parameters.
const (
	// MinUnwrapFeeDivisor is the floor on the unwrap fee divisor. Since the
	// fee is amount/divisor, the floor caps the fee rate at 1/2000.
	MinUnwrapFeeDivisor = 2000

	// DefaultUnwrapFeeDivisor is the divisor used when none is configured,
	// a 0.01% unwrap fee.
	DefaultUnwrapFeeDivisor = 10_000
)

// Engine executes interaction sequences against a multitoken ledger. It
// routes each interaction to its effect (external asset transfer, ledger
// mint/burn, or a primitive computation) and, for batches, accumulates
// per-token deltas so the ledger is mutated once per token no matter how
// many interactions touched it.
//
// An Engine runs one batch at a time and is not safe for concurrent use;
// re-entering an interaction entry point while one is in flight is
// rejected.
type Engine struct {
	ledger Ledger

	// owner collects fee and dust revenue and is the only principal allowed
	// to change the fee divisor.
	owner common.Address

	// address is the engine's custody identity with external asset
	// contracts: wraps transfer into it, unwraps transfer out of it.
	address common.Address

	feeDivisor *uint256.Int

	erc20s   map[common.Address]FungibleToken
	erc721s  map[common.Address]NonFungibleToken
	erc1155s map[common.Address]MultiToken

	primitives map[common.Address]Primitive
	issuedBy   map[TokenID]common.Address

	log zerolog.Logger

	busy          bool
	erc721Status  transferStatus
	erc1155Status transferStatus
}

// NewEngine creates an engine settling against the given ledger.
func NewEngine(ledger Ledger, opts ...EngineOption) *Engine {
	e := &Engine{
		ledger:     ledger,
		feeDivisor: uint256.NewInt(DefaultUnwrapFeeDivisor),
		erc20s:     make(map[common.Address]FungibleToken),
		erc721s:    make(map[common.Address]NonFungibleToken),
		erc1155s:   make(map[common.Address]MultiToken),
		primitives: make(map[common.Address]Primitive),
		issuedBy:   make(map[TokenID]common.Address),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterFungibleToken makes an external fungible asset wrappable via addr.
func (e *Engine) RegisterFungibleToken(addr common.Address, t FungibleToken) error {
	if _, exists := e.erc20s[addr]; exists {
		return ErrAlreadyRegistered
	}
	e.erc20s[addr] = t
	return nil
}

// RegisterNonFungibleToken makes an external non-fungible asset wrappable
// via addr.
func (e *Engine) RegisterNonFungibleToken(addr common.Address, t NonFungibleToken) error {
	if _, exists := e.erc721s[addr]; exists {
		return ErrAlreadyRegistered
	}
	e.erc721s[addr] = t
	return nil
}

// RegisterMultiToken makes an external semi-fungible asset wrappable via
// addr.
func (e *Engine) RegisterMultiToken(addr common.Address, t MultiToken) error {
	if _, exists := e.erc1155s[addr]; exists {
		return ErrAlreadyRegistered
	}
	e.erc1155s[addr] = t
	return nil
}

// UnwrapFeeDivisor returns the current fee divisor.
func (e *Engine) UnwrapFeeDivisor() uint64 {
	return e.feeDivisor.Uint64()
}

// ChangeUnwrapFee sets a new unwrap fee divisor. Only the engine owner may
// call it, and the divisor may never drop below MinUnwrapFeeDivisor, so the
// fee rate can never exceed its cap.
func (e *Engine) ChangeUnwrapFee(caller common.Address, divisor uint64) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	if divisor < MinUnwrapFeeDivisor {
		return ErrFeeDivisorTooLow
	}
	e.feeDivisor = uint256.NewInt(divisor)
	e.log.Info().Uint64("divisor", divisor).Msg("unwrap fee changed")
	return nil
}

// InteractionResult is the uniform outcome of one interaction: the amount
// burned from the user's balance of the input token and the amount minted
// to their balance of the output token. Wraps have no input side and
// unwraps no output side on the ledger.
type InteractionResult struct {
	InputToken   TokenID
	InputAmount  *uint256.Int
	OutputToken  TokenID
	OutputAmount *uint256.Int
}

// BatchResult is the net ledger mutation a batch settled with.
type BatchResult struct {
	MintIDs     []TokenID
	MintAmounts []*uint256.Int
	BurnIDs     []TokenID
	BurnAmounts []*uint256.Int
}

// DoInteraction executes a single interaction for the caller. The ledger
// effect is applied immediately: the input amount is burned from and the
// output amount minted to the caller's balance. The delta roll-over
// sentinel is rejected, since there is no batch to roll from.
func (e *Engine) DoInteraction(caller common.Address, interaction Interaction) (*InteractionResult, error) {
	if e.busy {
		return nil, ErrReentrantCall
	}
	e.busy = true
	defer func() { e.busy = false }()

	return e.doInteraction(caller, interaction)
}

// ForwardedDoInteraction executes a single interaction on behalf of user.
// The caller must hold standing operator approval from user on the ledger;
// without it the call is rejected before any effect runs.
func (e *Engine) ForwardedDoInteraction(caller, user common.Address, interaction Interaction) (*InteractionResult, error) {
	if e.busy {
		return nil, ErrReentrantCall
	}
	e.busy = true
	defer func() { e.busy = false }()

	if !e.ledger.IsApprovedForAll(user, caller) {
		return nil, ErrNotApproved
	}
	return e.doInteraction(user, interaction)
}

// DoMultipleInteractions executes a batch of interactions for the caller.
// Every token the batch touches must appear in ids; per-token net effects
// accumulate in memory and the ledger receives at most one batch mint and
// one batch burn at the end. Any failure aborts the whole batch with no
// partial ledger mutation.
func (e *Engine) DoMultipleInteractions(caller common.Address, interactions []Interaction, ids []TokenID) (*BatchResult, error) {
	if e.busy {
		return nil, ErrReentrantCall
	}
	e.busy = true
	defer func() { e.busy = false }()

	return e.doMultipleInteractions(caller, interactions, ids)
}

// ForwardedDoMultipleInteractions executes a batch on behalf of user,
// gated on the same operator approval as forwarded single interactions.
func (e *Engine) ForwardedDoMultipleInteractions(caller, user common.Address, interactions []Interaction, ids []TokenID) (*BatchResult, error) {
	if e.busy {
		return nil, ErrReentrantCall
	}
	e.busy = true
	defer func() { e.busy = false }()

	if !e.ledger.IsApprovedForAll(user, caller) {
		return nil, ErrNotApproved
	}
	return e.doMultipleInteractions(user, interactions, ids)
}

func (e *Engine) doInteraction(user common.Address, interaction Interaction) (*InteractionResult, error) {
	if interaction.wantsDelta() {
		return nil, ErrDeltaUnavailable
	}
	if err := checkMagnitude(interaction.amountOrZero()); err != nil {
		return nil, err
	}
	specifiedToken, err := interaction.SpecifiedToken()
	if err != nil {
		return nil, err
	}

	snap, restore := e.snapshot()
	result, err := e.executeInteraction(&interaction, specifiedToken, interaction.amountOrZero(), user)
	if err == nil && result.InputAmount.Sign() > 0 {
		err = e.ledger.Burn(user, result.InputToken, result.InputAmount)
	}
	if err == nil && result.OutputAmount.Sign() > 0 {
		err = e.ledger.Mint(user, result.OutputToken, result.OutputAmount)
	}
	if err != nil {
		restore(snap)
		return nil, err
	}

	e.log.Debug().
		Str("kind", interaction.Kind.String()).
		Str("user", user.Hex()).
		Msg("interaction executed")
	return result, nil
}

func (e *Engine) doMultipleInteractions(user common.Address, interactions []Interaction, ids []TokenID) (*BatchResult, error) {
	snap, restore := e.snapshot()
	deltas := NewBalanceDeltas(ids)

	for i := range interactions {
		interaction := &interactions[i]
		if err := e.dispatchToDeltas(interaction, deltas, user); err != nil {
			restore(snap)
			return nil, &InteractionError{Index: i, Kind: interaction.Kind, Err: err}
		}
	}

	result := &BatchResult{}
	result.MintIDs, result.MintAmounts, result.BurnIDs, result.BurnAmounts = deltas.Finalize()

	var err error
	if len(result.MintIDs) > 0 {
		err = e.ledger.MintBatch(user, result.MintIDs, result.MintAmounts)
	}
	if err == nil && len(result.BurnIDs) > 0 {
		err = e.ledger.BurnBatch(user, result.BurnIDs, result.BurnAmounts)
	}
	if err != nil {
		restore(snap)
		return nil, err
	}

	e.log.Debug().
		Int("interactions", len(interactions)).
		Int("mints", len(result.MintIDs)).
		Int("burns", len(result.BurnIDs)).
		Str("user", user.Hex()).
		Msg("batch executed")
	return result, nil
}

// dispatchToDeltas runs one interaction of a batch: resolves the specified
// amount (literal or rolled over from the current delta), executes the
// effect, and folds the resulting tuple into the accumulators instead of
// the ledger.
func (e *Engine) dispatchToDeltas(interaction *Interaction, deltas *BalanceDeltas, user common.Address) error {
	specifiedToken, err := interaction.SpecifiedToken()
	if err != nil {
		return err
	}

	specifiedAmount := interaction.amountOrZero()
	if interaction.wantsDelta() {
		specifiedAmount, err = e.rollOverDelta(interaction.Kind, specifiedToken, deltas)
		if err != nil {
			return err
		}
	} else if err := checkMagnitude(specifiedAmount); err != nil {
		return err
	}

	result, err := e.executeInteraction(interaction, specifiedToken, specifiedAmount, user)
	if err != nil {
		return err
	}
	if result.InputAmount.Sign() > 0 {
		if err := deltas.Decrease(result.InputToken, result.InputAmount); err != nil {
			return err
		}
	}
	if result.OutputAmount.Sign() > 0 {
		if err := deltas.Increase(result.OutputToken, result.OutputAmount); err != nil {
			return err
		}
	}
	return nil
}

// rollOverDelta resolves the delta sentinel for the specified token. Kinds
// that consume the token (unwraps, ComputeOutputAmount) demand a
// non-negative accumulator; kinds that supply it (wraps,
// ComputeInputAmount) demand a non-positive one. A sign mismatch means the
// caller chained interactions in an order that does not produce the flow
// they assumed, and is an error rather than a clamp.
func (e *Engine) rollOverDelta(kind InteractionKind, token TokenID, deltas *BalanceDeltas) (*uint256.Int, error) {
	switch kind {
	case UnwrapFungible, UnwrapNonFungible, UnwrapMultiToken, ComputeOutputAmount:
		return deltas.AsPositive(token)
	case WrapFungible, WrapNonFungible, WrapMultiToken, ComputeInputAmount:
		return deltas.AsNegative(token)
	default:
		return nil, ErrInvalidInteraction
	}
}

// executeInteraction routes one interaction to its effect handler and
// produces the uniform (inputToken, inputAmount, outputToken, outputAmount)
// tuple. Exactly one effect runs per interaction.
func (e *Engine) executeInteraction(interaction *Interaction, specifiedToken TokenID, specifiedAmount *uint256.Int, user common.Address) (*InteractionResult, error) {
	result := &InteractionResult{
		InputAmount:  new(uint256.Int),
		OutputAmount: new(uint256.Int),
	}

	switch interaction.Kind {
	case WrapFungible:
		result.OutputToken = specifiedToken
		result.OutputAmount.Set(specifiedAmount)
		if err := e.wrapFungible(interaction.Target, specifiedAmount, user); err != nil {
			return nil, err
		}

	case UnwrapFungible:
		result.InputToken = specifiedToken
		result.InputAmount.Set(specifiedAmount)
		if err := e.unwrapFungible(interaction.Target, specifiedAmount, user); err != nil {
			return nil, err
		}

	case WrapNonFungible:
		result.OutputToken = specifiedToken
		result.OutputAmount.Set(specifiedAmount)
		if err := e.wrapNonFungible(interaction.Target, interaction.Metadata, specifiedAmount, user); err != nil {
			return nil, err
		}

	case UnwrapNonFungible:
		result.InputToken = specifiedToken
		result.InputAmount.Set(specifiedAmount)
		if err := e.unwrapNonFungible(interaction.Target, interaction.Metadata, specifiedAmount, user); err != nil {
			return nil, err
		}

	case WrapMultiToken:
		result.OutputToken = specifiedToken
		result.OutputAmount.Set(specifiedAmount)
		if err := e.wrapMultiToken(interaction.Target, interaction.Metadata, specifiedAmount, user); err != nil {
			return nil, err
		}

	case UnwrapMultiToken:
		result.InputToken = specifiedToken
		result.InputAmount.Set(specifiedAmount)
		if err := e.unwrapMultiToken(interaction.Target, interaction.Metadata, specifiedAmount, user); err != nil {
			return nil, err
		}

	case ComputeOutputAmount:
		result.InputToken = specifiedToken
		result.InputAmount.Set(specifiedAmount)
		result.OutputToken = interaction.OutputToken
		outputAmount, err := e.computeOutputAmount(interaction.Target, specifiedToken, interaction.OutputToken, specifiedAmount, user, interaction.Metadata)
		if err != nil {
			return nil, err
		}
		result.OutputAmount.Set(outputAmount)

	case ComputeInputAmount:
		result.OutputToken = specifiedToken
		result.OutputAmount.Set(specifiedAmount)
		result.InputToken = interaction.InputToken
		inputAmount, err := e.computeInputAmount(interaction.Target, interaction.InputToken, specifiedToken, specifiedAmount, user, interaction.Metadata)
		if err != nil {
			return nil, err
		}
		result.InputAmount.Set(inputAmount)

	default:
		return nil, ErrInvalidInteraction
	}

	return result, nil
}

// snapshot captures the ledger state when the ledger supports it, returning
// a restore func that is a no-op otherwise. Restoration backs out every
// durable write of an aborted batch: gateway settlements, fee grants, and
// dust credits included.
func (e *Engine) snapshot() (int, func(int)) {
	s, ok := e.ledger.(Snapshotter)
	if !ok {
		return 0, func(int) {}
	}
	return s.Snapshot(), func(id int) {
		if err := s.RevertTo(id); err != nil {
			e.log.Error().Err(err).Msg("ledger revert failed")
		}
	}
}
