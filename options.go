package ocean

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithOwner sets the principal that collects fee and dust revenue and may
// change the unwrap fee. Defaults to the zero address.
func WithOwner(owner common.Address) EngineOption {
	return func(e *Engine) {
		e.owner = owner
	}
}

// WithAddress sets the engine's custody address with external asset
// contracts: wraps transfer into it, unwraps transfer out of it.
func WithAddress(addr common.Address) EngineOption {
	return func(e *Engine) {
		e.address = addr
	}
}

// WithUnwrapFeeDivisor sets the initial unwrap fee divisor. Values below
// MinUnwrapFeeDivisor are raised to it, keeping the fee rate under its cap.
func WithUnwrapFeeDivisor(divisor uint64) EngineOption {
	return func(e *Engine) {
		if divisor < MinUnwrapFeeDivisor {
			divisor = MinUnwrapFeeDivisor
		}
		e.feeDivisor = uint256.NewInt(divisor)
	}
}

// WithLogger attaches a logger to the engine. The default discards
// everything.
func WithLogger(log zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}
