package ocean

import "github.com/holiman/uint256"

// NormalizedDecimals is the fixed internal precision of ledger amounts.
const NormalizedDecimals = 18

// pow10 returns 10^n, reporting overflow past 2^256.
func pow10(n uint8) (*uint256.Int, bool) {
	ten := uint256.NewInt(10)
	p := uint256.NewInt(1)
	for i := uint8(0); i < n; i++ {
		if _, overflow := p.MulOverflow(p, ten); overflow {
			return nil, false
		}
	}
	return p, true
}

// convertDecimals converts amount from one fixed-point precision to another
// using pure integer arithmetic. Scaling down truncates; the truncated
// remainder is returned alongside the converted amount so callers can
// account for it rather than lose it. Scaling up that does not fit 256 bits
// is an error.
func convertDecimals(from, to uint8, amount *uint256.Int) (converted, truncated *uint256.Int, err error) {
	switch {
	case from == to:
		return new(uint256.Int).Set(amount), new(uint256.Int), nil

	case to > from:
		p, ok := pow10(to - from)
		if !ok {
			return nil, nil, ErrDecimalOverflow
		}
		converted = new(uint256.Int)
		if _, overflow := converted.MulOverflow(amount, p); overflow {
			return nil, nil, ErrDecimalOverflow
		}
		return converted, new(uint256.Int), nil

	default: // to < from
		p, ok := pow10(from - to)
		if !ok {
			// The scale factor alone exceeds 256 bits: everything truncates.
			return new(uint256.Int), new(uint256.Int).Set(amount), nil
		}
		converted = new(uint256.Int).Div(amount, p)
		truncated = new(uint256.Int).Mod(amount, p)
		return converted, truncated, nil
	}
}

// determineTransferAmount computes the external transfer required to back a
// wrap of `amount` ledger units of a token with native precision
// `decimals`. When the native precision is coarser than the ledger's, the
// externally required amount is rounded up, never down, so the ledger
// credit is always fully collateralized; the over-collection is returned as
// dust in ledger precision and is credited to the engine owner.
func determineTransferAmount(amount *uint256.Int, decimals uint8) (transfer, dust *uint256.Int, err error) {
	if decimals >= NormalizedDecimals {
		transfer, _, err = convertDecimals(NormalizedDecimals, decimals, amount)
		return transfer, new(uint256.Int), err
	}

	transfer, remainder, err := convertDecimals(NormalizedDecimals, decimals, amount)
	if err != nil {
		return nil, nil, err
	}
	dust = new(uint256.Int)
	if !remainder.IsZero() {
		// Round the external transfer up and collect the difference.
		transfer.AddUint64(transfer, 1)
		p, _ := pow10(NormalizedDecimals - decimals)
		dust.Sub(p, remainder)
	}
	return transfer, dust, nil
}
