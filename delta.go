package ocean

import "github.com/holiman/uint256"

// deltaEntry is one token's signed net amount, stored in two's complement.
type deltaEntry struct {
	id     TokenID
	amount uint256.Int
}

// sign interprets the accumulator as a signed 256-bit value.
func (e *deltaEntry) sign() int {
	return e.amount.Sign()
}

// BalanceDeltas accumulates per-token net effects during one batch. It is
// built once from the caller-declared token id list and consumed exactly
// once at batch end; nothing in it is ever persisted directly.
//
// Accumulators are signed 256-bit values held in two's complement. Every
// contribution and every running total is checked against the signed range;
// an amount that would wrap the sign bit is rejected before any mutation.
type BalanceDeltas struct {
	entries []deltaEntry
}

// NewBalanceDeltas creates a zero-valued delta set for the declared token
// ids, preserving order. Duplicate ids are permitted but degenerate: only
// the first occurrence ever accumulates, so duplicates stay net zero.
func NewBalanceDeltas(ids []TokenID) *BalanceDeltas {
	entries := make([]deltaEntry, len(ids))
	for i, id := range ids {
		entries[i].id = id
	}
	return &BalanceDeltas{entries: entries}
}

// find returns the first entry for id. Batches are small, so a linear scan
// is fine.
func (d *BalanceDeltas) find(id TokenID) *deltaEntry {
	for i := range d.entries {
		if d.entries[i].id == id {
			return &d.entries[i]
		}
	}
	return nil
}

// checkMagnitude rejects contributions that do not fit the signed range.
// Two in-range contributions can still overflow the running total; that is
// caught separately in addChecked.
func checkMagnitude(amount *uint256.Int) error {
	if amount.Sign() < 0 {
		return ErrAmountTooLarge
	}
	return nil
}

// addChecked adds x (two's complement) into acc, rejecting signed overflow.
func addChecked(acc, x *uint256.Int) error {
	accSign, xSign := acc.Sign(), x.Sign()
	sum := new(uint256.Int).Add(acc, x)
	if accSign >= 0 && xSign >= 0 && sum.Sign() < 0 {
		return ErrDeltaOverflow
	}
	if accSign < 0 && xSign < 0 && sum.Sign() >= 0 {
		return ErrDeltaOverflow
	}
	acc.Set(sum)
	return nil
}

// Increase adds amount to the token's accumulator.
func (d *BalanceDeltas) Increase(id TokenID, amount *uint256.Int) error {
	if err := checkMagnitude(amount); err != nil {
		return err
	}
	entry := d.find(id)
	if entry == nil {
		return ErrMissingTokenID
	}
	return addChecked(&entry.amount, amount)
}

// Decrease subtracts amount from the token's accumulator.
func (d *BalanceDeltas) Decrease(id TokenID, amount *uint256.Int) error {
	if err := checkMagnitude(amount); err != nil {
		return err
	}
	entry := d.find(id)
	if entry == nil {
		return ErrMissingTokenID
	}
	neg := new(uint256.Int).Neg(amount)
	return addChecked(&entry.amount, neg)
}

// AsPositive returns the accumulator's unsigned magnitude for a roll-over
// that requires a non-negative delta (unwraps and ComputeOutputAmount). A
// net-negative accumulator is a directional misuse and is rejected, never
// clamped.
func (d *BalanceDeltas) AsPositive(id TokenID) (*uint256.Int, error) {
	entry := d.find(id)
	if entry == nil {
		return nil, ErrMissingTokenID
	}
	if entry.sign() < 0 {
		return nil, ErrDeltaSign
	}
	return new(uint256.Int).Set(&entry.amount), nil
}

// AsNegative returns the accumulator's unsigned magnitude for a roll-over
// that requires a non-positive delta (wraps and ComputeInputAmount).
func (d *BalanceDeltas) AsNegative(id TokenID) (*uint256.Int, error) {
	entry := d.find(id)
	if entry == nil {
		return nil, ErrMissingTokenID
	}
	if entry.sign() > 0 {
		return nil, ErrDeltaSign
	}
	return new(uint256.Int).Neg(&entry.amount), nil
}

// Finalize partitions the entries into mint instructions for strictly
// positive deltas and burn instructions for strictly negative ones. Zero
// entries are skipped and the output slices are exactly sized, so the
// result is the minimal pair of batch ledger mutations for the whole batch.
func (d *BalanceDeltas) Finalize() (mintIDs []TokenID, mintAmounts []*uint256.Int, burnIDs []TokenID, burnAmounts []*uint256.Int) {
	var mints, burns int
	for i := range d.entries {
		switch d.entries[i].sign() {
		case 1:
			mints++
		case -1:
			burns++
		}
	}

	mintIDs = make([]TokenID, 0, mints)
	mintAmounts = make([]*uint256.Int, 0, mints)
	burnIDs = make([]TokenID, 0, burns)
	burnAmounts = make([]*uint256.Int, 0, burns)

	for i := range d.entries {
		entry := &d.entries[i]
		switch entry.sign() {
		case 1:
			mintIDs = append(mintIDs, entry.id)
			mintAmounts = append(mintAmounts, new(uint256.Int).Set(&entry.amount))
		case -1:
			burnIDs = append(burnIDs, entry.id)
			burnAmounts = append(burnAmounts, new(uint256.Int).Neg(&entry.amount))
		}
	}
	return mintIDs, mintAmounts, burnIDs, burnAmounts
}

// Len returns the number of declared entries, duplicates included.
func (d *BalanceDeltas) Len() int {
	return len(d.entries)
}
