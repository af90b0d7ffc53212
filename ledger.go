package ocean

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Ledger is the underlying multitoken balance table the engine settles
// against. It owns all persistent (owner, tokenID) balances; the engine
// only ever mutates it through mint and burn calls.
type Ledger interface {
	// Mint credits amount of id to owner.
	Mint(owner common.Address, id TokenID, amount *uint256.Int) error

	// MintBatch credits several tokens to owner in one call. The id and
	// amount slices must have equal length.
	MintBatch(owner common.Address, ids []TokenID, amounts []*uint256.Int) error

	// Burn debits amount of id from owner, failing if the balance is
	// insufficient.
	Burn(owner common.Address, id TokenID, amount *uint256.Int) error

	// BurnBatch debits several tokens from owner in one call.
	BurnBatch(owner common.Address, ids []TokenID, amounts []*uint256.Int) error

	// BalanceOf returns owner's balance of id.
	BalanceOf(owner common.Address, id TokenID) *uint256.Int

	// BalanceOfBatch returns the balances for parallel owner and id slices.
	BalanceOfBatch(owners []common.Address, ids []TokenID) ([]*uint256.Int, error)

	// IsApprovedForAll reports whether operator may act on owner's
	// balances. The engine uses the same relation to authorize forwarded
	// interaction calls.
	IsApprovedForAll(owner, operator common.Address) bool
}

// Snapshotter is an optional ledger capability. A ledger that supports it
// lets the engine roll every balance mutation of a failed batch back, so a
// batch either fully commits or leaves no trace.
type Snapshotter interface {
	// Snapshot marks the current state and returns an id for RevertTo.
	Snapshot() int

	// RevertTo rolls state back to a previously taken snapshot. Snapshots
	// taken after it become invalid.
	RevertTo(id int) error
}

// balanceChange is one journaled balance or supply write.
type balanceChange struct {
	id    TokenID
	owner common.Address
	prev  uint256.Int
}

// MemoryLedger is an in-memory Ledger with operator approvals, per-token
// total supply, and journal-based snapshots. It is the process-local stand-in
// for an on-chain multitoken ledger and is what the engine's tests and
// examples settle against.
//
// MemoryLedger is not safe for concurrent use.
type MemoryLedger struct {
	balances  map[TokenID]map[common.Address]*uint256.Int
	supply    map[TokenID]*uint256.Int
	operators map[common.Address]map[common.Address]bool
	journal   []balanceChange
	supplyLog []balanceChange
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances:  make(map[TokenID]map[common.Address]*uint256.Int),
		supply:    make(map[TokenID]*uint256.Int),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

// balance returns the stored balance, or a zero value not yet in the table.
func (l *MemoryLedger) balance(owner common.Address, id TokenID) *uint256.Int {
	if owners := l.balances[id]; owners != nil {
		if b := owners[owner]; b != nil {
			return b
		}
	}
	return nil
}

// record journals the current balance and supply of (owner, id) so a later
// RevertTo can restore them.
func (l *MemoryLedger) record(owner common.Address, id TokenID) {
	change := balanceChange{id: id, owner: owner}
	if b := l.balance(owner, id); b != nil {
		change.prev.Set(b)
	}
	l.journal = append(l.journal, change)

	supplyChange := balanceChange{id: id}
	if s := l.supply[id]; s != nil {
		supplyChange.prev.Set(s)
	}
	l.supplyLog = append(l.supplyLog, supplyChange)
}

func (l *MemoryLedger) setBalance(owner common.Address, id TokenID, amount *uint256.Int) {
	owners := l.balances[id]
	if owners == nil {
		owners = make(map[common.Address]*uint256.Int)
		l.balances[id] = owners
	}
	owners[owner] = new(uint256.Int).Set(amount)
}

// Mint credits amount of id to owner.
func (l *MemoryLedger) Mint(owner common.Address, id TokenID, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	l.record(owner, id)

	next := new(uint256.Int)
	if b := l.balance(owner, id); b != nil {
		next.Set(b)
	}
	next.Add(next, amount)
	l.setBalance(owner, id, next)

	supply := new(uint256.Int)
	if s := l.supply[id]; s != nil {
		supply.Set(s)
	}
	l.supply[id] = supply.Add(supply, amount)
	return nil
}

// MintBatch credits several tokens to owner.
func (l *MemoryLedger) MintBatch(owner common.Address, ids []TokenID, amounts []*uint256.Int) error {
	if len(ids) != len(amounts) {
		return ErrLengthMismatch
	}
	for i, id := range ids {
		if err := l.Mint(owner, id, amounts[i]); err != nil {
			return err
		}
	}
	return nil
}

// Burn debits amount of id from owner.
func (l *MemoryLedger) Burn(owner common.Address, id TokenID, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	b := l.balance(owner, id)
	if b == nil || b.Lt(amount) {
		return ErrInsufficientBalance
	}
	l.record(owner, id)

	l.setBalance(owner, id, new(uint256.Int).Sub(b, amount))
	l.supply[id] = new(uint256.Int).Sub(l.supply[id], amount)
	return nil
}

// BurnBatch debits several tokens from owner.
func (l *MemoryLedger) BurnBatch(owner common.Address, ids []TokenID, amounts []*uint256.Int) error {
	if len(ids) != len(amounts) {
		return ErrLengthMismatch
	}
	for i, id := range ids {
		if err := l.Burn(owner, id, amounts[i]); err != nil {
			return err
		}
	}
	return nil
}

// BalanceOf returns owner's balance of id.
func (l *MemoryLedger) BalanceOf(owner common.Address, id TokenID) *uint256.Int {
	if b := l.balance(owner, id); b != nil {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

// BalanceOfBatch returns balances for parallel owner and id slices.
func (l *MemoryLedger) BalanceOfBatch(owners []common.Address, ids []TokenID) ([]*uint256.Int, error) {
	if len(owners) != len(ids) {
		return nil, ErrLengthMismatch
	}
	out := make([]*uint256.Int, len(ids))
	for i := range ids {
		out[i] = l.BalanceOf(owners[i], ids[i])
	}
	return out, nil
}

// TotalSupply returns the outstanding amount of id across all owners.
func (l *MemoryLedger) TotalSupply(id TokenID) *uint256.Int {
	if s := l.supply[id]; s != nil {
		return new(uint256.Int).Set(s)
	}
	return new(uint256.Int)
}

// SetApprovalForAll grants or revokes operator's authority over all of
// owner's balances. Approvals are administrative state and are not covered
// by snapshots.
func (l *MemoryLedger) SetApprovalForAll(owner, operator common.Address, approved bool) {
	ops := l.operators[owner]
	if ops == nil {
		ops = make(map[common.Address]bool)
		l.operators[owner] = ops
	}
	ops[operator] = approved
}

// IsApprovedForAll reports whether operator may act on owner's balances.
func (l *MemoryLedger) IsApprovedForAll(owner, operator common.Address) bool {
	return l.operators[owner][operator]
}

// Snapshot marks the current state; RevertTo with the returned id undoes
// every mint and burn made after this point.
func (l *MemoryLedger) Snapshot() int {
	return len(l.journal)
}

// RevertTo rolls back to a snapshot taken earlier.
func (l *MemoryLedger) RevertTo(id int) error {
	if id < 0 || id > len(l.journal) {
		return ErrInvalidSnapshot
	}
	for i := len(l.journal) - 1; i >= id; i-- {
		change := l.journal[i]
		l.setBalance(change.owner, change.id, &change.prev)

		supplyChange := l.supplyLog[i]
		l.supply[supplyChange.id] = new(uint256.Int).Set(&supplyChange.prev)
	}
	l.journal = l.journal[:id]
	l.supplyLog = l.supplyLog[:id]
	return nil
}
