// Package ocean implements a shared multitoken accounting ledger with an
// interaction-execution engine, letting external "primitive" contracts
// (AMMs, lending pools, and the like) exchange value without their own
// token-transfer plumbing.
//
// Users wrap external assets (fungible, non-fungible, or semi-fungible)
// into internal ledger credit, chain arbitrary swap sequences against
// registered primitives entirely inside the ledger's bookkeeping, and
// unwrap back out, paying at most one wrap and one unwrap fee no matter
// how many internal hops occur.
//
// # Basic Usage
//
// Create a ledger and an engine, register the external assets and
// primitives, then submit interactions:
//
//	ledger := ocean.NewMemoryLedger()
//	engine := ocean.NewEngine(ledger,
//	    ocean.WithOwner(treasury),
//	    ocean.WithUnwrapFeeDivisor(10_000),
//	)
//
//	engine.RegisterFungibleToken(daiAddr, daiAdapter)
//	engine.RegisterPrimitive(poolAddr, pool)
//
//	_, err := engine.DoInteraction(alice, ocean.Interaction{
//	    Kind:            ocean.WrapFungible,
//	    Target:          daiAddr,
//	    SpecifiedAmount: new(uint256.Int).Mul(uint256.NewInt(10), oneDai),
//	})
//
// # Batches
//
// DoMultipleInteractions runs a sequence of interactions against a
// per-batch set of signed balance deltas. The ledger is mutated once per
// token at batch end (one batch mint and one batch burn), no matter how
// many interactions touched it. An interaction may pass DeltaAmount() as
// its specified amount to consume the current delta of its specified token,
// so a computed output can feed the next step without ever being minted in
// between.
//
// # Primitives
//
// A primitive implements the Primitive interface: given one side of a swap
// it prices the other. While a primitive computes, every effect completed
// so far is already durable on the ledger, so a primitive may query its own
// balances recursively and always sees the truth.
//
// # Atomicity
//
// A batch either fully commits or fully aborts. When the ledger implements
// Snapshotter (MemoryLedger does), an aborting batch rolls back every
// ledger write it made, including the immediate primitive settlements and
// fee grants. External asset adapters sit outside this boundary; unwinding
// their side effects is the host environment's concern, as it is on chain.
package ocean
