package ocean

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Test principals.
var (
	testOwner  = common.HexToAddress("0x00000000000000000000000000000000000000ee")
	testEngine = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	alice      = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob        = common.HexToAddress("0x00000000000000000000000000000000000000b0")
)

// erc721Receiver is the callback surface a test asset invokes on delivery.
type erc721Receiver interface {
	OnERC721Received(operator, from common.Address, subID common.Hash, data []byte) error
}

type erc1155Receiver interface {
	OnERC1155Received(operator, from common.Address, subID common.Hash, amount *uint256.Int, data []byte) error
}

// memERC20 is an in-memory external fungible asset.
type memERC20 struct {
	decimals    uint8
	decimalsErr error
	balances    map[common.Address]*uint256.Int
	custody     common.Address // the engine's custody address, the implied caller of Transfer
}

func newMemERC20(decimals uint8, custody common.Address) *memERC20 {
	return &memERC20{
		decimals: decimals,
		balances: make(map[common.Address]*uint256.Int),
		custody:  custody,
	}
}

func (m *memERC20) fund(owner common.Address, amount uint64) {
	m.balances[owner] = uint256.NewInt(amount)
}

func (m *memERC20) balanceOf(owner common.Address) *uint256.Int {
	if b := m.balances[owner]; b != nil {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

func (m *memERC20) Decimals() (uint8, error) {
	if m.decimalsErr != nil {
		return 0, m.decimalsErr
	}
	return m.decimals, nil
}

func (m *memERC20) move(from, to common.Address, amount *uint256.Int) error {
	b := m.balanceOf(from)
	if b.Lt(amount) {
		return errors.New("erc20: balance too low")
	}
	m.balances[from] = b.Sub(b, amount)
	m.balances[to] = new(uint256.Int).Add(m.balanceOf(to), amount)
	return nil
}

func (m *memERC20) TransferFrom(from, to common.Address, amount *uint256.Int) error {
	return m.move(from, to, amount)
}

func (m *memERC20) Transfer(to common.Address, amount *uint256.Int) error {
	return m.move(m.custody, to, amount)
}

// memERC721 is an in-memory external non-fungible asset that invokes the
// receiver callback when delivering into the engine's custody.
type memERC721 struct {
	owners   map[common.Hash]common.Address
	custody  common.Address
	receiver erc721Receiver
}

func newMemERC721(custody common.Address, receiver erc721Receiver) *memERC721 {
	return &memERC721{
		owners:   make(map[common.Hash]common.Address),
		custody:  custody,
		receiver: receiver,
	}
}

func (m *memERC721) SafeTransferFrom(from, to common.Address, subID common.Hash) error {
	if m.owners[subID] != from {
		return errors.New("erc721: not the owner")
	}
	if to == m.custody && m.receiver != nil {
		if err := m.receiver.OnERC721Received(from, from, subID, nil); err != nil {
			return err
		}
	}
	m.owners[subID] = to
	return nil
}

// memERC1155 is an in-memory external semi-fungible asset.
type memERC1155 struct {
	balances map[common.Hash]map[common.Address]*uint256.Int
	custody  common.Address
	receiver erc1155Receiver
}

func newMemERC1155(custody common.Address, receiver erc1155Receiver) *memERC1155 {
	return &memERC1155{
		balances: make(map[common.Hash]map[common.Address]*uint256.Int),
		custody:  custody,
		receiver: receiver,
	}
}

func (m *memERC1155) fund(owner common.Address, subID common.Hash, amount uint64) {
	if m.balances[subID] == nil {
		m.balances[subID] = make(map[common.Address]*uint256.Int)
	}
	m.balances[subID][owner] = uint256.NewInt(amount)
}

func (m *memERC1155) balanceOf(owner common.Address, subID common.Hash) *uint256.Int {
	if owners := m.balances[subID]; owners != nil {
		if b := owners[owner]; b != nil {
			return new(uint256.Int).Set(b)
		}
	}
	return new(uint256.Int)
}

func (m *memERC1155) SafeTransferFrom(from, to common.Address, subID common.Hash, amount *uint256.Int) error {
	b := m.balanceOf(from, subID)
	if b.Lt(amount) {
		return errors.New("erc1155: balance too low")
	}
	if to == m.custody && m.receiver != nil {
		if err := m.receiver.OnERC1155Received(from, from, subID, amount, nil); err != nil {
			return err
		}
	}
	if m.balances[subID] == nil {
		m.balances[subID] = make(map[common.Address]*uint256.Int)
	}
	m.balances[subID][from] = b.Sub(b, amount)
	m.balances[subID][to] = new(uint256.Int).Add(m.balanceOf(to, subID), amount)
	return nil
}

// mirrorPrimitive prices every swap one to one.
type mirrorPrimitive struct{}

func (mirrorPrimitive) ComputeOutputAmount(inputToken, outputToken TokenID, inputAmount *uint256.Int, user common.Address, metadata common.Hash) (*uint256.Int, error) {
	return new(uint256.Int).Set(inputAmount), nil
}

func (mirrorPrimitive) ComputeInputAmount(inputToken, outputToken TokenID, outputAmount *uint256.Int, user common.Address, metadata common.Hash) (*uint256.Int, error) {
	return new(uint256.Int).Set(outputAmount), nil
}

// balanceCheckingPrimitive asserts mid-computation that the input credit is
// already visible on its durable ledger balance.
type balanceCheckingPrimitive struct {
	t      *testing.T
	ledger Ledger
	self   common.Address
}

func (p *balanceCheckingPrimitive) ComputeOutputAmount(inputToken, outputToken TokenID, inputAmount *uint256.Int, user common.Address, metadata common.Hash) (*uint256.Int, error) {
	p.t.Helper()
	if got := p.ledger.BalanceOf(p.self, inputToken); got.Lt(inputAmount) {
		p.t.Errorf("Primitive balance of input token is %s mid-call, want at least %s", got.Dec(), inputAmount.Dec())
	}
	return new(uint256.Int).Set(inputAmount), nil
}

func (p *balanceCheckingPrimitive) ComputeInputAmount(inputToken, outputToken TokenID, outputAmount *uint256.Int, user common.Address, metadata common.Hash) (*uint256.Int, error) {
	return new(uint256.Int).Set(outputAmount), nil
}

// failingPrimitive refuses every computation.
type failingPrimitive struct{ err error }

func (p failingPrimitive) ComputeOutputAmount(_, _ TokenID, _ *uint256.Int, _ common.Address, _ common.Hash) (*uint256.Int, error) {
	return nil, p.err
}

func (p failingPrimitive) ComputeInputAmount(_, _ TokenID, _ *uint256.Int, _ common.Address, _ common.Hash) (*uint256.Int, error) {
	return nil, p.err
}

// newTestEngine builds an engine around a fresh in-memory ledger.
func newTestEngine(t *testing.T, opts ...EngineOption) (*Engine, *MemoryLedger) {
	t.Helper()
	ledger := NewMemoryLedger()
	base := []EngineOption{WithOwner(testOwner), WithAddress(testEngine)}
	engine := NewEngine(ledger, append(base, opts...)...)
	return engine, ledger
}

// ether scales a small integer to 18-decimal ledger precision.
func ether(n uint64) *uint256.Int {
	one, _ := pow10(18)
	return new(uint256.Int).Mul(uint256.NewInt(n), one)
}
