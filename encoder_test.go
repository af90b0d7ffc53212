package ocean

import (
	"bytes"
	"math/big"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

func TestPackKindAndTarget(t *testing.T) {
	target := common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")

	t.Run("round trips every kind", func(t *testing.T) {
		kinds := []InteractionKind{
			WrapFungible, UnwrapFungible,
			WrapNonFungible, UnwrapNonFungible,
			WrapMultiToken, UnwrapMultiToken,
			ComputeOutputAmount, ComputeInputAmount,
		}
		for _, kind := range kinds {
			word := PackKindAndTarget(kind, target)
			gotKind, gotTarget := UnpackKindAndTarget(word)
			if gotKind != kind || gotTarget != target {
				t.Errorf("%s: round trip gave (%s, %s)", kind, gotKind, gotTarget.Hex())
			}
		}
	})

	t.Run("layout is kind then padding then address", func(t *testing.T) {
		word := PackKindAndTarget(UnwrapFungible, target)
		if word[0] != byte(UnwrapFungible) {
			t.Errorf("Expected kind in byte 0, got %#x", word[0])
		}
		for i := 1; i < 12; i++ {
			if word[i] != 0 {
				t.Fatalf("Expected zero padding at byte %d", i)
			}
		}
		if common.BytesToAddress(word[12:]) != target {
			t.Errorf("Expected address in low 20 bytes, got %s", word.Hex())
		}
	})
}

func TestEncodeDoInteraction(t *testing.T) {
	target := common.HexToAddress("0xaaaa")
	interaction := Interaction{
		Kind:            WrapFungible,
		Target:          target,
		Metadata:        common.HexToHash("0x1f"),
		SpecifiedAmount: uint256.NewInt(123456),
	}

	data, err := EncodeDoInteraction(interaction)
	if err != nil {
		t.Fatalf("EncodeDoInteraction: %v", err)
	}

	t.Run("selector matches the signature", func(t *testing.T) {
		want := crypto.Keccak256([]byte("doInteraction((bytes32,uint256,uint256,uint256,bytes32))"))[:4]
		if !bytes.Equal(data[:4], want) {
			t.Errorf("Expected selector %x, got %x", want, data[:4])
		}
	})

	t.Run("static tuple encodes inline", func(t *testing.T) {
		if len(data) != 4+5*32 {
			t.Fatalf("Expected %d bytes, got %d", 4+5*32, len(data))
		}
		// Word 0: packed kind and target.
		wantWord := PackKindAndTarget(WrapFungible, target)
		if !bytes.Equal(data[4:36], wantWord[:]) {
			t.Errorf("Expected packed word %x, got %x", wantWord, data[4:36])
		}
		// Word 3: specified amount.
		amount := new(uint256.Int).SetBytes(data[4+3*32 : 4+4*32])
		if !amount.Eq(uint256.NewInt(123456)) {
			t.Errorf("Expected amount 123456, got %s", amount.Dec())
		}
		// Word 4: metadata.
		if !bytes.Equal(data[4+4*32:], interaction.Metadata[:]) {
			t.Errorf("Expected metadata in word 4, got %x", data[4+4*32:])
		}
	})

	t.Run("nil amount encodes as zero", func(t *testing.T) {
		data, err := EncodeDoInteraction(Interaction{Kind: WrapFungible, Target: target})
		if err != nil {
			t.Fatalf("EncodeDoInteraction: %v", err)
		}
		amount := new(uint256.Int).SetBytes(data[4+3*32 : 4+4*32])
		if !amount.IsZero() {
			t.Errorf("Expected zero amount, got %s", amount.Dec())
		}
	})
}

func TestEncodeDoMultipleInteractions(t *testing.T) {
	target := common.HexToAddress("0xbbbb")
	interactions := []Interaction{
		{Kind: WrapFungible, Target: target, SpecifiedAmount: uint256.NewInt(10)},
		{Kind: UnwrapFungible, Target: target, SpecifiedAmount: DeltaAmount()},
	}
	ids := []TokenID{FungibleTokenID(target), testID(9)}

	data, err := EncodeDoMultipleInteractions(interactions, ids)
	if err != nil {
		t.Fatalf("EncodeDoMultipleInteractions: %v", err)
	}

	t.Run("selector matches the signature", func(t *testing.T) {
		want := crypto.Keccak256([]byte("doMultipleInteractions((bytes32,uint256,uint256,uint256,bytes32)[],uint256[])"))[:4]
		if !bytes.Equal(data[:4], want) {
			t.Errorf("Expected selector %x, got %x", want, data[:4])
		}
	})

	t.Run("payload unpacks to the same lengths and ids", func(t *testing.T) {
		values, err := doMultipleInteractionsArgs.Unpack(data[4:])
		if err != nil {
			t.Fatalf("Unpack: %v", err)
		}
		if got := reflect.ValueOf(values[0]).Len(); got != len(interactions) {
			t.Errorf("Expected %d interactions, got %d", len(interactions), got)
		}
		// The id list survives the round trip.
		unpackedIDs, ok := values[1].([]*big.Int)
		if !ok {
			t.Fatalf("Expected []*big.Int ids, got %T", values[1])
		}
		if len(unpackedIDs) != len(ids) {
			t.Fatalf("Expected %d ids, got %d", len(ids), len(unpackedIDs))
		}
		for i := range ids {
			want := new(uint256.Int).SetBytes(ids[i][:])
			got, overflow := uint256.FromBig(unpackedIDs[i])
			if overflow || !got.Eq(want) {
				t.Errorf("id %d: expected %s, got %s", i, want.Dec(), got.Dec())
			}
		}
	})
}
