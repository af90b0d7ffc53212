package ocean

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestConvertDecimals(t *testing.T) {
	t.Run("identity at equal precision", func(t *testing.T) {
		amount := uint256.NewInt(123456789)
		converted, truncated, err := convertDecimals(18, 18, amount)
		if err != nil {
			t.Fatalf("convertDecimals: %v", err)
		}
		if !converted.Eq(amount) {
			t.Errorf("Expected identity, got %s", converted.Dec())
		}
		if !truncated.IsZero() {
			t.Errorf("Expected no truncation, got %s", truncated.Dec())
		}
	})

	t.Run("scales up without truncation", func(t *testing.T) {
		converted, truncated, err := convertDecimals(18, 24, uint256.NewInt(5))
		if err != nil {
			t.Fatalf("convertDecimals: %v", err)
		}
		if !converted.Eq(uint256.NewInt(5_000_000)) {
			t.Errorf("Expected 5e6, got %s", converted.Dec())
		}
		if !truncated.IsZero() {
			t.Errorf("Expected no truncation, got %s", truncated.Dec())
		}
	})

	t.Run("scales down with truncation", func(t *testing.T) {
		// 1.5e12 at 18 decimals to 6 decimals: factor 1e12.
		amount := uint256.NewInt(1_500_000_000_123)
		converted, truncated, err := convertDecimals(18, 6, amount)
		if err != nil {
			t.Fatalf("convertDecimals: %v", err)
		}
		if !converted.Eq(uint256.NewInt(1)) {
			t.Errorf("Expected 1, got %s", converted.Dec())
		}
		if !truncated.Eq(uint256.NewInt(500_000_000_123)) {
			t.Errorf("Expected truncation 500000000123, got %s", truncated.Dec())
		}
	})

	t.Run("up-scaling overflow is an error", func(t *testing.T) {
		huge := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
		_, _, err := convertDecimals(18, 36, huge)
		if !errors.Is(err, ErrDecimalOverflow) {
			t.Errorf("Expected ErrDecimalOverflow, got %v", err)
		}
	})

	t.Run("round trip reproduces the floor", func(t *testing.T) {
		amount := uint256.NewInt(987_654_321_987_654_321)
		down, _, err := convertDecimals(18, 8, amount)
		if err != nil {
			t.Fatalf("down: %v", err)
		}
		up, _, err := convertDecimals(8, 18, down)
		if err != nil {
			t.Fatalf("up: %v", err)
		}
		// Up-converted floor differs from the original by less than one
		// external unit (1e10).
		diff := new(uint256.Int).Sub(amount, up)
		if diff.Cmp(uint256.NewInt(10_000_000_000)) >= 0 {
			t.Errorf("Dust %s exceeds one external unit", diff.Dec())
		}
	})
}

func TestDetermineTransferAmount(t *testing.T) {
	t.Run("exact at matching precision", func(t *testing.T) {
		transfer, dust, err := determineTransferAmount(uint256.NewInt(1000), 18)
		if err != nil {
			t.Fatalf("determineTransferAmount: %v", err)
		}
		if !transfer.Eq(uint256.NewInt(1000)) || !dust.IsZero() {
			t.Errorf("Expected (1000, 0), got (%s, %s)", transfer.Dec(), dust.Dec())
		}
	})

	t.Run("rounds the external transfer up", func(t *testing.T) {
		// 1e12 + 1 ledger units of a 6-decimal asset: one external unit is
		// 1e12 ledger units, so the transfer must round up to 2 and the
		// over-collection is 1e12 - 1.
		amount := uint256.NewInt(1_000_000_000_001)
		transfer, dust, err := determineTransferAmount(amount, 6)
		if err != nil {
			t.Fatalf("determineTransferAmount: %v", err)
		}
		if !transfer.Eq(uint256.NewInt(2)) {
			t.Errorf("Expected ceiling transfer 2, got %s", transfer.Dec())
		}
		if !dust.Eq(uint256.NewInt(999_999_999_999)) {
			t.Errorf("Expected dust 999999999999, got %s", dust.Dec())
		}
	})

	t.Run("no dust on exact multiples", func(t *testing.T) {
		transfer, dust, err := determineTransferAmount(uint256.NewInt(3_000_000_000_000), 6)
		if err != nil {
			t.Fatalf("determineTransferAmount: %v", err)
		}
		if !transfer.Eq(uint256.NewInt(3)) || !dust.IsZero() {
			t.Errorf("Expected (3, 0), got (%s, %s)", transfer.Dec(), dust.Dec())
		}
	})
}
