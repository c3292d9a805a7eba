package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/zenshop/orderd/internal/domain/inventory"
)

func TestLedger_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(map[string]int{"laptop": 10})

	assert.True(t, ledger.CheckAvailability(ctx, "laptop", 1))
	assert.True(t, ledger.CheckAvailability(ctx, "laptop", 10))
	assert.False(t, ledger.CheckAvailability(ctx, "laptop", 11))
	assert.False(t, ledger.CheckAvailability(ctx, "laptop", 0))

	// unknown items have implicit availability zero
	assert.False(t, ledger.CheckAvailability(ctx, "unicycle", 1))
}

func TestLedger_CaseInsensitiveLookup(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(map[string]int{"Laptop": 5})

	assert.True(t, ledger.CheckAvailability(ctx, "LAPTOP", 5))

	remaining, err := ledger.CheckAndReserve(ctx, "  laptop ", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
}

func TestLedger_CheckAndReserve(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(map[string]int{"phone": 10})

	remaining, err := ledger.CheckAndReserve(ctx, "phone", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, remaining)
	assert.Equal(t, 6, ledger.Available("phone"))

	// rejection mutates nothing
	_, err = ledger.CheckAndReserve(ctx, "phone", 7)
	require.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Equal(t, 6, ledger.Available("phone"))

	_, err = ledger.CheckAndReserve(ctx, "unicycle", 1)
	require.ErrorIs(t, err, domain.ErrOutOfStock)
}

func TestLedger_ReserveClampsAtZero(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(map[string]int{"laptop": 10})

	deducted, remaining, err := ledger.Reserve(ctx, "laptop", 999)
	require.NoError(t, err)
	assert.Equal(t, 10, deducted)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 0, ledger.Available("laptop"))

	_, _, err = ledger.Reserve(ctx, "unicycle", 1)
	require.ErrorIs(t, err, domain.ErrUnknownItem)
}

func TestLedger_FullStockThenUnavailable(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(DefaultStock())

	remaining, err := ledger.CheckAndReserve(ctx, "laptop", 50)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.False(t, ledger.CheckAvailability(ctx, "laptop", 1))
}

func TestLedger_ConcurrentReserveNeverOversells(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(map[string]int{"mouse": 100})

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.CheckAndReserve(ctx, "mouse", 1); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrOutOfStock) {
				t.Error("unexpected error:", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, granted)
	assert.Equal(t, 0, ledger.Available("mouse"))
}
