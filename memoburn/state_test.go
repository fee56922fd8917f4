package memoburn

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBurnSaturatesAtLifetimeCap(t *testing.T) {
	stats := &UserGlobalBurnStats{
		User:        solana.NewWallet().PublicKey(),
		TotalBurned: MaxUserGlobalBurnAmount - 500_000,
	}

	stats.RecordBurn(1_000_000, 100)
	assert.Equal(t, MaxUserGlobalBurnAmount, stats.TotalBurned)
	assert.Equal(t, uint64(1), stats.BurnCount)
	assert.Equal(t, int64(100), stats.LastBurnTime)

	// further burns keep the total pinned
	stats.RecordBurn(MaxBurnPerTx, 200)
	assert.Equal(t, MaxUserGlobalBurnAmount, stats.TotalBurned)
	assert.Equal(t, uint64(2), stats.BurnCount)
}

func TestStatsRoundTrip(t *testing.T) {
	stats := &UserGlobalBurnStats{
		User:         solana.NewWallet().PublicKey(),
		TotalBurned:  42_000_000,
		BurnCount:    7,
		LastBurnTime: 1_700_000_123,
		Bump:         254,
	}
	data, err := stats.Marshal()
	require.NoError(t, err)
	require.Len(t, data, UserGlobalBurnStatsSpace)

	decoded, err := DecodeUserGlobalBurnStats(data)
	require.NoError(t, err)
	assert.Equal(t, stats, decoded)
}
