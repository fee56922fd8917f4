package memoburn

import (
	"github.com/gagliardetto/solana-go"

	"memocore/runtime"
)

// UserGlobalBurnStats space: discriminator 8 + user 32 + total_burned 8 +
// burn_count 8 + last_burn_time 8 + bump 1.
const UserGlobalBurnStatsSpace = 65

var UserGlobalBurnStatsDiscriminator = runtime.AccountDiscriminator("UserGlobalBurnStats")

// UserGlobalBurnStats is the per-user lifetime burn counter PDA.
type UserGlobalBurnStats struct {
	User         solana.PublicKey
	TotalBurned  uint64
	BurnCount    uint64
	LastBurnTime int64
	Bump         uint8
}

func (s *UserGlobalBurnStats) Marshal() ([]byte, error) {
	return runtime.EncodeAccount(UserGlobalBurnStatsDiscriminator, s, UserGlobalBurnStatsSpace)
}

func DecodeUserGlobalBurnStats(data []byte) (*UserGlobalBurnStats, error) {
	stats := new(UserGlobalBurnStats)
	if err := runtime.DecodeAccount(UserGlobalBurnStatsDiscriminator, data, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// DeriveUserGlobalBurnStats returns the stats PDA and bump for a user.
func DeriveUserGlobalBurnStats(user solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedUserGlobalBurnStats, user.Bytes()}, ProgramID)
}

// RecordBurn folds one burn into the stats. The running total saturates at
// the lifetime cap instead of overflowing.
func (s *UserGlobalBurnStats) RecordBurn(amount uint64, now int64) {
	if s.TotalBurned >= MaxUserGlobalBurnAmount || MaxUserGlobalBurnAmount-s.TotalBurned < amount {
		s.TotalBurned = MaxUserGlobalBurnAmount
	} else {
		s.TotalBurned += amount
	}
	if s.BurnCount < ^uint64(0) {
		s.BurnCount++
	}
	s.LastBurnTime = now
}
