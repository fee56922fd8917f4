package memoprofile

import (
	"github.com/gagliardetto/solana-go"

	"memocore/runtime"
)

// Profile space: conservative maximum including the safety buffer, matching
// the fixed allocation at creation time.
const ProfileSpaceMax = 8 + // discriminator
	32 + // pubkey
	8 + // burned_amount
	8 + // created_at
	8 + // last_updated
	1 + // bump
	4 + MaxUsernameLength +
	4 + MaxProfileImageLength +
	1 + 4 + MaxAboutMeLength +
	1 + 4 + MaxURLLength +
	128 // safety buffer

var ProfileDiscriminator = runtime.AccountDiscriminator("Profile")

// Profile is the per-user profile PDA record.
type Profile struct {
	Pubkey       solana.PublicKey
	Username     string
	Image        string
	BurnedAmount uint64
	CreatedAt    int64
	LastUpdated  int64
	AboutMe      *string `bin:"optional"`
	URL          *string `bin:"optional"`
	Bump         uint8
}

func (p *Profile) Marshal() ([]byte, error) {
	return runtime.EncodeAccount(ProfileDiscriminator, p, ProfileSpaceMax)
}

func DecodeProfile(data []byte) (*Profile, error) {
	profile := new(Profile)
	if err := runtime.DecodeAccount(ProfileDiscriminator, data, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeriveProfile returns the profile PDA and bump for a user.
func DeriveProfile(user solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedProfile, user.Bytes()}, ProgramID)
}
