package memoprofile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/envelope"
	"memocore/memoburn"
	"memocore/runtime"
	"memocore/token"
)

var (
	discCreateProfile = runtime.InstructionDiscriminator("create_profile")
	discUpdateProfile = runtime.InstructionDiscriminator("update_profile")
	discDeleteProfile = runtime.InstructionDiscriminator("delete_profile")
)

// Program owns per-user Profile records. Creation and update are burn-gated
// through the burn program; deletion closes the account back to the user.
type Program struct{}

func (Program) ID() solana.PublicKey {
	return ProgramID
}

func (p Program) Execute(ctx *runtime.Context, data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("instruction data too short: %d bytes", len(data))
	}
	disc, args := data[:8], data[8:]
	switch {
	case bytes.Equal(disc, discCreateProfile[:]):
		return p.createProfile(ctx, args)
	case bytes.Equal(disc, discUpdateProfile[:]):
		return p.updateProfile(ctx, args)
	case bytes.Equal(disc, discDeleteProfile[:]):
		return p.deleteProfile(ctx, args)
	default:
		return fmt.Errorf("unknown instruction discriminator %x", disc)
	}
}

// createProfile accounts:
// [user (signer, w), profile (w), mint (w), user_token_account (w),
//  user_global_burn_stats (w), token_program, memo_burn_program,
//  system_program, instructions sysvar].
func (Program) createProfile(ctx *runtime.Context, args []byte) error {
	if len(args) != 8 {
		return fmt.Errorf("expected u64 burn_amount, got %d bytes", len(args))
	}
	burnAmount := binary.LittleEndian.Uint64(args)

	userRef, profileRef, tokenRef, err := resolveBurnGatedAccounts(ctx, 8)
	if err != nil {
		return err
	}

	if err := validateProfileBurnAmount(burnAmount); err != nil {
		return err
	}

	expected, bump, err := DeriveProfile(userRef.Key)
	if err != nil {
		return err
	}
	if !profileRef.Key.Equals(expected) {
		return fmt.Errorf("%w: got %s, expected %s", ErrUnauthorizedProfileAccess, profileRef.Key, expected)
	}
	if profileRef.Account.Exists() {
		return fmt.Errorf("%w: %s", ErrProfileAlreadyExists, profileRef.Key)
	}

	payload, err := resolveProfilePayload(ctx, burnAmount)
	if err != nil {
		return err
	}
	creation := new(envelope.ProfileCreationData)
	if err := envelope.UnmarshalPayload(payload, creation); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProfileDataFormat, err)
	}
	if err := envelope.ValidateHeader(creation.Version, creation.Category, creation.Operation,
		creation.UserPubkey, Category, OpCreateProfile, userRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if err := validateProfileFields(creation.Username, creation.Image, creation.AboutMe, creation.URL); err != nil {
		return err
	}

	if err := invokeBurn(ctx, userRef.Key, tokenRef.Key, burnAmount); err != nil {
		return err
	}

	if err := ctx.CreateAccount(profileRef, userRef, ProgramID, ProfileSpaceMax); err != nil {
		return err
	}
	now := ctx.UnixTimestamp()
	profile := &Profile{
		Pubkey:       userRef.Key,
		Username:     creation.Username,
		Image:        creation.Image,
		BurnedAmount: burnAmount,
		CreatedAt:    now,
		LastUpdated:  now,
		AboutMe:      creation.AboutMe,
		URL:          creation.URL,
		Bump:         bump,
	}
	data, err := profile.Marshal()
	if err != nil {
		return err
	}
	if err := profileRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("profile created for user %s with %d tokens burned",
		userRef.Key, burnAmount/DecimalFactor)
	return nil
}

// updateProfile accounts:
// [user (signer, w), profile (w), mint (w), user_token_account (w),
//  user_global_burn_stats (w), token_program, memo_burn_program,
//  instructions sysvar]. Updates are burn-gated like creation.
func (Program) updateProfile(ctx *runtime.Context, args []byte) error {
	if len(args) != 8 {
		return fmt.Errorf("expected u64 burn_amount, got %d bytes", len(args))
	}
	burnAmount := binary.LittleEndian.Uint64(args)

	userRef, profileRef, tokenRef, err := resolveBurnGatedAccounts(ctx, 7)
	if err != nil {
		return err
	}

	if err := validateProfileBurnAmount(burnAmount); err != nil {
		return err
	}

	profile, err := loadOwnedProfile(profileRef, userRef.Key)
	if err != nil {
		return err
	}

	payload, err := resolveProfilePayload(ctx, burnAmount)
	if err != nil {
		return err
	}
	update := new(envelope.ProfileUpdateData)
	if err := envelope.UnmarshalPayload(payload, update); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProfileDataFormat, err)
	}
	if err := envelope.ValidateHeader(update.Version, update.Category, update.Operation,
		update.UserPubkey, Category, OpUpdateProfile, userRef.Key); err != nil {
		return mapHeaderError(err)
	}

	if update.Username != nil {
		if len(*update.Username) == 0 {
			return ErrEmptyUsername
		}
		if len(*update.Username) > MaxUsernameLength {
			return ErrUsernameTooLong
		}
	}
	if update.Image != nil && len(*update.Image) > MaxProfileImageLength {
		return ErrProfileImageTooLong
	}
	if update.AboutMe != nil && len(*update.AboutMe) > MaxAboutMeLength {
		return ErrAboutMeTooLong
	}
	if update.URL != nil && len(*update.URL) > MaxURLLength {
		return ErrURLTooLong
	}

	if err := invokeBurn(ctx, userRef.Key, tokenRef.Key, burnAmount); err != nil {
		return err
	}

	if update.Username != nil {
		profile.Username = *update.Username
	}
	if update.Image != nil {
		profile.Image = *update.Image
	}
	if update.AboutMe != nil {
		if len(*update.AboutMe) == 0 {
			profile.AboutMe = nil
		} else {
			profile.AboutMe = update.AboutMe
		}
	}
	if update.URL != nil {
		if len(*update.URL) == 0 {
			profile.URL = nil
		} else {
			profile.URL = update.URL
		}
	}
	if profile.BurnedAmount > ^uint64(0)-burnAmount {
		profile.BurnedAmount = ^uint64(0)
	} else {
		profile.BurnedAmount += burnAmount
	}
	profile.LastUpdated = ctx.UnixTimestamp()

	data, err := profile.Marshal()
	if err != nil {
		return err
	}
	if err := profileRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("profile updated for user %s", userRef.Key)
	return nil
}

// deleteProfile accounts: [user (signer, w), profile (w)]. Free: closes the
// account and returns rent to the user.
func (Program) deleteProfile(ctx *runtime.Context, args []byte) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected instruction args: %d bytes", len(args))
	}
	userRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	profileRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	if !userRef.IsSigner {
		return ErrMissingSignature
	}

	profile, err := loadOwnedProfile(profileRef, userRef.Key)
	if err != nil {
		return err
	}

	username := profile.Username
	if err := ctx.CloseAccount(profileRef, userRef); err != nil {
		return err
	}
	ctx.Logf("profile %q deleted for user %s", username, userRef.Key)
	return nil
}

// resolveBurnGatedAccounts reads the common head of the burn-gated
// entrypoints and runs the signer, sysvar, mint and token-account checks.
// sysvarIndex is the position of the instructions sysvar.
func resolveBurnGatedAccounts(ctx *runtime.Context, sysvarIndex int) (user, profile, tokenAccount *runtime.AccountRef, err error) {
	userRef, err := ctx.Account(0)
	if err != nil {
		return nil, nil, nil, err
	}
	profileRef, err := ctx.Account(1)
	if err != nil {
		return nil, nil, nil, err
	}
	mintRef, err := ctx.Account(2)
	if err != nil {
		return nil, nil, nil, err
	}
	tokenRef, err := ctx.Account(3)
	if err != nil {
		return nil, nil, nil, err
	}
	sysvarRef, err := ctx.Account(sysvarIndex)
	if err != nil {
		return nil, nil, nil, err
	}

	if !userRef.IsSigner {
		return nil, nil, nil, ErrMissingSignature
	}
	if err := envelope.RequireInstructionsSysvar(sysvarRef); err != nil {
		return nil, nil, nil, err
	}
	if !mintRef.Key.Equals(AuthorizedMint) {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrUnauthorizedMint, mintRef.Key)
	}

	account, err := token.DecodeAccount(tokenRef.Account.Data)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrInvalidTokenAccount, err)
	}
	if !account.Mint.Equals(mintRef.Key) {
		return nil, nil, nil, fmt.Errorf("%w: wrong mint %s", ErrInvalidTokenAccount, account.Mint)
	}
	if !account.Owner.Equals(userRef.Key) {
		return nil, nil, nil, fmt.Errorf("%w: owner %s", ErrUnauthorizedTokenAccount, account.Owner)
	}
	return userRef, profileRef, tokenRef, nil
}

// loadOwnedProfile checks the PDA binding and ownership of an existing
// profile account and decodes it.
func loadOwnedProfile(profileRef *runtime.AccountRef, user solana.PublicKey) (*Profile, error) {
	expected, bump, err := DeriveProfile(user)
	if err != nil {
		return nil, err
	}
	if !profileRef.Key.Equals(expected) {
		return nil, fmt.Errorf("%w: got %s, expected %s", ErrUnauthorizedProfileAccess, profileRef.Key, expected)
	}
	if !profileRef.Account.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, profileRef.Key)
	}
	profile, err := DecodeProfile(profileRef.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, err)
	}
	if !profile.Pubkey.Equals(user) {
		return nil, fmt.Errorf("%w: profile belongs to %s", ErrUnauthorizedProfileAccess, profile.Pubkey)
	}
	if profile.Bump != bump {
		return nil, fmt.Errorf("%w: stored bump %d, canonical %d", ErrUnauthorizedProfileAccess, profile.Bump, bump)
	}
	return profile, nil
}

// invokeBurn issues the CPI into the burn program; the user's signature
// carries through the invocation.
func invokeBurn(ctx *runtime.Context, user, tokenAccount solana.PublicKey, amount uint64) error {
	ix, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, amount)
	if err != nil {
		return err
	}
	compiled, err := runtime.CompileInstruction(ix)
	if err != nil {
		return err
	}
	if err := ctx.Invoke(compiled); err != nil {
		return fmt.Errorf("burn CPI failed: %w", err)
	}
	return nil
}

func validateProfileBurnAmount(amount uint64) error {
	err := envelope.ValidateAmount(amount, MinProfileBurnAmount)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, envelope.ErrAmountTooSmall):
		return fmt.Errorf("%w: %d units", ErrBurnAmountTooSmall, amount)
	case errors.Is(err, envelope.ErrAmountTooLarge):
		return fmt.Errorf("%w: %d units", ErrBurnAmountTooLarge, amount)
	default:
		return fmt.Errorf("%w: %d units", ErrInvalidBurnAmount, amount)
	}
}

func validateProfileFields(username, image string, aboutMe, url *string) error {
	if len(username) == 0 {
		return ErrEmptyUsername
	}
	if len(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if len(image) > MaxProfileImageLength {
		return ErrProfileImageTooLong
	}
	if aboutMe != nil && len(*aboutMe) > MaxAboutMeLength {
		return ErrAboutMeTooLong
	}
	if url != nil && len(*url) > MaxURLLength {
		return ErrURLTooLong
	}
	return nil
}

// resolveProfilePayload runs the shared envelope path and translates the
// envelope sentinels into this program's error codes.
func resolveProfilePayload(ctx *runtime.Context, amount uint64) ([]byte, error) {
	payload, err := envelope.ResolvePayload(ctx, amount)
	if err == nil {
		return payload, nil
	}
	switch {
	case errors.Is(err, envelope.ErrMemoMissing), errors.Is(err, envelope.ErrMemoEmpty):
		return nil, ErrMemoRequired
	case errors.Is(err, envelope.ErrMemoTooShort):
		return nil, ErrMemoTooShort
	case errors.Is(err, envelope.ErrMemoTooLong):
		return nil, ErrMemoTooLong
	case errors.Is(err, envelope.ErrUnsupportedVersion):
		return nil, ErrUnsupportedMemoVersion
	case errors.Is(err, envelope.ErrPayloadTooLong):
		return nil, ErrPayloadTooLong
	case errors.Is(err, envelope.ErrAmountMismatch):
		return nil, ErrBurnAmountMismatch
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMemoFormat, err)
	}
}

func mapHeaderError(err error) error {
	switch {
	case errors.Is(err, envelope.ErrPayloadVersion):
		return ErrUnsupportedProfileDataVersion
	case errors.Is(err, envelope.ErrWrongCategory):
		return ErrInvalidCategory
	case errors.Is(err, envelope.ErrWrongOperation):
		return ErrInvalidOperation
	case errors.Is(err, envelope.ErrBadSignerPubkey):
		return ErrInvalidUserPubkeyFormat
	case errors.Is(err, envelope.ErrSignerMismatch):
		return ErrUserPubkeyMismatch
	default:
		return err
	}
}
