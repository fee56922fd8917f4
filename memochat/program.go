package memochat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/envelope"
	"memocore/memoburn"
	"memocore/memomint"
	"memocore/runtime"
	"memocore/token"
)

var (
	discInitializeGlobalCounter = runtime.InstructionDiscriminator("initialize_global_counter")
	discCreateChatGroup         = runtime.InstructionDiscriminator("create_chat_group")
	discBurnTokensForGroup      = runtime.InstructionDiscriminator("burn_tokens_for_group")
	discSendMemoToGroup         = runtime.InstructionDiscriminator("send_memo_to_group")
)

// Program owns sequential ChatGroup records. Sending a memo to a group mints
// the fixed grant to the sender, signed by the group PDA and rate limited per
// group; burns are open to any user.
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
	case bytes.Equal(disc, discInitializeGlobalCounter[:]):
		return p.initializeGlobalCounter(ctx, args)
	case bytes.Equal(disc, discCreateChatGroup[:]):
		return p.createChatGroup(ctx, args)
	case bytes.Equal(disc, discBurnTokensForGroup[:]):
		return p.burnTokensForGroup(ctx, args)
	case bytes.Equal(disc, discSendMemoToGroup[:]):
		return p.sendMemoToGroup(ctx, args)
	default:
		return fmt.Errorf("unknown instruction discriminator %x", disc)
	}
}

// initializeGlobalCounter accounts:
// [admin (signer, w), global_counter (w), system_program]. One-time setup.
func (Program) initializeGlobalCounter(ctx *runtime.Context, args []byte) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected instruction args: %d bytes", len(args))
	}
	adminRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	counterRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	if !adminRef.IsSigner {
		return ErrMissingSignature
	}
	if !adminRef.Key.Equals(AuthorizedAdmin) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedAdmin, adminRef.Key)
	}

	expected, _, err := DeriveGlobalCounter()
	if err != nil {
		return err
	}
	if !counterRef.Key.Equals(expected) {
		return fmt.Errorf("%w: got %s, expected %s", ErrCounterNotInitialized, counterRef.Key, expected)
	}
	if counterRef.Account.Exists() {
		return fmt.Errorf("%w: %s", ErrCounterAlreadyInitialized, counterRef.Key)
	}
	if err := ctx.CreateAccount(counterRef, adminRef, ProgramID, GlobalGroupCounterSpace); err != nil {
		return err
	}
	counter := new(GlobalGroupCounter)
	data, err := counter.Marshal()
	if err != nil {
		return err
	}
	if err := counterRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("global group counter initialized by admin %s", adminRef.Key)
	return nil
}

// createChatGroup accounts:
// [creator (signer, w), global_counter (w), chat_group (w), mint (w),
//  creator_token_account (w), user_global_burn_stats (w), token_program,
//  memo_burn_program, system_program, instructions sysvar].
// args: expected_group_id u64, burn_amount u64.
func (Program) createChatGroup(ctx *runtime.Context, args []byte) error {
	if len(args) != 16 {
		return fmt.Errorf("expected u64 group_id and u64 burn_amount, got %d bytes", len(args))
	}
	expectedGroupID := binary.LittleEndian.Uint64(args[:8])
	burnAmount := binary.LittleEndian.Uint64(args[8:])

	creatorRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	counterRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	groupRef, err := ctx.Account(2)
	if err != nil {
		return err
	}
	tokenRef, err := resolveBurnChecks(ctx, creatorRef, 3, 4, 9)
	if err != nil {
		return err
	}

	if err := validateChatAmount(burnAmount); err != nil {
		return err
	}

	counter, err := loadCounter(counterRef)
	if err != nil {
		return err
	}
	actualGroupID := counter.TotalGroups
	if expectedGroupID != actualGroupID {
		return fmt.Errorf("%w: expected %d, next available %d", ErrGroupIDMismatch, expectedGroupID, actualGroupID)
	}

	expected, bump, err := DeriveChatGroup(actualGroupID)
	if err != nil {
		return err
	}
	if !groupRef.Key.Equals(expected) {
		return fmt.Errorf("%w: got %s, expected %s", ErrGroupNotFound, groupRef.Key, expected)
	}
	if groupRef.Account.Exists() {
		return fmt.Errorf("%w: %s", ErrGroupAlreadyExists, groupRef.Key)
	}

	payload, err := resolveChatPayload(ctx, burnAmount)
	if err != nil {
		return err
	}
	creation := new(envelope.GroupCreationData)
	if err := envelope.UnmarshalPayload(payload, creation); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidGroupDataFormat, err)
	}
	if err := envelope.ValidateHeader(creation.Version, creation.Category, creation.Operation,
		creation.Creator, Category, OpCreateChatGroup, creatorRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if creation.GroupID != actualGroupID {
		return fmt.Errorf("%w: payload group_id %d", ErrGroupIDMismatch, creation.GroupID)
	}
	if err := validateGroupFields(creation.Name, creation.Description, creation.Image, creation.Tags); err != nil {
		return err
	}
	interval := DefaultMemoInterval
	if creation.MinMemoInterval != nil {
		interval = *creation.MinMemoInterval
		if interval < 0 || interval > MaxMemoInterval {
			return fmt.Errorf("%w: %d seconds", ErrInvalidMemoInterval, interval)
		}
	}

	if err := invokeBurn(ctx, creatorRef.Key, tokenRef.Key, burnAmount); err != nil {
		return err
	}

	if err := ctx.CreateAccount(groupRef, creatorRef, ProgramID, ChatGroupSpaceMax); err != nil {
		return err
	}
	group := &ChatGroup{
		GroupID:         actualGroupID,
		Creator:         creatorRef.Key,
		CreatedAt:       ctx.UnixTimestamp(),
		Name:            creation.Name,
		Description:     creation.Description,
		Image:           creation.Image,
		Tags:            creation.Tags,
		BurnedAmount:    burnAmount,
		MinMemoInterval: interval,
		Bump:            bump,
	}
	groupData, err := group.Marshal()
	if err != nil {
		return err
	}
	if err := groupRef.SetData(groupData); err != nil {
		return err
	}

	if counter.TotalGroups == ^uint64(0) {
		return ErrGroupCounterOverflow
	}
	counter.TotalGroups++
	counterData, err := counter.Marshal()
	if err != nil {
		return err
	}
	if err := counterRef.SetData(counterData); err != nil {
		return err
	}
	ctx.Logf("chat group %d created by %s with %d tokens burned (total groups %d)",
		actualGroupID, creatorRef.Key, burnAmount/DecimalFactor, counter.TotalGroups)
	return nil
}

// burnTokensForGroup accounts:
// [burner (signer, w), chat_group (w), mint (w), burner_token_account (w),
//  user_global_burn_stats (w), token_program, memo_burn_program,
//  instructions sysvar]. Any user may burn in support of a group.
// args: group_id u64, amount u64.
func (Program) burnTokensForGroup(ctx *runtime.Context, args []byte) error {
	if len(args) != 16 {
		return fmt.Errorf("expected u64 group_id and u64 amount, got %d bytes", len(args))
	}
	groupID := binary.LittleEndian.Uint64(args[:8])
	amount := binary.LittleEndian.Uint64(args[8:])

	burnerRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	groupRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	tokenRef, err := resolveBurnChecks(ctx, burnerRef, 2, 3, 7)
	if err != nil {
		return err
	}
	if err := validateChatAmount(amount); err != nil {
		return err
	}

	group, err := loadGroup(groupRef, groupID)
	if err != nil {
		return err
	}

	payload, err := resolveChatPayload(ctx, amount)
	if err != nil {
		return err
	}
	burn := new(envelope.GroupBurnData)
	if err := envelope.UnmarshalPayload(payload, burn); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidGroupDataFormat, err)
	}
	if err := envelope.ValidateHeader(burn.Version, burn.Category, burn.Operation,
		burn.Burner, Category, OpBurnForGroup, burnerRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if burn.GroupID != groupID {
		return fmt.Errorf("%w: payload group_id %d", ErrGroupIDMismatch, burn.GroupID)
	}
	if len(burn.Message) > MaxChatMessageLength {
		return ErrChatMessageTooLong
	}

	if err := invokeBurn(ctx, burnerRef.Key, tokenRef.Key, amount); err != nil {
		return err
	}

	group.recordMemo(amount, ctx.UnixTimestamp())
	data, err := group.Marshal()
	if err != nil {
		return err
	}
	if err := groupRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("burned %d tokens for group %d by %s (memos %d)",
		amount/DecimalFactor, groupID, burnerRef.Key, group.MemoCount)
	return nil
}

// sendMemoToGroup accounts:
// [sender (signer, w), chat_group (w), mint (w), mint_authority,
//  sender_token_account (w), token_program, memo_mint_program,
//  instructions sysvar]. The group PDA signs the mint CPI and the fixed
// grant goes to the sender; the group rate limit gates how often.
// args: group_id u64.
func (Program) sendMemoToGroup(ctx *runtime.Context, args []byte) error {
	if len(args) != 8 {
		return fmt.Errorf("expected u64 group_id, got %d bytes", len(args))
	}
	groupID := binary.LittleEndian.Uint64(args)

	senderRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	groupRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	tokenRef, err := ctx.Account(4)
	if err != nil {
		return err
	}
	sysvarRef, err := ctx.Account(7)
	if err != nil {
		return err
	}
	if !senderRef.IsSigner {
		return ErrMissingSignature
	}
	if err := envelope.RequireInstructionsSysvar(sysvarRef); err != nil {
		return err
	}

	group, err := loadGroup(groupRef, groupID)
	if err != nil {
		return err
	}
	now := ctx.UnixTimestamp()
	if group.LastMemoTime != 0 && now-group.LastMemoTime < group.MinMemoInterval {
		return fmt.Errorf("%w: %d seconds remaining", ErrMemoRateLimited,
			group.MinMemoInterval-(now-group.LastMemoTime))
	}

	payload, err := resolveChatMintPayload(ctx)
	if err != nil {
		return err
	}
	memo := new(envelope.GroupMemoData)
	if err := envelope.UnmarshalPayload(payload, memo); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidGroupDataFormat, err)
	}
	if err := envelope.ValidateHeader(memo.Version, memo.Category, memo.Operation,
		memo.Sender, Category, OpSendMemo, senderRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if memo.GroupID != groupID {
		return fmt.Errorf("%w: payload group_id %d", ErrGroupIDMismatch, memo.GroupID)
	}
	if len(memo.Message) > MaxChatMessageLength {
		return ErrChatMessageTooLong
	}

	mintIx, err := memomint.NewProcessMintToInstruction(groupRef.Key, senderRef.Key, tokenRef.Key)
	if err != nil {
		return err
	}
	compiled, err := runtime.CompileInstruction(mintIx)
	if err != nil {
		return err
	}
	if err := ctx.Invoke(compiled, groupSignerSeeds(groupID, group.Bump)); err != nil {
		return fmt.Errorf("mint CPI failed: %w", err)
	}

	group.recordMemo(0, now)
	data, err := group.Marshal()
	if err != nil {
		return err
	}
	if err := groupRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("memo sent to group %d by %s (memos %d)", groupID, senderRef.Key, group.MemoCount)
	return nil
}

// resolveBurnChecks runs the signer, sysvar, mint and token-account checks
// for the burn-gated entrypoints; mintIndex/tokenIndex/sysvarIndex give the
// positions in the account list.
func resolveBurnChecks(ctx *runtime.Context, signerRef *runtime.AccountRef, mintIndex, tokenIndex, sysvarIndex int) (*runtime.AccountRef, error) {
	mintRef, err := ctx.Account(mintIndex)
	if err != nil {
		return nil, err
	}
	tokenRef, err := ctx.Account(tokenIndex)
	if err != nil {
		return nil, err
	}
	sysvarRef, err := ctx.Account(sysvarIndex)
	if err != nil {
		return nil, err
	}
	if !signerRef.IsSigner {
		return nil, ErrMissingSignature
	}
	if err := envelope.RequireInstructionsSysvar(sysvarRef); err != nil {
		return nil, err
	}
	if !mintRef.Key.Equals(AuthorizedMint) {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorizedMint, mintRef.Key)
	}

	account, err := token.DecodeAccount(tokenRef.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTokenAccount, err)
	}
	if !account.Mint.Equals(mintRef.Key) {
		return nil, fmt.Errorf("%w: wrong mint %s", ErrInvalidTokenAccount, account.Mint)
	}
	if !account.Owner.Equals(signerRef.Key) {
		return nil, fmt.Errorf("%w: owner %s", ErrUnauthorizedTokenAccount, account.Owner)
	}
	return tokenRef, nil
}

func loadCounter(counterRef *runtime.AccountRef) (*GlobalGroupCounter, error) {
	expected, _, err := DeriveGlobalCounter()
	if err != nil {
		return nil, err
	}
	if !counterRef.Key.Equals(expected) {
		return nil, fmt.Errorf("%w: got %s, expected %s", ErrCounterNotInitialized, counterRef.Key, expected)
	}
	if !counterRef.Account.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrCounterNotInitialized, counterRef.Key)
	}
	counter, err := DecodeGlobalGroupCounter(counterRef.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCounterNotInitialized, err)
	}
	return counter, nil
}

func loadGroup(groupRef *runtime.AccountRef, groupID uint64) (*ChatGroup, error) {
	expected, bump, err := DeriveChatGroup(groupID)
	if err != nil {
		return nil, err
	}
	if !groupRef.Key.Equals(expected) {
		return nil, fmt.Errorf("%w: got %s, expected %s", ErrGroupNotFound, groupRef.Key, expected)
	}
	if !groupRef.Account.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupRef.Key)
	}
	group, err := DecodeChatGroup(groupRef.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, err)
	}
	if group.GroupID != groupID {
		return nil, fmt.Errorf("%w: record group_id %d", ErrGroupNotFound, group.GroupID)
	}
	if group.Bump != bump {
		return nil, fmt.Errorf("%w: stored bump %d, canonical %d", ErrGroupNotFound, group.Bump, bump)
	}
	return group, nil
}

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

func validateChatAmount(amount uint64) error {
	err := envelope.ValidateAmount(amount, MinChatBurnAmount)
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

func validateGroupFields(name, description, image string, tags []string) error {
	if len(name) == 0 || len(name) > MaxGroupNameLength {
		return ErrInvalidGroupName
	}
	if len(description) > MaxGroupDescriptionLength {
		return ErrGroupDescriptionTooLong
	}
	if len(image) > MaxGroupImageLength {
		return ErrGroupImageTooLong
	}
	if len(tags) > MaxTagsCount {
		return ErrTooManyTags
	}
	for _, tag := range tags {
		if len(tag) == 0 || len(tag) > MaxTagLength {
			return ErrInvalidTag
		}
	}
	return nil
}

func resolveChatPayload(ctx *runtime.Context, amount uint64) ([]byte, error) {
	payload, err := envelope.ResolvePayload(ctx, amount)
	if err == nil {
		return payload, nil
	}
	return nil, mapEnvelopeError(err)
}

func resolveChatMintPayload(ctx *runtime.Context) ([]byte, error) {
	payload, err := envelope.ResolveMintPayload(ctx)
	if err == nil {
		return payload, nil
	}
	return nil, mapEnvelopeError(err)
}

func mapEnvelopeError(err error) error {
	switch {
	case errors.Is(err, envelope.ErrMemoMissing), errors.Is(err, envelope.ErrMemoEmpty):
		return ErrMemoRequired
	case errors.Is(err, envelope.ErrMemoTooShort):
		return ErrMemoTooShort
	case errors.Is(err, envelope.ErrMemoTooLong):
		return ErrMemoTooLong
	case errors.Is(err, envelope.ErrUnsupportedVersion):
		return ErrUnsupportedMemoVersion
	case errors.Is(err, envelope.ErrPayloadTooLong):
		return ErrPayloadTooLong
	case errors.Is(err, envelope.ErrAmountMismatch):
		return ErrBurnAmountMismatch
	default:
		return fmt.Errorf("%w: %s", ErrInvalidMemoFormat, err)
	}
}

func mapHeaderError(err error) error {
	switch {
	case errors.Is(err, envelope.ErrPayloadVersion):
		return ErrInvalidGroupDataFormat
	case errors.Is(err, envelope.ErrWrongCategory):
		return ErrInvalidCategory
	case errors.Is(err, envelope.ErrWrongOperation):
		return ErrInvalidOperation
	case errors.Is(err, envelope.ErrBadSignerPubkey):
		return ErrInvalidSenderPubkeyFormat
	case errors.Is(err, envelope.ErrSignerMismatch):
		return ErrSenderPubkeyMismatch
	default:
		return err
	}
}
