package memoforum

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
	discCreatePost              = runtime.InstructionDiscriminator("create_post")
	discBurnForPost             = runtime.InstructionDiscriminator("burn_for_post")
	discMintForPost             = runtime.InstructionDiscriminator("mint_for_post")
)

// Program owns sequential Post records. Creation is burn-gated by the
// creator; replies (burn_for_post, mint_for_post) are open to any user.
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
	case bytes.Equal(disc, discCreatePost[:]):
		return p.createPost(ctx, args)
	case bytes.Equal(disc, discBurnForPost[:]):
		return p.burnForPost(ctx, args)
	case bytes.Equal(disc, discMintForPost[:]):
		return p.mintForPost(ctx, args)
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
	if err := ctx.CreateAccount(counterRef, adminRef, ProgramID, GlobalPostCounterSpace); err != nil {
		return err
	}
	counter := new(GlobalPostCounter)
	data, err := counter.Marshal()
	if err != nil {
		return err
	}
	if err := counterRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("global post counter initialized by admin %s", adminRef.Key)
	return nil
}

// createPost accounts:
// [creator (signer, w), global_counter (w), post (w), mint (w),
//  creator_token_account (w), user_global_burn_stats (w), token_program,
//  memo_burn_program, system_program, instructions sysvar].
// args: expected_post_id u64, burn_amount u64.
func (Program) createPost(ctx *runtime.Context, args []byte) error {
	if len(args) != 16 {
		return fmt.Errorf("expected u64 post_id and u64 burn_amount, got %d bytes", len(args))
	}
	expectedPostID := binary.LittleEndian.Uint64(args[:8])
	burnAmount := binary.LittleEndian.Uint64(args[8:])

	creatorRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	counterRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	postRef, err := ctx.Account(2)
	if err != nil {
		return err
	}
	tokenRef, err := resolveBurnChecks(ctx, creatorRef, 3, 4, 9)
	if err != nil {
		return err
	}

	if err := validatePostAmount(burnAmount); err != nil {
		return err
	}

	counter, err := loadCounter(counterRef)
	if err != nil {
		return err
	}
	actualPostID := counter.TotalPosts
	if expectedPostID != actualPostID {
		return fmt.Errorf("%w: expected %d, next available %d", ErrPostIDMismatch, expectedPostID, actualPostID)
	}

	expected, bump, err := DerivePost(actualPostID)
	if err != nil {
		return err
	}
	if !postRef.Key.Equals(expected) {
		return fmt.Errorf("%w: got %s, expected %s", ErrPostNotFound, postRef.Key, expected)
	}
	if postRef.Account.Exists() {
		return fmt.Errorf("%w: %s", ErrPostAlreadyExists, postRef.Key)
	}

	payload, err := resolveForumPayload(ctx, burnAmount)
	if err != nil {
		return err
	}
	creation := new(envelope.PostCreationData)
	if err := envelope.UnmarshalPayload(payload, creation); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPostDataFormat, err)
	}
	if err := envelope.ValidateHeader(creation.Version, creation.Category, creation.Operation,
		creation.Creator, Category, OpCreatePost, creatorRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if creation.PostID != actualPostID {
		return fmt.Errorf("%w: payload post_id %d", ErrPostIDMismatch, creation.PostID)
	}
	if err := validatePostFields(creation.Title, creation.Content, creation.Image); err != nil {
		return err
	}

	if err := invokeBurn(ctx, creatorRef.Key, tokenRef.Key, burnAmount); err != nil {
		return err
	}

	if err := ctx.CreateAccount(postRef, creatorRef, ProgramID, PostSpaceMax); err != nil {
		return err
	}
	now := ctx.UnixTimestamp()
	post := &Post{
		PostID:       actualPostID,
		Creator:      creatorRef.Key,
		CreatedAt:    now,
		LastUpdated:  now,
		Title:        creation.Title,
		Content:      creation.Content,
		Image:        creation.Image,
		BurnedAmount: burnAmount,
		Bump:         bump,
	}
	postData, err := post.Marshal()
	if err != nil {
		return err
	}
	if err := postRef.SetData(postData); err != nil {
		return err
	}

	if counter.TotalPosts == ^uint64(0) {
		return ErrPostCounterOverflow
	}
	counter.TotalPosts++
	counterData, err := counter.Marshal()
	if err != nil {
		return err
	}
	if err := counterRef.SetData(counterData); err != nil {
		return err
	}
	ctx.Logf("post %d created by %s with %d tokens burned (total posts %d)",
		actualPostID, creatorRef.Key, burnAmount/DecimalFactor, counter.TotalPosts)
	return nil
}

// burnForPost accounts:
// [user (signer, w), post (w), mint (w), user_token_account (w),
//  user_global_burn_stats (w), token_program, memo_burn_program,
//  instructions sysvar]. Any user may reply with a burn.
// args: post_id u64, amount u64.
func (Program) burnForPost(ctx *runtime.Context, args []byte) error {
	if len(args) != 16 {
		return fmt.Errorf("expected u64 post_id and u64 amount, got %d bytes", len(args))
	}
	postID := binary.LittleEndian.Uint64(args[:8])
	amount := binary.LittleEndian.Uint64(args[8:])

	userRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	postRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	tokenRef, err := resolveBurnChecks(ctx, userRef, 2, 3, 7)
	if err != nil {
		return err
	}
	if err := validatePostAmount(amount); err != nil {
		return err
	}

	post, err := loadPost(postRef, postID)
	if err != nil {
		return err
	}

	payload, err := resolveForumPayload(ctx, amount)
	if err != nil {
		return err
	}
	burn := new(envelope.PostBurnData)
	if err := envelope.UnmarshalPayload(payload, burn); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPostDataFormat, err)
	}
	if err := envelope.ValidateHeader(burn.Version, burn.Category, burn.Operation,
		burn.User, Category, OpBurnForPost, userRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if burn.PostID != postID {
		return fmt.Errorf("%w: payload post_id %d", ErrPostIDMismatch, burn.PostID)
	}
	if len(burn.Message) > MaxReplyMessageLength {
		return ErrReplyMessageTooLong
	}

	if err := invokeBurn(ctx, userRef.Key, tokenRef.Key, amount); err != nil {
		return err
	}

	post.recordReply(amount, ctx.UnixTimestamp())
	data, err := post.Marshal()
	if err != nil {
		return err
	}
	if err := postRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("burned %d tokens for post %d by %s (replies %d)",
		amount/DecimalFactor, postID, userRef.Key, post.ReplyCount)
	return nil
}

// mintForPost accounts:
// [user (signer, w), post (w), mint (w), mint_authority,
//  user_token_account (w), token_program, memo_mint_program,
//  instructions sysvar]. Any user may reply with a mint.
// args: post_id u64.
func (Program) mintForPost(ctx *runtime.Context, args []byte) error {
	if len(args) != 8 {
		return fmt.Errorf("expected u64 post_id, got %d bytes", len(args))
	}
	postID := binary.LittleEndian.Uint64(args)

	userRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	postRef, err := ctx.Account(1)
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
	if !userRef.IsSigner {
		return ErrMissingSignature
	}
	if err := envelope.RequireInstructionsSysvar(sysvarRef); err != nil {
		return err
	}

	post, err := loadPost(postRef, postID)
	if err != nil {
		return err
	}

	payload, err := resolveForumMintPayload(ctx)
	if err != nil {
		return err
	}
	mint := new(envelope.PostMintData)
	if err := envelope.UnmarshalPayload(payload, mint); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPostDataFormat, err)
	}
	if err := envelope.ValidateHeader(mint.Version, mint.Category, mint.Operation,
		mint.User, Category, OpMintForPost, userRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if mint.PostID != postID {
		return fmt.Errorf("%w: payload post_id %d", ErrPostIDMismatch, mint.PostID)
	}
	if len(mint.Message) > MaxReplyMessageLength {
		return ErrReplyMessageTooLong
	}

	mintIx, err := memomint.NewProcessMintInstruction(userRef.Key, tokenRef.Key)
	if err != nil {
		return err
	}
	compiled, err := runtime.CompileInstruction(mintIx)
	if err != nil {
		return err
	}
	if err := ctx.Invoke(compiled); err != nil {
		return fmt.Errorf("mint CPI failed: %w", err)
	}

	post.recordReply(0, ctx.UnixTimestamp())
	data, err := post.Marshal()
	if err != nil {
		return err
	}
	if err := postRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("minted tokens for post %d by %s (replies %d)", postID, userRef.Key, post.ReplyCount)
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

func loadCounter(counterRef *runtime.AccountRef) (*GlobalPostCounter, error) {
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
	counter, err := DecodeGlobalPostCounter(counterRef.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCounterNotInitialized, err)
	}
	return counter, nil
}

func loadPost(postRef *runtime.AccountRef, postID uint64) (*Post, error) {
	expected, bump, err := DerivePost(postID)
	if err != nil {
		return nil, err
	}
	if !postRef.Key.Equals(expected) {
		return nil, fmt.Errorf("%w: got %s, expected %s", ErrPostNotFound, postRef.Key, expected)
	}
	if !postRef.Account.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrPostNotFound, postRef.Key)
	}
	post, err := DecodePost(postRef.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPostNotFound, err)
	}
	if post.PostID != postID {
		return nil, fmt.Errorf("%w: record post_id %d", ErrPostNotFound, post.PostID)
	}
	if post.Bump != bump {
		return nil, fmt.Errorf("%w: stored bump %d, canonical %d", ErrPostNotFound, post.Bump, bump)
	}
	return post, nil
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

func validatePostAmount(amount uint64) error {
	err := envelope.ValidateAmount(amount, MinPostBurnAmount)
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

func validatePostFields(title, content, image string) error {
	if len(title) == 0 {
		return ErrEmptyPostTitle
	}
	if len(title) > MaxPostTitleLength {
		return ErrPostTitleTooLong
	}
	if len(content) == 0 {
		return ErrEmptyPostContent
	}
	if len(content) > MaxPostContentLength {
		return ErrPostContentTooLong
	}
	if len(image) > MaxPostImageLength {
		return ErrPostImageTooLong
	}
	return nil
}

func resolveForumPayload(ctx *runtime.Context, amount uint64) ([]byte, error) {
	payload, err := envelope.ResolvePayload(ctx, amount)
	if err == nil {
		return payload, nil
	}
	return nil, mapEnvelopeError(err)
}

func resolveForumMintPayload(ctx *runtime.Context) ([]byte, error) {
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
		return ErrInvalidPostDataFormat
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
