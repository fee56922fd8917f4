package memoblog

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
	discCreateBlog  = runtime.InstructionDiscriminator("create_blog")
	discUpdateBlog  = runtime.InstructionDiscriminator("update_blog")
	discBurnForBlog = runtime.InstructionDiscriminator("burn_for_blog")
	discMintForBlog = runtime.InstructionDiscriminator("mint_for_blog")
)

// Program owns one Blog record per creator. Every operation is gated through
// the burn or mint program; the economic checks live there, the payload and
// record bookkeeping live here.
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
	case bytes.Equal(disc, discCreateBlog[:]):
		return p.createBlog(ctx, args)
	case bytes.Equal(disc, discUpdateBlog[:]):
		return p.updateBlog(ctx, args)
	case bytes.Equal(disc, discBurnForBlog[:]):
		return p.burnForBlog(ctx, args)
	case bytes.Equal(disc, discMintForBlog[:]):
		return p.mintForBlog(ctx, args)
	default:
		return fmt.Errorf("unknown instruction discriminator %x", disc)
	}
}

// createBlog accounts:
// [creator (signer, w), blog (w), mint (w), creator_token_account (w),
//  user_global_burn_stats (w), token_program, memo_burn_program,
//  system_program, instructions sysvar].
func (Program) createBlog(ctx *runtime.Context, args []byte) error {
	if len(args) != 8 {
		return fmt.Errorf("expected u64 burn_amount, got %d bytes", len(args))
	}
	burnAmount := binary.LittleEndian.Uint64(args)

	creatorRef, blogRef, tokenRef, err := resolveBurnHead(ctx, 8)
	if err != nil {
		return err
	}
	if err := validateBlogAmount(burnAmount); err != nil {
		return err
	}

	expected, bump, err := DeriveBlog(creatorRef.Key)
	if err != nil {
		return err
	}
	if !blogRef.Key.Equals(expected) {
		return fmt.Errorf("%w: got %s, expected %s", ErrUnauthorizedBlogAccess, blogRef.Key, expected)
	}
	if blogRef.Account.Exists() {
		return fmt.Errorf("%w: %s", ErrBlogAlreadyExists, blogRef.Key)
	}

	payload, err := resolveBlogPayload(ctx, burnAmount)
	if err != nil {
		return err
	}
	creation := new(envelope.BlogCreationData)
	if err := envelope.UnmarshalPayload(payload, creation); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBlogDataFormat, err)
	}
	if err := envelope.ValidateHeader(creation.Version, creation.Category, creation.Operation,
		creation.Creator, Category, OpCreateBlog, creatorRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if err := validateBlogFields(creation.Name, creation.Description, creation.Image); err != nil {
		return err
	}

	if err := invokeBurn(ctx, creatorRef.Key, tokenRef.Key, burnAmount); err != nil {
		return err
	}

	if err := ctx.CreateAccount(blogRef, creatorRef, ProgramID, BlogSpaceMax); err != nil {
		return err
	}
	now := ctx.UnixTimestamp()
	blog := &Blog{
		Creator:      creatorRef.Key,
		CreatedAt:    now,
		LastUpdated:  now,
		Name:         creation.Name,
		Description:  creation.Description,
		Image:        creation.Image,
		BurnedAmount: burnAmount,
		Bump:         bump,
	}
	data, err := blog.Marshal()
	if err != nil {
		return err
	}
	if err := blogRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("blog created by %s with %d tokens burned", creatorRef.Key, burnAmount/DecimalFactor)
	return nil
}

// updateBlog accounts:
// [updater (signer, w), blog (w), mint (w), updater_token_account (w),
//  user_global_burn_stats (w), token_program, memo_burn_program,
//  instructions sysvar].
func (Program) updateBlog(ctx *runtime.Context, args []byte) error {
	if len(args) != 8 {
		return fmt.Errorf("expected u64 burn_amount, got %d bytes", len(args))
	}
	burnAmount := binary.LittleEndian.Uint64(args)

	updaterRef, blogRef, tokenRef, err := resolveBurnHead(ctx, 7)
	if err != nil {
		return err
	}
	if err := validateBlogAmount(burnAmount); err != nil {
		return err
	}
	blog, err := loadOwnedBlog(blogRef, updaterRef.Key)
	if err != nil {
		return err
	}

	payload, err := resolveBlogPayload(ctx, burnAmount)
	if err != nil {
		return err
	}
	update := new(envelope.BlogUpdateData)
	if err := envelope.UnmarshalPayload(payload, update); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBlogDataFormat, err)
	}
	if err := envelope.ValidateHeader(update.Version, update.Category, update.Operation,
		update.Creator, Category, OpUpdateBlog, updaterRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if update.Name != nil {
		if len(*update.Name) == 0 {
			return ErrEmptyBlogName
		}
		if len(*update.Name) > MaxBlogNameLength {
			return ErrBlogNameTooLong
		}
	}
	if update.Description != nil && len(*update.Description) > MaxBlogDescriptionLength {
		return ErrBlogDescriptionTooLong
	}
	if update.Image != nil && len(*update.Image) > MaxBlogImageLength {
		return ErrBlogImageTooLong
	}

	if err := invokeBurn(ctx, updaterRef.Key, tokenRef.Key, burnAmount); err != nil {
		return err
	}

	if update.Name != nil {
		blog.Name = *update.Name
	}
	if update.Description != nil {
		blog.Description = *update.Description
	}
	if update.Image != nil {
		blog.Image = *update.Image
	}
	if blog.BurnedAmount > ^uint64(0)-burnAmount {
		blog.BurnedAmount = ^uint64(0)
	} else {
		blog.BurnedAmount += burnAmount
	}
	// last_memo_time tracks only burn_for_blog / mint_for_blog
	blog.LastUpdated = ctx.UnixTimestamp()

	data, err := blog.Marshal()
	if err != nil {
		return err
	}
	if err := blogRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("blog updated by %s, total burned %d", updaterRef.Key, blog.BurnedAmount)
	return nil
}

// burnForBlog accounts match updateBlog. Only the blog creator may burn for
// their own blog.
func (Program) burnForBlog(ctx *runtime.Context, args []byte) error {
	if len(args) != 8 {
		return fmt.Errorf("expected u64 amount, got %d bytes", len(args))
	}
	amount := binary.LittleEndian.Uint64(args)

	burnerRef, blogRef, tokenRef, err := resolveBurnHead(ctx, 7)
	if err != nil {
		return err
	}
	if err := validateBlogAmount(amount); err != nil {
		return err
	}
	blog, err := loadOwnedBlog(blogRef, burnerRef.Key)
	if err != nil {
		return err
	}

	payload, err := resolveBlogPayload(ctx, amount)
	if err != nil {
		return err
	}
	burn := new(envelope.BlogBurnData)
	if err := envelope.UnmarshalPayload(payload, burn); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBlogDataFormat, err)
	}
	if err := envelope.ValidateHeader(burn.Version, burn.Category, burn.Operation,
		burn.Burner, Category, OpBurnForBlog, burnerRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if len(burn.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}

	if err := invokeBurn(ctx, burnerRef.Key, tokenRef.Key, amount); err != nil {
		return err
	}

	blog.recordMemoOp(amount, ctx.UnixTimestamp())
	data, err := blog.Marshal()
	if err != nil {
		return err
	}
	if err := blogRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("burned %d tokens for blog of %s (total %d)",
		amount/DecimalFactor, burnerRef.Key, blog.BurnedAmount)
	return nil
}

// mintForBlog accounts:
// [minter (signer, w), blog (w), mint (w), mint_authority,
//  minter_token_account (w), token_program, memo_mint_program,
//  instructions sysvar]. Only the blog creator may mint for their own blog.
func (Program) mintForBlog(ctx *runtime.Context, args []byte) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected instruction args: %d bytes", len(args))
	}
	minterRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	blogRef, err := ctx.Account(1)
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
	if !minterRef.IsSigner {
		return ErrMissingSignature
	}
	if err := envelope.RequireInstructionsSysvar(sysvarRef); err != nil {
		return err
	}

	blog, err := loadOwnedBlog(blogRef, minterRef.Key)
	if err != nil {
		return err
	}

	payload, err := resolveBlogMintPayload(ctx)
	if err != nil {
		return err
	}
	mint := new(envelope.BlogMintData)
	if err := envelope.UnmarshalPayload(payload, mint); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBlogDataFormat, err)
	}
	if err := envelope.ValidateHeader(mint.Version, mint.Category, mint.Operation,
		mint.Minter, Category, OpMintForBlog, minterRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if len(mint.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}

	mintIx, err := memomint.NewProcessMintInstruction(minterRef.Key, tokenRef.Key)
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

	blog.recordMemoOp(0, ctx.UnixTimestamp())
	data, err := blog.Marshal()
	if err != nil {
		return err
	}
	if err := blogRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("minted tokens for blog of %s", minterRef.Key)
	return nil
}

// resolveBurnHead reads the shared head of the burn-gated entrypoints:
// [signer, blog, mint, token_account, ...] with the instructions sysvar at
// sysvarIndex.
func resolveBurnHead(ctx *runtime.Context, sysvarIndex int) (signer, blog, tokenAccount *runtime.AccountRef, err error) {
	signerRef, err := ctx.Account(0)
	if err != nil {
		return nil, nil, nil, err
	}
	blogRef, err := ctx.Account(1)
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

	if !signerRef.IsSigner {
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
	if !account.Owner.Equals(signerRef.Key) {
		return nil, nil, nil, fmt.Errorf("%w: owner %s", ErrUnauthorizedTokenAccount, account.Owner)
	}
	return signerRef, blogRef, tokenRef, nil
}

func loadOwnedBlog(blogRef *runtime.AccountRef, creator solana.PublicKey) (*Blog, error) {
	expected, bump, err := DeriveBlog(creator)
	if err != nil {
		return nil, err
	}
	if !blogRef.Key.Equals(expected) {
		return nil, fmt.Errorf("%w: got %s, expected %s", ErrUnauthorizedBlogAccess, blogRef.Key, expected)
	}
	if !blogRef.Account.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrBlogNotFound, blogRef.Key)
	}
	blog, err := DecodeBlog(blogRef.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBlogNotFound, err)
	}
	if !blog.Creator.Equals(creator) {
		return nil, fmt.Errorf("%w: blog belongs to %s", ErrUnauthorizedBlogAccess, blog.Creator)
	}
	if blog.Bump != bump {
		return nil, fmt.Errorf("%w: stored bump %d, canonical %d", ErrUnauthorizedBlogAccess, blog.Bump, bump)
	}
	return blog, nil
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

func validateBlogAmount(amount uint64) error {
	err := envelope.ValidateAmount(amount, MinBlogBurnAmount)
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

func validateBlogFields(name, description, image string) error {
	if len(name) == 0 {
		return ErrEmptyBlogName
	}
	if len(name) > MaxBlogNameLength {
		return ErrBlogNameTooLong
	}
	if len(description) > MaxBlogDescriptionLength {
		return ErrBlogDescriptionTooLong
	}
	if len(image) > MaxBlogImageLength {
		return ErrBlogImageTooLong
	}
	return nil
}

func resolveBlogPayload(ctx *runtime.Context, amount uint64) ([]byte, error) {
	payload, err := envelope.ResolvePayload(ctx, amount)
	if err == nil {
		return payload, nil
	}
	return nil, mapEnvelopeError(err)
}

func resolveBlogMintPayload(ctx *runtime.Context) ([]byte, error) {
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
		return ErrInvalidBlogDataFormat
	case errors.Is(err, envelope.ErrWrongCategory):
		return ErrInvalidCategory
	case errors.Is(err, envelope.ErrWrongOperation):
		return ErrInvalidOperation
	case errors.Is(err, envelope.ErrBadSignerPubkey):
		return ErrInvalidCreatorPubkeyFormat
	case errors.Is(err, envelope.ErrSignerMismatch):
		return ErrCreatorPubkeyMismatch
	default:
		return err
	}
}
