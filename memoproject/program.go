package memoproject

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
	discInitializeGlobalCounter   = runtime.InstructionDiscriminator("initialize_global_counter")
	discInitializeBurnLeaderboard = runtime.InstructionDiscriminator("initialize_burn_leaderboard")
	discCreateProject             = runtime.InstructionDiscriminator("create_project")
	discUpdateProject             = runtime.InstructionDiscriminator("update_project")
	discBurnForProject            = runtime.InstructionDiscriminator("burn_for_project")
)

// Program owns sequential Project records. Creation and update are burn-gated
// by the creator; burn_for_project is open to any user.
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
	case bytes.Equal(disc, discInitializeBurnLeaderboard[:]):
		return p.initializeBurnLeaderboard(ctx, args)
	case bytes.Equal(disc, discCreateProject[:]):
		return p.createProject(ctx, args)
	case bytes.Equal(disc, discUpdateProject[:]):
		return p.updateProject(ctx, args)
	case bytes.Equal(disc, discBurnForProject[:]):
		return p.burnForProject(ctx, args)
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
	if err := ctx.CreateAccount(counterRef, adminRef, ProgramID, GlobalProjectCounterSpace); err != nil {
		return err
	}
	counter := new(GlobalProjectCounter)
	data, err := counter.Marshal()
	if err != nil {
		return err
	}
	if err := counterRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("global project counter initialized by admin %s", adminRef.Key)
	return nil
}

// initializeBurnLeaderboard accounts:
// [admin (signer, w), burn_leaderboard (w), system_program]. One-time setup.
func (Program) initializeBurnLeaderboard(ctx *runtime.Context, args []byte) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected instruction args: %d bytes", len(args))
	}
	adminRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	leaderboardRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	if !adminRef.IsSigner {
		return ErrMissingSignature
	}
	if !adminRef.Key.Equals(AuthorizedAdmin) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedAdmin, adminRef.Key)
	}

	expected, _, err := DeriveBurnLeaderboard()
	if err != nil {
		return err
	}
	if !leaderboardRef.Key.Equals(expected) {
		return fmt.Errorf("%w: got %s, expected %s", ErrLeaderboardNotInitialized, leaderboardRef.Key, expected)
	}
	if leaderboardRef.Account.Exists() {
		return fmt.Errorf("%w: %s", ErrLeaderboardAlreadyInitialized, leaderboardRef.Key)
	}
	if err := ctx.CreateAccount(leaderboardRef, adminRef, ProgramID, BurnLeaderboardSpace); err != nil {
		return err
	}
	leaderboard := new(BurnLeaderboard)
	data, err := leaderboard.Marshal()
	if err != nil {
		return err
	}
	if err := leaderboardRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("burn leaderboard initialized by admin %s", adminRef.Key)
	return nil
}

// createProject accounts:
// [creator (signer, w), global_counter (w), project (w), mint (w),
//  creator_token_account (w), user_global_burn_stats (w), token_program,
//  memo_burn_program, system_program, instructions sysvar,
//  burn_leaderboard (w)].
// args: expected_project_id u64, burn_amount u64.
func (Program) createProject(ctx *runtime.Context, args []byte) error {
	if len(args) != 16 {
		return fmt.Errorf("expected u64 project_id and u64 burn_amount, got %d bytes", len(args))
	}
	expectedProjectID := binary.LittleEndian.Uint64(args[:8])
	burnAmount := binary.LittleEndian.Uint64(args[8:])

	creatorRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	counterRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	projectRef, err := ctx.Account(2)
	if err != nil {
		return err
	}
	tokenRef, err := resolveBurnChecks(ctx, creatorRef, 3, 4, 9)
	if err != nil {
		return err
	}
	leaderboardRef, leaderboard, err := loadLeaderboard(ctx, 10)
	if err != nil {
		return err
	}

	if err := validateProjectAmount(burnAmount); err != nil {
		return err
	}

	counter, err := loadCounter(counterRef)
	if err != nil {
		return err
	}
	actualProjectID := counter.TotalProjects
	if expectedProjectID != actualProjectID {
		return fmt.Errorf("%w: expected %d, next available %d", ErrProjectIDMismatch, expectedProjectID, actualProjectID)
	}

	expected, bump, err := DeriveProject(actualProjectID)
	if err != nil {
		return err
	}
	if !projectRef.Key.Equals(expected) {
		return fmt.Errorf("%w: got %s, expected %s", ErrProjectNotFound, projectRef.Key, expected)
	}
	if projectRef.Account.Exists() {
		return fmt.Errorf("%w: %s", ErrProjectAlreadyExists, projectRef.Key)
	}

	payload, err := resolveProjectPayload(ctx, burnAmount)
	if err != nil {
		return err
	}
	creation := new(envelope.ProjectCreationData)
	if err := envelope.UnmarshalPayload(payload, creation); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProjectDataFormat, err)
	}
	if err := validateProjectHeader(creation.Version, creation.Category, creation.Operation, OpCreateProject); err != nil {
		return err
	}
	if creation.ProjectID != actualProjectID {
		return fmt.Errorf("%w: payload project_id %d", ErrProjectIDMismatch, creation.ProjectID)
	}
	if err := validateProjectFields(creation.Name, creation.Description, creation.Image, creation.Website, creation.Tags); err != nil {
		return err
	}

	if err := invokeBurn(ctx, creatorRef.Key, tokenRef.Key, burnAmount); err != nil {
		return err
	}

	if err := ctx.CreateAccount(projectRef, creatorRef, ProgramID, ProjectSpaceMax); err != nil {
		return err
	}
	now := ctx.UnixTimestamp()
	project := &Project{
		ProjectID:    actualProjectID,
		Creator:      creatorRef.Key,
		CreatedAt:    now,
		LastUpdated:  now,
		Name:         creation.Name,
		Description:  creation.Description,
		Image:        creation.Image,
		Website:      creation.Website,
		Tags:         creation.Tags,
		BurnedAmount: burnAmount,
		Bump:         bump,
	}
	projectData, err := project.Marshal()
	if err != nil {
		return err
	}
	if err := projectRef.SetData(projectData); err != nil {
		return err
	}

	if counter.TotalProjects == ^uint64(0) {
		return ErrProjectCounterOverflow
	}
	counter.TotalProjects++
	counterData, err := counter.Marshal()
	if err != nil {
		return err
	}
	if err := counterRef.SetData(counterData); err != nil {
		return err
	}

	if err := saveLeaderboard(ctx, leaderboardRef, leaderboard, actualProjectID, burnAmount); err != nil {
		return err
	}
	ctx.Logf("project %d created by %s with %d tokens burned (total projects %d)",
		actualProjectID, creatorRef.Key, burnAmount/DecimalFactor, counter.TotalProjects)
	return nil
}

// updateProject accounts:
// [creator (signer, w), project (w), mint (w), creator_token_account (w),
//  user_global_burn_stats (w), token_program, memo_burn_program,
//  instructions sysvar, burn_leaderboard (w)]. Only the creator may update
//  their project.
// args: project_id u64, burn_amount u64.
func (Program) updateProject(ctx *runtime.Context, args []byte) error {
	if len(args) != 16 {
		return fmt.Errorf("expected u64 project_id and u64 burn_amount, got %d bytes", len(args))
	}
	projectID := binary.LittleEndian.Uint64(args[:8])
	burnAmount := binary.LittleEndian.Uint64(args[8:])

	creatorRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	projectRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	tokenRef, err := resolveBurnChecks(ctx, creatorRef, 2, 3, 7)
	if err != nil {
		return err
	}
	leaderboardRef, leaderboard, err := loadLeaderboard(ctx, 8)
	if err != nil {
		return err
	}
	if err := validateProjectAmount(burnAmount); err != nil {
		return err
	}

	project, err := loadProject(projectRef, projectID)
	if err != nil {
		return err
	}
	if !project.Creator.Equals(creatorRef.Key) {
		return fmt.Errorf("%w: creator %s", ErrUnauthorizedProjectAccess, project.Creator)
	}

	payload, err := resolveProjectPayload(ctx, burnAmount)
	if err != nil {
		return err
	}
	update := new(envelope.ProjectUpdateData)
	if err := envelope.UnmarshalPayload(payload, update); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProjectDataFormat, err)
	}
	if err := validateProjectHeader(update.Version, update.Category, update.Operation, OpUpdateProject); err != nil {
		return err
	}
	if update.ProjectID != projectID {
		return fmt.Errorf("%w: payload project_id %d", ErrProjectIDMismatch, update.ProjectID)
	}
	if update.Name != nil {
		if len(*update.Name) == 0 || len(*update.Name) > MaxProjectNameLength {
			return ErrInvalidProjectName
		}
	}
	if update.Description != nil && len(*update.Description) > MaxProjectDescriptionLength {
		return ErrProjectDescriptionTooLong
	}
	if update.Image != nil && len(*update.Image) > MaxProjectImageLength {
		return ErrProjectImageTooLong
	}
	if update.Website != nil && len(*update.Website) > MaxProjectWebsiteLength {
		return ErrProjectWebsiteTooLong
	}
	if update.Tags != nil {
		if err := validateTags(*update.Tags); err != nil {
			return err
		}
	}

	if err := invokeBurn(ctx, creatorRef.Key, tokenRef.Key, burnAmount); err != nil {
		return err
	}

	if update.Name != nil {
		project.Name = *update.Name
	}
	if update.Description != nil {
		project.Description = *update.Description
	}
	if update.Image != nil {
		project.Image = *update.Image
	}
	if update.Website != nil {
		project.Website = *update.Website
	}
	if update.Tags != nil {
		project.Tags = *update.Tags
	}
	if project.BurnedAmount > ^uint64(0)-burnAmount {
		project.BurnedAmount = ^uint64(0)
	} else {
		project.BurnedAmount += burnAmount
	}
	// last_memo_time tracks only burn_for_project
	project.LastUpdated = ctx.UnixTimestamp()

	data, err := project.Marshal()
	if err != nil {
		return err
	}
	if err := projectRef.SetData(data); err != nil {
		return err
	}
	if err := saveLeaderboard(ctx, leaderboardRef, leaderboard, projectID, project.BurnedAmount); err != nil {
		return err
	}
	ctx.Logf("project %d updated by %s, total burned %d", projectID, creatorRef.Key, project.BurnedAmount)
	return nil
}

// burnForProject accounts match updateProject. Any user may burn in support
// of an existing project.
// args: project_id u64, amount u64.
func (Program) burnForProject(ctx *runtime.Context, args []byte) error {
	if len(args) != 16 {
		return fmt.Errorf("expected u64 project_id and u64 amount, got %d bytes", len(args))
	}
	projectID := binary.LittleEndian.Uint64(args[:8])
	amount := binary.LittleEndian.Uint64(args[8:])

	burnerRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	projectRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	tokenRef, err := resolveBurnChecks(ctx, burnerRef, 2, 3, 7)
	if err != nil {
		return err
	}
	leaderboardRef, leaderboard, err := loadLeaderboard(ctx, 8)
	if err != nil {
		return err
	}
	if err := validateProjectAmount(amount); err != nil {
		return err
	}

	project, err := loadProject(projectRef, projectID)
	if err != nil {
		return err
	}

	payload, err := resolveProjectPayload(ctx, amount)
	if err != nil {
		return err
	}
	burn := new(envelope.ProjectBurnData)
	if err := envelope.UnmarshalPayload(payload, burn); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProjectDataFormat, err)
	}
	if err := envelope.ValidateHeader(burn.Version, burn.Category, burn.Operation,
		burn.Burner, Category, OpBurnForProject, burnerRef.Key); err != nil {
		return mapHeaderError(err)
	}
	if burn.ProjectID != projectID {
		return fmt.Errorf("%w: payload project_id %d", ErrProjectIDMismatch, burn.ProjectID)
	}
	if len(burn.Message) > MaxBurnMessageLength {
		return ErrBurnMessageTooLong
	}

	if err := invokeBurn(ctx, burnerRef.Key, tokenRef.Key, amount); err != nil {
		return err
	}

	project.recordBurn(amount, ctx.UnixTimestamp())
	data, err := project.Marshal()
	if err != nil {
		return err
	}
	if err := projectRef.SetData(data); err != nil {
		return err
	}
	if err := saveLeaderboard(ctx, leaderboardRef, leaderboard, projectID, project.BurnedAmount); err != nil {
		return err
	}
	ctx.Logf("burned %d tokens for project %d by %s (memos %d)",
		amount/DecimalFactor, projectID, burnerRef.Key, project.MemoCount)
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

func loadCounter(counterRef *runtime.AccountRef) (*GlobalProjectCounter, error) {
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
	counter, err := DecodeGlobalProjectCounter(counterRef.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCounterNotInitialized, err)
	}
	return counter, nil
}

func loadLeaderboard(ctx *runtime.Context, index int) (*runtime.AccountRef, *BurnLeaderboard, error) {
	leaderboardRef, err := ctx.Account(index)
	if err != nil {
		return nil, nil, err
	}
	expected, _, err := DeriveBurnLeaderboard()
	if err != nil {
		return nil, nil, err
	}
	if !leaderboardRef.Key.Equals(expected) {
		return nil, nil, fmt.Errorf("%w: got %s, expected %s", ErrLeaderboardNotInitialized, leaderboardRef.Key, expected)
	}
	if !leaderboardRef.Account.Exists() {
		return nil, nil, fmt.Errorf("%w: %s", ErrLeaderboardNotInitialized, leaderboardRef.Key)
	}
	leaderboard, err := DecodeBurnLeaderboard(leaderboardRef.Account.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrLeaderboardNotInitialized, err)
	}
	return leaderboardRef, leaderboard, nil
}

// saveLeaderboard folds the project's new lifetime total into the board and
// persists it.
func saveLeaderboard(ctx *runtime.Context, leaderboardRef *runtime.AccountRef, leaderboard *BurnLeaderboard, projectID, totalBurned uint64) error {
	entered := leaderboard.Update(projectID, totalBurned)
	data, err := leaderboard.Marshal()
	if err != nil {
		return err
	}
	if err := leaderboardRef.SetData(data); err != nil {
		return err
	}
	if entered {
		ctx.Logf("project %d holds a leaderboard slot with %d tokens", projectID, totalBurned/DecimalFactor)
	} else {
		ctx.Logf("project %d total %d tokens is below the leaderboard cut", projectID, totalBurned/DecimalFactor)
	}
	return nil
}

func loadProject(projectRef *runtime.AccountRef, projectID uint64) (*Project, error) {
	expected, bump, err := DeriveProject(projectID)
	if err != nil {
		return nil, err
	}
	if !projectRef.Key.Equals(expected) {
		return nil, fmt.Errorf("%w: got %s, expected %s", ErrProjectNotFound, projectRef.Key, expected)
	}
	if !projectRef.Account.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectRef.Key)
	}
	project, err := DecodeProject(projectRef.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, err)
	}
	if project.ProjectID != projectID {
		return nil, fmt.Errorf("%w: record project_id %d", ErrProjectNotFound, project.ProjectID)
	}
	if project.Bump != bump {
		return nil, fmt.Errorf("%w: stored bump %d, canonical %d", ErrProjectNotFound, project.Bump, bump)
	}
	return project, nil
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

func validateProjectAmount(amount uint64) error {
	err := envelope.ValidateAmount(amount, MinProjectBurnAmount)
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

// validateProjectHeader checks the payload head for the creation and update
// records, which carry no signer pubkey of their own.
func validateProjectHeader(version uint8, category, operation, wantOperation string) error {
	if version != envelope.BurnMemoVersion {
		return ErrInvalidProjectDataFormat
	}
	if category != Category {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if operation != wantOperation {
		return fmt.Errorf("%w: %q (expected %q)", ErrInvalidOperation, operation, wantOperation)
	}
	return nil
}

func validateProjectFields(name, description, image, website string, tags []string) error {
	if len(name) == 0 || len(name) > MaxProjectNameLength {
		return ErrInvalidProjectName
	}
	if len(description) > MaxProjectDescriptionLength {
		return ErrProjectDescriptionTooLong
	}
	if len(image) > MaxProjectImageLength {
		return ErrProjectImageTooLong
	}
	if len(website) > MaxProjectWebsiteLength {
		return ErrProjectWebsiteTooLong
	}
	return validateTags(tags)
}

func validateTags(tags []string) error {
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

func resolveProjectPayload(ctx *runtime.Context, amount uint64) ([]byte, error) {
	payload, err := envelope.ResolvePayload(ctx, amount)
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
		return ErrInvalidProjectDataFormat
	case errors.Is(err, envelope.ErrWrongCategory):
		return ErrInvalidCategory
	case errors.Is(err, envelope.ErrWrongOperation):
		return ErrInvalidOperation
	case errors.Is(err, envelope.ErrBadSignerPubkey):
		return ErrInvalidBurnerPubkeyFormat
	case errors.Is(err, envelope.ErrSignerMismatch):
		return ErrBurnerPubkeyMismatch
	default:
		return err
	}
}
