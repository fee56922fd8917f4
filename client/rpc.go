package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"memocore/memoblog"
	"memocore/memoburn"
	"memocore/memochat"
	"memocore/memoforum"
	"memocore/memoprofile"
	"memocore/memoproject"
)

// Transaction status values reported to callers.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// TransactionResult - submission outcome returned to the caller
type TransactionResult struct {
	Signature   string `json:"signature"`
	Status      string `json:"status"`
	ExplorerURL string `json:"explorer_url"`
}

// RPCClient talks to a Solana cluster for the memo program family.
type RPCClient struct {
	rpc     *rpc.Client
	network string // "devnet", "mainnet", "localhost"
}

// NewRPCClient creates a cluster client. network selects the explorer links.
func NewRPCClient(rpcURL, network string) *RPCClient {
	return &RPCClient{
		rpc:     rpc.New(rpcURL),
		network: network,
	}
}

// RPC returns the underlying RPC client.
func (c *RPCClient) RPC() *rpc.Client {
	return c.rpc
}

// SubmitTransaction signs and sends the instructions as one transaction paid
// by the signer. Instruction order is preserved, so callers building memo
// transactions should go through BuildMemoTransaction-style ordering: compute
// budget, memo at index 1, business instructions after.
func (c *RPCClient) SubmitTransaction(
	ctx context.Context,
	signer solana.PrivateKey,
	instructions ...solana.Instruction,
) (*TransactionResult, error) {
	payer := signer.PublicKey()

	latestBlockhash, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		latestBlockhash.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if payer.Equals(key) {
			return &signer
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	return &TransactionResult{
		Signature:   sig.String(),
		Status:      StatusPending,
		ExplorerURL: c.explorerURL(sig.String()),
	}, nil
}

// CreateUnsignedTransaction builds and serializes a transaction for
// client-side signing.
func (c *RPCClient) CreateUnsignedTransaction(
	ctx context.Context,
	payer solana.PublicKey,
	instructions ...solana.Instruction,
) (string, error) {
	latestBlockhash, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("failed to get blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		latestBlockhash.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	txBytes, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(txBytes), nil
}

// SendSignedTransaction submits a transaction signed on the client side.
func (c *RPCClient) SendSignedTransaction(ctx context.Context, signedTxBase64 string) (string, error) {
	txBytes, err := base64.StdEncoding.DecodeString(signedTxBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode transaction: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(txBytes))
	if err != nil {
		return "", fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig.String(), nil
}

// WaitForConfirmation polls until the transaction confirms or the timeout
// elapses. Poll interval is 2 seconds.
func (c *RPCClient) WaitForConfirmation(ctx context.Context, signature string, timeoutSeconds int) error {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}

	maxRetries := timeoutSeconds / 2
	for i := 0; i < maxRetries; i++ {
		status, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err == nil && status != nil && len(status.Value) > 0 && status.Value[0] != nil {
			txStatus := status.Value[0]
			if txStatus.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				txStatus.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				if txStatus.Err != nil {
					return fmt.Errorf("transaction failed: %v", txStatus.Err)
				}
				return nil
			}
			if txStatus.Err != nil {
				return fmt.Errorf("transaction failed: %v", txStatus.Err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return fmt.Errorf("timeout waiting for confirmation after %d seconds", timeoutSeconds)
}

// GetUserBurnStats fetches and decodes the user's lifetime burn record.
func (c *RPCClient) GetUserBurnStats(ctx context.Context, user solana.PublicKey) (*memoburn.UserGlobalBurnStats, error) {
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(user)
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, stats)
	if err != nil {
		return nil, err
	}
	return memoburn.DecodeUserGlobalBurnStats(data)
}

// GetProfile fetches and decodes a user's profile record.
func (c *RPCClient) GetProfile(ctx context.Context, user solana.PublicKey) (*memoprofile.Profile, error) {
	profile, _, err := memoprofile.DeriveProfile(user)
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, profile)
	if err != nil {
		return nil, err
	}
	return memoprofile.DecodeProfile(data)
}

// GetBlog fetches and decodes a creator's blog record.
func (c *RPCClient) GetBlog(ctx context.Context, creator solana.PublicKey) (*memoblog.Blog, error) {
	blog, _, err := memoblog.DeriveBlog(creator)
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, blog)
	if err != nil {
		return nil, err
	}
	return memoblog.DecodeBlog(data)
}

// GetPost fetches and decodes a forum post by id.
func (c *RPCClient) GetPost(ctx context.Context, postID uint64) (*memoforum.Post, error) {
	post, _, err := memoforum.DerivePost(postID)
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, post)
	if err != nil {
		return nil, err
	}
	return memoforum.DecodePost(data)
}

// GetPostCount fetches the forum's sequential counter; the value is the next
// post id to claim.
func (c *RPCClient) GetPostCount(ctx context.Context) (uint64, error) {
	counter, _, err := memoforum.DeriveGlobalCounter()
	if err != nil {
		return 0, err
	}
	data, err := c.accountData(ctx, counter)
	if err != nil {
		return 0, err
	}
	record, err := memoforum.DecodeGlobalPostCounter(data)
	if err != nil {
		return 0, err
	}
	return record.TotalPosts, nil
}

// GetProject fetches and decodes a project by id.
func (c *RPCClient) GetProject(ctx context.Context, projectID uint64) (*memoproject.Project, error) {
	project, _, err := memoproject.DeriveProject(projectID)
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, project)
	if err != nil {
		return nil, err
	}
	return memoproject.DecodeProject(data)
}

// GetBurnLeaderboard fetches the project burn leaderboard. Entries are
// stored unsorted; order them client-side for display.
func (c *RPCClient) GetBurnLeaderboard(ctx context.Context) (*memoproject.BurnLeaderboard, error) {
	leaderboard, _, err := memoproject.DeriveBurnLeaderboard()
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, leaderboard)
	if err != nil {
		return nil, err
	}
	return memoproject.DecodeBurnLeaderboard(data)
}

// GetProjectCount fetches the project registry's sequential counter.
func (c *RPCClient) GetProjectCount(ctx context.Context) (uint64, error) {
	counter, _, err := memoproject.DeriveGlobalCounter()
	if err != nil {
		return 0, err
	}
	data, err := c.accountData(ctx, counter)
	if err != nil {
		return 0, err
	}
	record, err := memoproject.DecodeGlobalProjectCounter(data)
	if err != nil {
		return 0, err
	}
	return record.TotalProjects, nil
}

// GetChatGroup fetches and decodes a chat group by id.
func (c *RPCClient) GetChatGroup(ctx context.Context, groupID uint64) (*memochat.ChatGroup, error) {
	group, _, err := memochat.DeriveChatGroup(groupID)
	if err != nil {
		return nil, err
	}
	data, err := c.accountData(ctx, group)
	if err != nil {
		return nil, err
	}
	return memochat.DecodeChatGroup(data)
}

// GetChatGroupCount fetches the chat registry's sequential counter.
func (c *RPCClient) GetChatGroupCount(ctx context.Context) (uint64, error) {
	counter, _, err := memochat.DeriveGlobalCounter()
	if err != nil {
		return 0, err
	}
	data, err := c.accountData(ctx, counter)
	if err != nil {
		return 0, err
	}
	record, err := memochat.DecodeGlobalGroupCounter(data)
	if err != nil {
		return 0, err
	}
	return record.TotalGroups, nil
}

func (c *RPCClient) accountData(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	info, err := c.rpc.GetAccountInfo(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account %s: %w", key, err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("account %s not found", key)
	}
	return info.Value.Data.GetBinary(), nil
}

func (c *RPCClient) explorerURL(signature string) string {
	switch c.network {
	case "mainnet":
		return fmt.Sprintf("https://explorer.solana.com/tx/%s", signature)
	case "localhost":
		return fmt.Sprintf("https://explorer.solana.com/tx/%s?cluster=custom", signature)
	default:
		return fmt.Sprintf("https://explorer.solana.com/tx/%s?cluster=devnet", signature)
	}
}
