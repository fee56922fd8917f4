package memoblog

import (
	"github.com/gagliardetto/solana-go"

	"memocore/runtime"
)

// Blog space: conservative maximum including the safety buffer.
const BlogSpaceMax = 8 + // discriminator
	32 + // creator
	8 + // created_at
	8 + // last_updated
	8 + // memo_count
	8 + // burned_amount
	8 + // last_memo_time
	1 + // bump
	4 + MaxBlogNameLength +
	4 + MaxBlogDescriptionLength +
	4 + MaxBlogImageLength +
	128 // safety buffer

var BlogDiscriminator = runtime.AccountDiscriminator("Blog")

// Blog is the one-per-creator blog PDA record.
type Blog struct {
	Creator      solana.PublicKey
	CreatedAt    int64
	LastUpdated  int64
	Name         string
	Description  string
	Image        string
	MemoCount    uint64
	BurnedAmount uint64
	LastMemoTime int64
	Bump         uint8
}

func (b *Blog) Marshal() ([]byte, error) {
	return runtime.EncodeAccount(BlogDiscriminator, b, BlogSpaceMax)
}

func DecodeBlog(data []byte) (*Blog, error) {
	blog := new(Blog)
	if err := runtime.DecodeAccount(BlogDiscriminator, data, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// DeriveBlog returns the blog PDA and bump for a creator.
func DeriveBlog(creator solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedBlog, creator.Bytes()}, ProgramID)
}

// recordMemoOp folds one burn_for_blog or mint_for_blog into the counters.
func (b *Blog) recordMemoOp(amount uint64, now int64) {
	if b.BurnedAmount > ^uint64(0)-amount {
		b.BurnedAmount = ^uint64(0)
	} else {
		b.BurnedAmount += amount
	}
	b.MemoCount++
	b.LastMemoTime = now
}
