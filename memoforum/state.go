package memoforum

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"memocore/runtime"
)

// GlobalPostCounter space: discriminator 8 + total_posts 8.
const GlobalPostCounterSpace = 16

// Post space: conservative maximum including the safety buffer.
const PostSpaceMax = 8 + // discriminator
	8 + // post_id
	32 + // creator
	8 + // created_at
	8 + // last_updated
	8 + // reply_count
	8 + // burned_amount
	8 + // last_reply_time
	1 + // bump
	4 + MaxPostTitleLength +
	4 + MaxPostContentLength +
	4 + MaxPostImageLength +
	128 // safety buffer

var (
	GlobalPostCounterDiscriminator = runtime.AccountDiscriminator("GlobalPostCounter")
	PostDiscriminator              = runtime.AccountDiscriminator("Post")
)

// GlobalPostCounter assigns sequential post ids.
type GlobalPostCounter struct {
	TotalPosts uint64
}

func (c *GlobalPostCounter) Marshal() ([]byte, error) {
	return runtime.EncodeAccount(GlobalPostCounterDiscriminator, c, GlobalPostCounterSpace)
}

func DecodeGlobalPostCounter(data []byte) (*GlobalPostCounter, error) {
	counter := new(GlobalPostCounter)
	if err := runtime.DecodeAccount(GlobalPostCounterDiscriminator, data, counter); err != nil {
		return nil, err
	}
	return counter, nil
}

// Post is one forum post, addressed by its sequential id.
type Post struct {
	PostID        uint64
	Creator       solana.PublicKey
	CreatedAt     int64
	LastUpdated   int64
	Title         string
	Content       string
	Image         string
	ReplyCount    uint64
	BurnedAmount  uint64
	LastReplyTime int64
	Bump          uint8
}

func (p *Post) Marshal() ([]byte, error) {
	return runtime.EncodeAccount(PostDiscriminator, p, PostSpaceMax)
}

func DecodePost(data []byte) (*Post, error) {
	post := new(Post)
	if err := runtime.DecodeAccount(PostDiscriminator, data, post); err != nil {
		return nil, err
	}
	return post, nil
}

// recordReply folds one burn_for_post or mint_for_post into the counters.
func (p *Post) recordReply(amount uint64, now int64) {
	if p.BurnedAmount > ^uint64(0)-amount {
		p.BurnedAmount = ^uint64(0)
	} else {
		p.BurnedAmount += amount
	}
	p.ReplyCount++
	p.LastReplyTime = now
}

// DeriveGlobalCounter returns the counter PDA and bump.
func DeriveGlobalCounter() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedGlobalCounter}, ProgramID)
}

// DerivePost returns the post PDA and bump for a post id.
func DerivePost(postID uint64) (solana.PublicKey, uint8, error) {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], postID)
	return solana.FindProgramAddress([][]byte{SeedPost, id[:]}, ProgramID)
}
