package memoproject

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"memocore/runtime"
)

// GlobalProjectCounter space: discriminator 8 + total_projects 8.
const GlobalProjectCounterSpace = 16

// Project space: conservative maximum including the safety buffer.
const ProjectSpaceMax = 8 + // discriminator
	8 + // project_id
	32 + // creator
	8 + // created_at
	8 + // last_updated
	8 + // memo_count
	8 + // burned_amount
	8 + // last_memo_time
	1 + // bump
	4 + MaxProjectNameLength +
	4 + MaxProjectDescriptionLength +
	4 + MaxProjectImageLength +
	4 + MaxProjectWebsiteLength +
	4 + MaxTagsCount*(4+MaxTagLength) +
	128 // safety buffer

// BurnLeaderboard space: discriminator 8 + Vec length prefix 4 + full entry
// array + safety buffer.
const BurnLeaderboardSpace = 8 + 4 + MaxLeaderboardEntries*16 + 64

var (
	GlobalProjectCounterDiscriminator = runtime.AccountDiscriminator("GlobalProjectCounter")
	ProjectDiscriminator              = runtime.AccountDiscriminator("Project")
	BurnLeaderboardDiscriminator      = runtime.AccountDiscriminator("BurnLeaderboard")
)

// GlobalProjectCounter assigns sequential project ids.
type GlobalProjectCounter struct {
	TotalProjects uint64
}

func (c *GlobalProjectCounter) Marshal() ([]byte, error) {
	return runtime.EncodeAccount(GlobalProjectCounterDiscriminator, c, GlobalProjectCounterSpace)
}

func DecodeGlobalProjectCounter(data []byte) (*GlobalProjectCounter, error) {
	counter := new(GlobalProjectCounter)
	if err := runtime.DecodeAccount(GlobalProjectCounterDiscriminator, data, counter); err != nil {
		return nil, err
	}
	return counter, nil
}

// Project is one registered project, addressed by its sequential id.
type Project struct {
	ProjectID    uint64
	Creator      solana.PublicKey
	CreatedAt    int64
	LastUpdated  int64
	Name         string
	Description  string
	Image        string
	Website      string
	Tags         []string
	MemoCount    uint64
	BurnedAmount uint64
	LastMemoTime int64
	Bump         uint8
}

func (p *Project) Marshal() ([]byte, error) {
	return runtime.EncodeAccount(ProjectDiscriminator, p, ProjectSpaceMax)
}

func DecodeProject(data []byte) (*Project, error) {
	project := new(Project)
	if err := runtime.DecodeAccount(ProjectDiscriminator, data, project); err != nil {
		return nil, err
	}
	return project, nil
}

// recordBurn folds one burn_for_project into the counters.
func (p *Project) recordBurn(amount uint64, now int64) {
	if p.BurnedAmount > ^uint64(0)-amount {
		p.BurnedAmount = ^uint64(0)
	} else {
		p.BurnedAmount += amount
	}
	p.MemoCount++
	p.LastMemoTime = now
}

// LeaderboardEntry is one project's standing: id and lifetime burned amount.
type LeaderboardEntry struct {
	ProjectID    uint64
	BurnedAmount uint64
}

// BurnLeaderboard holds the top projects by lifetime burned amount. Entries
// are kept unsorted to avoid array moves on-chain; display order is a
// client-side sort.
type BurnLeaderboard struct {
	Entries []LeaderboardEntry
}

func (l *BurnLeaderboard) Marshal() ([]byte, error) {
	return runtime.EncodeAccount(BurnLeaderboardDiscriminator, l, BurnLeaderboardSpace)
}

func DecodeBurnLeaderboard(data []byte) (*BurnLeaderboard, error) {
	leaderboard := new(BurnLeaderboard)
	if err := runtime.DecodeAccount(BurnLeaderboardDiscriminator, data, leaderboard); err != nil {
		return nil, err
	}
	return leaderboard, nil
}

// Update folds a project's new lifetime total into the board and reports
// whether the project holds a slot afterwards. An existing entry is updated
// in place; a new project fills a free slot, or displaces the current
// minimum when the board is full and the total beats it.
func (l *BurnLeaderboard) Update(projectID, burnedAmount uint64) bool {
	existing, min := -1, -1
	minAmount := ^uint64(0)
	for i, entry := range l.Entries {
		if entry.ProjectID == projectID {
			existing = i
		}
		if entry.BurnedAmount < minAmount {
			minAmount = entry.BurnedAmount
			min = i
		}
	}

	if existing >= 0 {
		l.Entries[existing].BurnedAmount = burnedAmount
		return true
	}
	if len(l.Entries) < MaxLeaderboardEntries {
		l.Entries = append(l.Entries, LeaderboardEntry{ProjectID: projectID, BurnedAmount: burnedAmount})
		return true
	}
	if min >= 0 && burnedAmount > minAmount {
		l.Entries[min] = LeaderboardEntry{ProjectID: projectID, BurnedAmount: burnedAmount}
		return true
	}
	return false
}

// DeriveGlobalCounter returns the counter PDA and bump.
func DeriveGlobalCounter() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedGlobalCounter}, ProgramID)
}

// DeriveBurnLeaderboard returns the leaderboard PDA and bump.
func DeriveBurnLeaderboard() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedBurnLeaderboard}, ProgramID)
}

// DeriveProject returns the project PDA and bump for a project id.
func DeriveProject(projectID uint64) (solana.PublicKey, uint8, error) {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], projectID)
	return solana.FindProgramAddress([][]byte{SeedProject, id[:]}, ProgramID)
}
