package envelope

// Typed payload records carried in BurnMemo.Payload. Each record opens with
// the structure version, the category/operation pair naming the handler, and
// the base58 pubkey of the expected transaction signer. Field limits are
// enforced by the owning program.

// ProfileCreationData - category "profile", operation "create_profile".
type ProfileCreationData struct {
	Version    uint8
	Category   string
	Operation  string
	UserPubkey string
	Username   string
	Image      string
	AboutMe    *string `bin:"optional"`
	URL        *string `bin:"optional"`
}

// ProfileUpdateData - category "profile", operation "update_profile".
// Nil fields keep the stored value; AboutMe/URL set to an empty string clear
// the stored option.
type ProfileUpdateData struct {
	Version    uint8
	Category   string
	Operation  string
	UserPubkey string
	Username   *string `bin:"optional"`
	Image      *string `bin:"optional"`
	AboutMe    *string `bin:"optional"`
	URL        *string `bin:"optional"`
}

// BlogCreationData - category "blog", operation "create_blog".
type BlogCreationData struct {
	Version     uint8
	Category    string
	Operation   string
	Creator     string
	Name        string
	Description string
	Image       string
}

// BlogUpdateData - category "blog", operation "update_blog".
type BlogUpdateData struct {
	Version     uint8
	Category    string
	Operation   string
	Creator     string
	Name        *string `bin:"optional"`
	Description *string `bin:"optional"`
	Image       *string `bin:"optional"`
}

// BlogBurnData - category "blog", operation "burn_for_blog".
type BlogBurnData struct {
	Version   uint8
	Category  string
	Operation string
	Burner    string
	Message   string
}

// BlogMintData - category "blog", operation "mint_for_blog".
type BlogMintData struct {
	Version   uint8
	Category  string
	Operation string
	Minter    string
	Message   string
}

// PostCreationData - category "forum", operation "create_post".
type PostCreationData struct {
	Version   uint8
	Category  string
	Operation string
	Creator   string
	PostID    uint64
	Title     string
	Content   string
	Image     string
}

// PostBurnData - category "forum", operation "burn_for_post".
type PostBurnData struct {
	Version   uint8
	Category  string
	Operation string
	User      string
	PostID    uint64
	Message   string
}

// PostMintData - category "forum", operation "mint_for_post".
type PostMintData struct {
	Version   uint8
	Category  string
	Operation string
	User      string
	PostID    uint64
	Message   string
}

// ProjectCreationData - category "project", operation "create_project".
type ProjectCreationData struct {
	Version     uint8
	Category    string
	Operation   string
	ProjectID   uint64
	Name        string
	Description string
	Image       string
	Website     string
	Tags        []string
}

// ProjectUpdateData - category "project", operation "update_project".
type ProjectUpdateData struct {
	Version     uint8
	Category    string
	Operation   string
	ProjectID   uint64
	Name        *string   `bin:"optional"`
	Description *string   `bin:"optional"`
	Image       *string   `bin:"optional"`
	Website     *string   `bin:"optional"`
	Tags        *[]string `bin:"optional"`
}

// ProjectBurnData - category "project", operation "burn_for_project".
type ProjectBurnData struct {
	Version   uint8
	Category  string
	Operation string
	ProjectID uint64
	Burner    string
	Message   string
}

// GroupCreationData - category "chat", operation "create_chat_group".
type GroupCreationData struct {
	Version         uint8
	Category        string
	Operation       string
	Creator         string
	GroupID         uint64
	Name            string
	Description     string
	Image           string
	Tags            []string
	MinMemoInterval *int64 `bin:"optional"`
}

// GroupBurnData - category "chat", operation "burn_tokens_for_group".
type GroupBurnData struct {
	Version   uint8
	Category  string
	Operation string
	Burner    string
	GroupID   uint64
	Message   string
}

// GroupMemoData - category "chat", operation "send_memo_to_group".
type GroupMemoData struct {
	Version   uint8
	Category  string
	Operation string
	Sender    string
	GroupID   uint64
	Message   string
}
