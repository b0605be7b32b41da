package core

import "time"

// Category is the fixed set of directory sections a tool can belong to.
type Category string

const (
	CategoryChat    Category = "chat"
	CategoryImage   Category = "image"
	CategoryVideo   Category = "video"
	CategoryWriting Category = "writing"
	CategoryCoding  Category = "coding"
	CategoryAudio   Category = "audio"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryChat,
	CategoryImage,
	CategoryVideo,
	CategoryWriting,
	CategoryCoding,
	CategoryAudio,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryChat, CategoryImage, CategoryVideo, CategoryWriting, CategoryCoding, CategoryAudio:
		return true
	}
	return false
}

// Tool is a single directory entry.
//
// Exactly one of two things is true for any record: it is a system-seeded
// tool (empty OwnerUserID), or it belongs to the user who created it. Admin
// tools may carry an owner but are visible to everyone.
type Tool struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	IsFree      bool      `json:"isFree"`
	IsChinese   bool      `json:"isChinese"`
	OwnerUserID string    `json:"ownerUserId,omitempty"` // empty for system-seeded tools
	IsAdminTool bool      `json:"isAdminTool"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsSystem reports whether the tool is part of the pre-seeded catalog.
func (t *Tool) IsSystem() bool {
	return t.OwnerUserID == ""
}

// VisibleTo reports whether the tool may be shown to the given viewer.
// An empty viewerID means "not signed in".
func (t *Tool) VisibleTo(viewerID string) bool {
	return t.IsAdminTool || t.OwnerUserID == "" || t.OwnerUserID == viewerID
}

// EditableBy reports whether the viewer may mutate the tool. Only owners
// edit their own entries; roles that manage the whole directory may edit
// anything.
func (t *Tool) EditableBy(u *User) bool {
	if u == nil {
		return false
	}
	if u.Role.ManagesAllTools() {
		return true
	}
	return t.OwnerUserID != "" && t.OwnerUserID == u.ID
}

// ToolInput is the user-editable subset of a tool, used for add and update.
type ToolInput struct {
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	IsFree      bool     `json:"isFree"`
	IsChinese   bool     `json:"isChinese"`
}

// Role is only meaningful for the administrative layer.
type Role string

const (
	RoleNone       Role = "none"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ManagesAllTools reports whether the role may edit, delete, or flag any
// tool regardless of ownership.
func (r Role) ManagesAllTools() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// ManagesUsers reports whether the role may list and modify user accounts.
func (r Role) ManagesUsers() bool {
	return r == RoleSuperAdmin
}

// User represents a user account in the system
//
// This is the "identity" - who someone is
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Account represents an authentication method
//
// This is the "credential" - how someone proves who they are
type Account struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	ProviderID   string     `json:"providerId"` // "credential", "google", "github"
	AccountID    string     `json:"accountId"`
	Password     *string    `json:"-"` // Never expose in JSON
	AccessToken  *string    `json:"-"` // Never expose in JSON
	RefreshToken *string    `json:"-"` // Never expose in JSON
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Session represents an active login session
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TokenHash string    `json:"-"` // Never expose in JSON (security!)
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Expired reports whether the session is past its expiry. An expired
// session is treated as absent even if still held in memory.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionData combines user and session info
// The model returned to clients
type SessionData struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}
