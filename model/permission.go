package model

import "time"

// File-level permission names. Role-level capabilities live in the
// permissions catalog instead.
const (
	FilePermView   = "view"
	FilePermEdit   = "edit"
	FilePermDelete = "delete"
	FilePermShare  = "share"
)

// Permission is a named capability in the catalog, optionally granted
// to roles via RolePermission.
type Permission struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`

	CreatedAt time.Time `json:"created_at"`
}

type RolePermission struct {
	Role         string `gorm:"primaryKey" json:"role"`
	PermissionID uint   `gorm:"primaryKey" json:"permission_id"`

	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE" json:"-"`
}

// FilePermission is a per-(file, user) grant of one of the FilePerm*
// values. Owner and admin bypass this table entirely.
type FilePermission struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID     uint   `gorm:"not null;uniqueIndex:idx_file_user_perm" json:"file_id"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_file_user_perm" json:"user_id"`
	Permission string `gorm:"not null;uniqueIndex:idx_file_user_perm" json:"permission"`
	GrantedBy  uint   `gorm:"not null" json:"granted_by"`

	CreatedAt time.Time `json:"created_at"`
}
