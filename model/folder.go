package model

import "time"

// Folder forms a tree per user through ParentID. The schema enforces
// ownership and cascade deletes; acyclicity is enforced procedurally
// on every move.
type Folder struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint   `gorm:"index;not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	ParentID *uint  `gorm:"index" json:"parent_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Children []Folder `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	Files    []File   `gorm:"foreignKey:FolderID;constraint:OnDelete:SET NULL" json:"-"`
}
