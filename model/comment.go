package model

import "time"

type Comment struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID   uint   `gorm:"index;not null" json:"file_id"`
	UserID   uint   `gorm:"not null" json:"user_id"`
	Content  string `gorm:"not null" json:"content"`
	ParentID *uint  `gorm:"index" json:"parent_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Replies []Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`

	// Filled by a join when listing, not a column
	Username string `gorm:"->;-:migration" json:"username,omitempty"`
}
