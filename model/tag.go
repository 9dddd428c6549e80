package model

import "time"

// Tags are global, not per-user. Files reference them through the
// file_tags join table.
type Tag struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`

	Files []File `gorm:"many2many:file_tags" json:"-"`
}
