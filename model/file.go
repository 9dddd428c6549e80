package model

import "time"

type File struct {
	ID     uint `gorm:"primaryKey;autoIncrement;index" json:"id"`
	UserID uint `gorm:"index;not null" json:"-"`

	// Since we want to allow different users to have files with the same
	// name the blob is kept on disk under a generated name
	Filename string `gorm:"not null" json:"filename"`

	// Original file name before turning it into a disk name
	OriginalName string `gorm:"not null" json:"original_name"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Path         string `gorm:"not null" json:"-"`

	// Arbitrary JSON document supplied by the client, stored as text and
	// never parsed server-side except for substring search
	Metadata string `json:"metadata,omitempty"`

	// PublicID is non-empty iff IsPublic. It acts as a capability token so
	// it must never be derivable from the numeric ID
	IsPublic bool    `gorm:"not null;default:false" json:"is_public"`
	PublicID *string `gorm:"uniqueIndex" json:"public_id,omitempty"`

	FolderID *uint `gorm:"index" json:"folder_id"`

	// NULL = active, non-null = trashed
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Versions    []FileVersion    `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE" json:"-"`
	Comments    []Comment        `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE" json:"-"`
	Permissions []FilePermission `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE" json:"-"`
	Tags        []Tag            `gorm:"many2many:file_tags;constraint:OnDelete:CASCADE" json:"-"`
}
