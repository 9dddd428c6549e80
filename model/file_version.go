package model

import "time"

// FileVersion is an immutable snapshot of a file's state. The unique index
// on (file_id, version_number) keeps the sequence consistent even when two
// uploads race for the same next number.
type FileVersion struct {
	ID            uint `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID        uint `gorm:"not null;uniqueIndex:idx_file_version" json:"file_id"`
	VersionNumber int  `gorm:"not null;uniqueIndex:idx_file_version" json:"version_number"`

	Filename     string `gorm:"not null" json:"filename"`
	OriginalName string `gorm:"not null" json:"original_name"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Path         string `gorm:"not null" json:"-"`
	Metadata     string `json:"metadata,omitempty"`

	ChangeDescription string `json:"change_description"`
	CreatedBy         uint   `gorm:"not null" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
}
