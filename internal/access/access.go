// Package access implements the authorization predicate used by every
// protected endpoint. Decisions are derived per request and never cached.
package access

import (
	"errors"

	"github.com/you-sk/web-storage-service/model"

	"gorm.io/gorm"
)

// ErrNotFound is returned when the file doesn't exist. Callers surface it
// exactly like an ownership mismatch so existence never leaks.
var ErrNotFound = errors.New("file not found")

type Checker struct {
	DB *gorm.DB
}

func NewChecker(db *gorm.DB) *Checker {
	return &Checker{DB: db}
}

// CanAccessFile evaluates, in order: owner, admin role, explicit grant,
// and public visibility (view only). First match wins.
func (ch *Checker) CanAccessFile(fileID, userID uint, perm string) (bool, error) {
	var file model.File
	err := ch.DB.
		Select("id, user_id, is_public").
		Where("id = ?", fileID).
		First(&file).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, ErrNotFound
		}
		return false, err
	}

	if file.UserID == userID {
		return true, nil
	}

	admin, err := ch.IsAdmin(userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	var count int64
	err = ch.DB.
		Model(model.FilePermission{}).
		Where("file_id = ? AND user_id = ? AND permission = ?", fileID, userID, perm).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if perm == model.FilePermView && file.IsPublic {
		return true, nil
	}

	return false, nil
}

// HasRolePermission checks the capability catalog for the user's role.
// Admins skip the catalog lookup.
func (ch *Checker) HasRolePermission(userID uint, name string) (bool, error) {
	role, err := ch.userRole(userID)
	if err != nil {
		return false, err
	}

	if role == model.RoleAdmin {
		return true, nil
	}

	var count int64
	err = ch.DB.
		Model(model.RolePermission{}).
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role = ? AND permissions.name = ?", role, name).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (ch *Checker) IsAdmin(userID uint) (bool, error) {
	role, err := ch.userRole(userID)
	if err != nil {
		return false, err
	}

	return role == model.RoleAdmin, nil
}

func (ch *Checker) userRole(userID uint) (string, error) {
	var user model.User
	err := ch.DB.
		Select("id, role").
		Where("id = ?", userID).
		First(&user).
		Error
	if err != nil {
		return "", err
	}

	if user.Role == "" {
		return model.RoleUser, nil
	}

	return user.Role, nil
}
