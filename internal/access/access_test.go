package access

import (
	"path/filepath"
	"testing"

	"github.com/you-sk/web-storage-service/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		model.User{},
		model.File{},
		model.Permission{},
		model.RolePermission{},
		model.FilePermission{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) uint {
	t.Helper()

	user := model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "irrelevant",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)

	return user.ID
}

func TestCanAccessFilePrecedence(t *testing.T) {
	db := testDB(t)
	ch := NewChecker(db)

	owner := seedUser(t, db, "owner", model.RoleUser)
	admin := seedUser(t, db, "admin", model.RoleAdmin)
	grantee := seedUser(t, db, "grantee", model.RoleUser)
	stranger := seedUser(t, db, "stranger", model.RoleUser)

	file := model.File{
		UserID:       owner,
		Filename:     "disk-name.txt",
		OriginalName: "file.txt",
		Path:         "/tmp/disk-name.txt",
	}
	require.NoError(t, db.Create(&file).Error)

	require.NoError(t, db.Create(&model.FilePermission{
		FileID:     file.ID,
		UserID:     grantee,
		Permission: model.FilePermView,
		GrantedBy:  owner,
	}).Error)

	check := func(userID uint, perm string) bool {
		ok, err := ch.CanAccessFile(file.ID, userID, perm)
		require.NoError(t, err)
		return ok
	}

	// Owner holds every capability without any grant rows
	for _, perm := range []string{model.FilePermView, model.FilePermEdit, model.FilePermDelete, model.FilePermShare} {
		assert.True(t, check(owner, perm), perm)
	}

	// Admin bypasses grants entirely
	assert.True(t, check(admin, model.FilePermDelete))

	// Grants apply to exactly the granted capability
	assert.True(t, check(grantee, model.FilePermView))
	assert.False(t, check(grantee, model.FilePermEdit))

	// Strangers get nothing on a private file
	assert.False(t, check(stranger, model.FilePermView))

	// Public visibility opens view only
	require.NoError(t, db.Model(&file).Update("is_public", true).Error)
	assert.True(t, check(stranger, model.FilePermView))
	assert.False(t, check(stranger, model.FilePermDelete))
}

func TestCanAccessFileMissingFile(t *testing.T) {
	db := testDB(t)
	ch := NewChecker(db)

	user := seedUser(t, db, "alone", model.RoleUser)

	_, err := ch.CanAccessFile(12345, user, model.FilePermView)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHasRolePermission(t *testing.T) {
	db := testDB(t)
	ch := NewChecker(db)

	perm := model.Permission{Name: "manage_tags"}
	require.NoError(t, db.Create(&perm).Error)
	require.NoError(t, db.Create(&model.RolePermission{
		Role:         model.RoleUser,
		PermissionID: perm.ID,
	}).Error)

	user := seedUser(t, db, "tagger", model.RoleUser)
	admin := seedUser(t, db, "boss", model.RoleAdmin)

	ok, err := ch.HasRolePermission(user, "manage_tags")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ch.HasRolePermission(user, "manage_users")
	require.NoError(t, err)
	assert.False(t, ok)

	// Admins short-circuit the catalog
	ok, err = ch.HasRolePermission(admin, "anything_at_all")
	require.NoError(t, err)
	assert.True(t, ok)
}
