// Package db contains the GORM connection setup and schema seeding
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/you-sk/web-storage-service/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Capabilities seeded into the permissions catalog on first start.
var defaultPermissions = []model.Permission{
	{Name: "manage_users", Description: "Create, update, and delete user accounts"},
	{Name: "manage_roles", Description: "Assign and revoke user roles"},
	{Name: "view_all_files", Description: "View all files in the system"},
	{Name: "delete_all_files", Description: "Delete any file in the system"},
	{Name: "manage_system", Description: "Access to system configuration and settings"},
	{Name: "create_folders", Description: "Create new folders"},
	{Name: "delete_folders", Description: "Delete folders"},
	{Name: "share_files", Description: "Share files with other users"},
	{Name: "manage_tags", Description: "Create and delete tags"},
	{Name: "moderate_comments", Description: "Edit or delete any comment"},
}

var userRolePermissions = []string{"create_folders", "share_files"}

func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch viper.GetString("database.driver") {
	case "postgres":
		dialector = postgres.Open(viper.GetString("database.dsn"))
	default:
		path := viper.GetString("database.path")
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory, %w", err)
			}
		}

		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(
		model.User{},
		model.Folder{},
		model.File{},
		model.FileVersion{},
		model.Tag{},
		model.Comment{},
		model.Permission{},
		model.RolePermission{},
		model.FilePermission{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	if err := seedPermissions(db); err != nil {
		return nil, fmt.Errorf("failed to seed permissions, %w", err)
	}

	return db, nil
}

// seedPermissions fills the capability catalog and the default role grants.
// Safe to run on every start.
func seedPermissions(db *gorm.DB) error {
	for _, p := range defaultPermissions {
		err := db.
			Where("name = ?", p.Name).
			FirstOrCreate(&p).
			Error
		if err != nil {
			return err
		}

		// Admin gets everything
		err = db.
			Where(model.RolePermission{Role: model.RoleAdmin, PermissionID: p.ID}).
			FirstOrCreate(&model.RolePermission{Role: model.RoleAdmin, PermissionID: p.ID}).
			Error
		if err != nil {
			return err
		}
	}

	for _, name := range userRolePermissions {
		var p model.Permission
		if err := db.Where("name = ?", name).First(&p).Error; err != nil {
			return err
		}

		err := db.
			Where(model.RolePermission{Role: model.RoleUser, PermissionID: p.ID}).
			FirstOrCreate(&model.RolePermission{Role: model.RoleUser, PermissionID: p.ID}).
			Error
		if err != nil {
			return err
		}
	}

	return nil
}
