// Package storage implements the on-disk blob store. Blobs live under a
// configured root with a versions/ subtree for historical snapshots, and
// are always addressed by generated names, never the user-supplied one.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/you-sk/web-storage-service/util"

	"go.uber.org/zap"
)

type Store struct {
	Root     string
	Versions string
}

func New(root string) (*Store, error) {
	versions := filepath.Join(root, "versions")

	if err := os.MkdirAll(versions, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directories, %w", err)
	}

	return &Store{
		Root:     root,
		Versions: versions,
	}, nil
}

// DiskName builds a collision-free on-disk name for an upload. The original
// extension is kept so previews keep working, everything else is generated.
func DiskName(originalName string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), util.RandStr(9), path.Ext(originalName))
}

// SaveUpload writes a multipart upload into the main blob root and returns
// the generated filename and full path.
func (s *Store) SaveUpload(fh *multipart.FileHeader) (filename, fullPath string, err error) {
	return s.save(fh, s.Root)
}

// SaveVersionUpload writes a multipart upload into the versions subtree.
func (s *Store) SaveVersionUpload(fh *multipart.FileHeader) (filename, fullPath string, err error) {
	return s.save(fh, s.Versions)
}

func (s *Store) save(fh *multipart.FileHeader, dir string) (string, string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open upload, %w", err)
	}
	defer src.Close()

	name := DiskName(fh.Filename)
	full := filepath.Join(dir, name)

	dst, err := os.Create(full)
	if err != nil {
		return "", "", fmt.Errorf("failed to create blob file, %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(full)
		return "", "", fmt.Errorf("failed to write blob file, %w", err)
	}

	return name, full, nil
}

// Remove deletes a blob from disk. A missing blob is logged and tolerated
// so purging a row whose blob is already gone still succeeds.
func (s *Store) Remove(fullPath string) error {
	if fullPath == "" {
		return nil
	}

	err := os.Remove(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("Blob already missing on disk", zap.String("path", fullPath))
			return nil
		}
		return err
	}

	return nil
}

// CopyToRoot copies a historical blob into the main root under a fresh
// name. The source stays intact so the version remains restorable.
func (s *Store) CopyToRoot(srcPath, originalName string) (filename, fullPath string, err error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	name := fmt.Sprintf("restored-%s", DiskName(originalName))
	full := filepath.Join(s.Root, name)

	dst, err := os.Create(full)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(full)
		return "", "", err
	}

	return name, full, nil
}

// Exists reports whether a blob is present on disk.
func (s *Store) Exists(fullPath string) bool {
	_, err := os.Stat(fullPath)
	return err == nil
}
