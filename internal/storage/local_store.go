package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extensions accepted for any upload. Everything else is rejected
// before a byte is written.
var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".ppt": true, ".pptx": true, ".xls": true, ".xlsx": true,
	".zip": true, ".rar": true, ".7z": true,
}

// ErrExtensionNotAllowed is returned for uploads with a disallowed
// file extension.
var ErrExtensionNotAllowed = fmt.Errorf("file extension not allowed")

// LocalStore writes uploads to a directory on the local filesystem.
type LocalStore struct {
	root    string
	maxSize int64
}

func NewLocalStore(root string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{root: root, maxSize: maxSize}, nil
}

// IsAllowedExtension reports whether the filename's extension is accepted.
func IsAllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SaveSubmission stores a student's submission file. The stored name is
// "{studentID}_{taskID}_{timestamp}_{original}" so the original name can
// be recovered for downloads and collisions cannot happen across
// students or tasks.
func (s *LocalStore) SaveSubmission(file *multipart.FileHeader, studentID, taskID uint) (string, error) {
	name := fmt.Sprintf("%d_%d_%d_%s",
		studentID, taskID, time.Now().Unix(), sanitizeFilename(file.Filename))
	return s.save(file, filepath.Join("submissions", name))
}

// SaveAttachment stores a professor upload (task attachments, material
// files, video files) under the given subdirectory.
func (s *LocalStore) SaveAttachment(file *multipart.FileHeader, subdir string) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().Unix(), sanitizeFilename(file.Filename))
	return s.save(file, filepath.Join(subdir, name))
}

func (s *LocalStore) save(file *multipart.FileHeader, relPath string) (string, error) {
	if !IsAllowedExtension(file.Filename) {
		return "", ErrExtensionNotAllowed
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", fmt.Errorf("file exceeds maximum size of %d bytes", s.maxSize)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dstPath := filepath.Join(s.root, relPath)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return relPath, nil
}

// Path resolves a stored relative path to an absolute one, refusing
// anything that escapes the upload root.
func (s *LocalStore) Path(relPath string) (string, error) {
	full := filepath.Join(s.root, filepath.Clean("/"+relPath))
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid file path")
	}
	return full, nil
}

// OriginalName recovers the uploaded filename from a stored submission
// path.
func OriginalName(relPath string) string {
	base := filepath.Base(relPath)
	parts := strings.SplitN(base, "_", 4)
	if len(parts) == 4 {
		return parts[3]
	}
	// Attachment naming has a single timestamp prefix.
	if attachment := strings.SplitN(base, "_", 2); len(attachment) == 2 {
		return attachment[1]
	}
	return base
}

// Delete removes a stored file. Missing files are not an error, the
// record is what matters.
func (s *LocalStore) Delete(relPath string) error {
	full, err := s.Path(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
