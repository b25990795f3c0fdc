package storage

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var (
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrInvalidImage    = errors.New("invalid image file")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Store writes uploaded images under a root directory and guarantees that
// anything it keeps on disk decodes as a real image.
type Store struct {
	root string
}

const avatarDir = "avatars"

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, avatarDir), 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string {
	return s.root
}

// Save stores an uploaded image under a collision-free name derived from the
// original filename and returns the stored name relative to the root.
func (s *Store) Save(data []byte, originalName string) (string, error) {
	name := sanitizeFilename(originalName)
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	stored := base + ext
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(s.root, stored)); os.IsNotExist(err) {
			break
		}
		stored = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}

	if err := s.writeAndVerify(filepath.Join(s.root, stored), data); err != nil {
		return "", err
	}
	return stored, nil
}

// SaveAvatar stores a profile picture under a deterministic per-user name so
// a re-upload overwrites the previous avatar.
func (s *Store) SaveAvatar(data []byte, originalName string, userID uint) (string, error) {
	ext := strings.ToLower(filepath.Ext(sanitizeFilename(originalName)))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	stored := filepath.Join(avatarDir, fmt.Sprintf("avatar_user%d%s", userID, ext))
	if err := s.writeAndVerify(filepath.Join(s.root, stored), data); err != nil {
		return "", err
	}
	return filepath.ToSlash(stored), nil
}

// writeAndVerify writes the file, then re-opens and decodes it to confirm
// the bytes are a structurally valid image. A file that fails the decode is
// removed again.
func (s *Store) writeAndVerify(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		os.Remove(path)
		return err
	}
	_, _, err = image.Decode(f)
	f.Close()
	if err != nil {
		os.Remove(path)
		return ErrInvalidImage
	}
	return nil
}

// MIMEType maps a stored filename to its image mime type. Unknown
// extensions fall back to jpeg.
func (s *Store) MIMEType(storedName string) string {
	switch strings.ToLower(filepath.Ext(storedName)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// sanitizeFilename strips directory components and any character that could
// escape the upload root.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		cleaned = "upload"
	}
	return cleaned
}
