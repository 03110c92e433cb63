package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Blob name prefixes per image type
const (
	ProductImage     = "Product_Image"
	UserProfileImage = "User_Profile_Image"
)

var errBadBlobName = errors.New("gateway: invalid blob name")

// BlobStore stores uploaded images and hands out their public URLs
type BlobStore interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// BlobName builds "<prefix><unix millis>.<ext>"
func BlobName(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s%d.%s", prefix, now.UnixMilli(), ext)
}

// imageExtension takes the extension from the file name and falls back to
// sniffing the content
func imageExtension(filename string, mtype *mimetype.MIME) string {
	if ext := strings.TrimPrefix(filepath.Ext(filename), "."); ext != "" {
		return strings.ToLower(ext)
	}
	if ext := strings.TrimPrefix(mtype.Extension(), "."); ext != "" {
		return ext
	}
	return "bin"
}

func validBlobName(name string) bool {
	return name != "" && name == filepath.Base(name) && !strings.HasPrefix(name, ".")
}

func publicURL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + "/images/" + url.PathEscape(name)
}

// DiskStore writes blobs into a local directory
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{dir: dir, baseURL: baseURL}
}

func (s *DiskStore) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if !validBlobName(name) {
		return "", errBadBlobName
	}
	if err := os.MkdirAll(s.dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create blob %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write blob %s: %w", name, err)
	}
	return publicURL(s.baseURL, name), nil
}

func (s *DiskStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if !validBlobName(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", name, err)
	}
	return f, nil
}
