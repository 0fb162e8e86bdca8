package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is the contract with the binary asset store. Upload returns a
// URL-shaped reference whose store key can be recovered with KeyFromURL.
// Delete is idempotent: removing a key that no longer exists succeeds, so
// a removal interrupted halfway can be retried.
type Store interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

var ErrBadRef = errors.New("malformed asset reference")

// KeyFromURL extracts the store key from an asset reference: the path
// segment between the last '/' and the last '.'. Deletion correctness
// depends on this rule matching how Upload builds references.
func KeyFromURL(ref string) (string, error) {
	slash := strings.LastIndex(ref, "/")
	dot := strings.LastIndex(ref, ".")
	if slash < 0 || dot <= slash+1 {
		return "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	return ref[slash+1 : dot], nil
}

// DirStore keeps assets on the local filesystem under <Dir>/products and
// hands out references under <BaseURL>/media/products/. The server mounts
// Dir at /media, so references resolve over HTTP.
type DirStore struct {
	Dir     string
	BaseURL string
}

func NewDirStore(dir, baseURL string) *DirStore {
	return &DirStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DirStore) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := filepath.Ext(filename)
	if ext == "" || strings.ContainsAny(ext, "/\\") {
		ext = ".bin"
	}
	key := uuid.NewString()
	dir := filepath.Join(s.Dir, "products")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, key+ext), data, 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/media/products/%s%s", s.BaseURL, key, ext), nil
}

func (s *DirStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Keys are uuids; reject anything that could escape the media dir.
	if key == "" || strings.ContainsAny(key, "/\\.") {
		return fmt.Errorf("%w: key %q", ErrBadRef, key)
	}
	matches, err := filepath.Glob(filepath.Join(s.Dir, "products", key+".*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
