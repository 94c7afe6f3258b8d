package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// LocalStore writes attachments under a directory and addresses them with
// file:// URLs.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, goerr.Wrap(err, "resolving storage directory", goerr.V("dir", root))
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, goerr.Wrap(err, "creating storage directory", goerr.V("dir", abs))
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	key := objectKey(name)
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	// dst must be a file inside attachments/<uuid>/, never the shared parent.
	if rel, err := filepath.Rel(filepath.Join(s.root, "attachments"), dst); err != nil ||
		strings.Count(filepath.ToSlash(rel), "/") != 1 || strings.HasPrefix(rel, "..") {
		return "", goerr.New("attachment name escapes storage directory", goerr.V("name", name))
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", goerr.Wrap(err, "creating attachment directory", goerr.V("path", dst))
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", goerr.Wrap(err, "creating attachment file", goerr.V("path", dst))
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return "", goerr.Wrap(err, "writing attachment", goerr.V("path", dst))
	}
	if err := f.Close(); err != nil {
		return "", goerr.Wrap(err, "closing attachment", goerr.V("path", dst))
	}

	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(dst)}).String(), nil
}

func (s *LocalStore) Delete(ctx context.Context, rawURL string) (bool, error) {
	p, err := s.pathFor(rawURL)
	if err != nil {
		return false, err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, goerr.Wrap(err, "removing attachment", goerr.V("path", p))
	}
	return true, nil
}

// pathFor maps a file:// URL back to a path, refusing anything outside root.
func (s *LocalStore) pathFor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "file" {
		return "", goerr.New("not a local attachment url", goerr.V("url", rawURL))
	}
	p := filepath.Clean(filepath.FromSlash(u.Path))
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", goerr.New("attachment url outside storage directory", goerr.V("url", rawURL))
	}
	return p, nil
}
