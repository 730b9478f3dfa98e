package store

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"golang.org/x/crypto/blake2b"
)

// URIStore keeps one file per key under a fyne URI root, usually the app's
// storage directory. Keys are page URLs, which are hashed into file names.
type URIStore struct {
	root fyne.URI
}

func NewURIStore(root fyne.URI) *URIStore {
	return &URIStore{root: root}
}

// NewDirStore roots a URIStore at a local directory, creating it if needed.
func NewDirStore(dir string) (*URIStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return NewURIStore(storage.NewFileURI(dir)), nil
}

// Name maps a key to its file name.
func Name(key string) string {
	sum := blake2b.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + ".png"
}

func (s *URIStore) uriFor(key string) (fyne.URI, error) {
	u, err := storage.Child(s.root, Name(key))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", key, err)
	}
	return u, nil
}

func (s *URIStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := s.uriFor(key)
	if err != nil {
		return nil, err
	}
	exists, err := storage.Exists(u)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", u, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	r, err := storage.Reader(u)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", u, err)
	}
	defer r.Close()

	blob, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	return blob, nil
}

func (s *URIStore) Set(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u, err := s.uriFor(key)
	if err != nil {
		return err
	}
	w, err := storage.Writer(u)
	if err != nil {
		return fmt.Errorf("create %s: %w", u, err)
	}
	if _, err := w.Write(blob); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", u, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", u, err)
	}
	return nil
}
