// Package filestore stores proof documents and hands back the content hash
// that on-chain events anchor. Storage is local disk; durability is the
// deployment's problem, the hash is ours.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
)

// File describes a stored upload.
type File struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// Store defines the interface for proof document storage.
type Store interface {
	// Save persists the content under a unique name derived from name and
	// returns its descriptor. Hash is the keccak256 of the content, usable
	// directly as an on-chain proof hash.
	Save(ctx context.Context, name string, content []byte) (*File, error)
	// Open returns the stored content for a previously returned file name.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// ErrFileNotFound is returned when a stored file cannot be found.
var ErrFileNotFound = os.ErrNotExist

type localStore struct {
	dir string
}

// NewLocal creates a disk-backed store rooted at dir.
func NewLocal(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStore{dir: dir}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeName strips path and shell hostile characters from a client
// supplied file name.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	if len(name) > 200 {
		name = name[:200]
	}
	if name == "" || name == "." {
		return "file"
	}
	return name
}

func (s *localStore) Save(_ context.Context, name string, content []byte) (*File, error) {
	base := sanitizeName(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	unique := fmt.Sprintf("%s_%d%s", stem, time.Now().UnixMilli(), ext)

	path := filepath.Join(s.dir, unique)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &File{
		Name: unique,
		Path: path,
		URL:  "/api/uploads/" + unique,
		Hash: crypto.Keccak256Hash(content).Hex(),
		Size: int64(len(content)),
	}, nil
}

func (s *localStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	// Reject anything that could escape the upload directory.
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return nil, ErrFileNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	return f, nil
}
