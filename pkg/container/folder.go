package container

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/fileutil"
)

// FolderStore is a Store backed by a plain directory on disk,
// matching original_source's DirectoryFolder (spec §4.7).
type FolderStore struct {
	root     string
	names    []string
	readOnly bool
}

// NewFolderStore creates a FolderStore rooted at root. writable
// controls whether Write is permitted.
func NewFolderStore(root string, writable bool) *FolderStore {
	return &FolderStore{root: root, readOnly: !writable}
}

func (f *FolderStore) Open(ctx context.Context) error {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return err
	}
	f.names = f.names[:0]
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f.names = append(f.names, e.Name())
	}
	return nil
}

func (f *FolderStore) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := fileutil.FindFileCaseInsensitive(f.root, name)
	if err != nil {
		return nil, ErrNotExist
	}
	return os.ReadFile(path)
}

func (f *FolderStore) Write(ctx context.Context, name string, data []byte) error {
	if f.readOnly {
		return ErrReadOnly
	}
	path := filepath.Join(f.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	if !f.Exist(name) {
		f.names = append(f.names, name)
	}
	return nil
}

func (f *FolderStore) Exist(name string) bool {
	_, err := fileutil.FindFileCaseInsensitive(f.root, name)
	return err == nil
}

func (f *FolderStore) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

func (f *FolderStore) Close() error { return nil }
