package container

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/semaphore"
)

// ZipStore is a Store backed by a zip archive, matching
// original_source's DirectoryArchive. The underlying *zip.Reader is
// not re-entrant, so Open, Read and Write acquire a weight-1 semaphore
// first (spec §5 "reads take a per-archive mutex"); Exist, Names and
// Close do not acquire it.
type ZipStore struct {
	path string
	sem  *semaphore.Weighted

	reader *zip.Reader
	file   *os.File

	writable bool
	pending  map[string][]byte // staged writes, flushed on Close
}

// NewZipStore records path; the archive is opened for reading by
// Open. writable stages Write calls in
// memory and flushes them to a rewritten archive on Close.
func NewZipStore(path string, writable bool) *ZipStore {
	return &ZipStore{
		path:     path,
		sem:      semaphore.NewWeighted(1),
		writable: writable,
		pending:  map[string][]byte{},
	}
}

func (z *ZipStore) Open(ctx context.Context) error {
	if err := z.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer z.sem.Release(1)

	f, err := os.Open(z.path)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return err
	}
	z.file = f
	z.reader = r
	return nil
}

func (z *ZipStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := z.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer z.sem.Release(1)

	if data, ok := z.pending[name]; ok {
		return data, nil
	}

	zf := z.findEntry(name)
	if zf == nil {
		return nil, ErrNotExist
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (z *ZipStore) Write(ctx context.Context, name string, data []byte) error {
	if !z.writable {
		return ErrReadOnly
	}
	if err := z.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer z.sem.Release(1)

	z.pending[name] = data
	return nil
}

func (z *ZipStore) Exist(name string) bool {
	if _, ok := z.pending[name]; ok {
		return true
	}
	return z.findEntry(name) != nil
}

func (z *ZipStore) Names() []string {
	seen := map[string]bool{}
	var out []string
	if z.reader != nil {
		for _, zf := range z.reader.File {
			if !seen[zf.Name] {
				seen[zf.Name] = true
				out = append(out, zf.Name)
			}
		}
	}
	for name := range z.pending {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func (z *ZipStore) findEntry(name string) *zip.File {
	if z.reader == nil {
		return nil
	}
	lower := strings.ToLower(name)
	for _, zf := range z.reader.File {
		if strings.ToLower(zf.Name) == lower {
			return zf
		}
	}
	return nil
}

// Close flushes staged writes (if any) by rewriting the archive, then
// releases the file handle.
func (z *ZipStore) Close() error {
	if z.writable && len(z.pending) > 0 {
		if err := z.flush(); err != nil {
			if z.file != nil {
				z.file.Close()
			}
			return err
		}
	}
	if z.file != nil {
		return z.file.Close()
	}
	return nil
}

func (z *ZipStore) flush() error {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	written := map[string]bool{}
	for name, data := range z.pending {
		fw, err := w.Create(name)
		if err != nil {
			return err
		}
		if _, err := fw.Write(data); err != nil {
			return err
		}
		written[strings.ToLower(name)] = true
	}
	if z.reader != nil {
		for _, zf := range z.reader.File {
			if written[strings.ToLower(zf.Name)] {
				continue
			}
			rc, err := zf.Open()
			if err != nil {
				return err
			}
			fw, err := w.Create(zf.Name)
			if err != nil {
				rc.Close()
				return err
			}
			if _, err := io.Copy(fw, rc); err != nil {
				rc.Close()
				return err
			}
			rc.Close()
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	if z.file != nil {
		z.file.Close()
		z.file = nil
	}
	return os.WriteFile(z.path, buf.Bytes(), 0o644)
}
