package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/specterworks/storefront/internal/application/storefront"
)

var _ storefront.AssetSource = (*FSAssetSource)(nil)

// FSAssetSource serves assets from a local directory.
type FSAssetSource struct {
	root fs.FS
	dir  string
}

// NewFSAssetSource serves files below dir.
func NewFSAssetSource(dir string) (*FSAssetSource, error) {
	if dir == "" {
		return nil, errors.New("assets directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open assets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets path %s is not a directory", dir)
	}
	return &FSAssetSource{root: os.DirFS(dir), dir: dir}, nil
}

// NewFSAssetSourceFromFS serves files from an fs.FS.
func NewFSAssetSourceFromFS(root fs.FS, name string) *FSAssetSource {
	return &FSAssetSource{root: root, dir: name}
}

// Open returns the file at path or storefront.ErrAssetNotFound.
func (s *FSAssetSource) Open(ctx context.Context, path string) (*storefront.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, ok := objectKey(path)
	if !ok || !fs.ValidPath(key) {
		return nil, storefront.ErrAssetNotFound
	}

	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storefront.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to open asset %s: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat asset %s: %w", key, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, storefront.ErrAssetNotFound
	}

	return &storefront.Asset{
		Body:        f,
		ContentType: contentTypeFor(key),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

// Name identifies the source.
func (s *FSAssetSource) Name() string {
	return "fs:" + s.dir
}
