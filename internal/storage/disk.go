package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrBlobNotFound は指定キーのブロブが存在しないことを示す。
var ErrBlobNotFound = errors.New("blob not found")

// ErrInvalidKey はキーがストアのルート外を指していることを示す。
var ErrInvalidKey = errors.New("invalid blob key")

// DiskStore はローカルディスク上のディレクトリをルートとするBlobStore実装。
type DiskStore struct {
	root string
}

var _ BlobStore = (*DiskStore)(nil)

// NewDiskStore はDiskStoreを生成し、ルートディレクトリを作成する。
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// resolve はキーをルート配下の絶対パスに解決する。
// パストラバーサルでルート外に出るキーは拒否する。
func (s *DiskStore) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	path := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidKey
	}
	return path, nil
}

// Save はブロブをルート配下に書き込む。中間ディレクトリは自動作成する。
func (s *DiskStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	path, err := s.resolve(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create blob directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create blob file: %w", err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path) // 書きかけのファイルを残さない
		return 0, fmt.Errorf("failed to write blob: %w", err)
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close blob file: %w", err)
	}
	return n, nil
}

// Open はブロブを読み取り用に開く。
func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}

// Delete はブロブを削除する。存在しないキーはエラーにしない。
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// ModTime はブロブファイルの最終更新時刻を返す。
func (s *DiskStore) ModTime(ctx context.Context, key string) (time.Time, error) {
	path, err := s.resolve(key)
	if err != nil {
		return time.Time{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, ErrBlobNotFound
		}
		return time.Time{}, fmt.Errorf("failed to stat blob: %w", err)
	}
	return info.ModTime(), nil
}

// List は指定プレフィックス配下のキー一覧を返す。
func (s *DiskStore) List(ctx context.Context, prefix string) ([]string, error) {
	dir, err := s.resolve(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return nil, err
	}

	var keys []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	return keys, nil
}
