package corpus

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileCache stores one JSON response per lemma under a directory per
// language. A file present on disk is served without calling the API.
type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

func (f *FileCache) filePath(language, lemma string) string {
	return filepath.Join(f.rootDir, language, lemma+".json")
}

func (cache *FileCache) cache(language, lemma string, f func() ([]byte, error)) ([]byte, error) {
	localFilePath := cache.filePath(language, lemma)
	if _, err := os.Stat(localFilePath); err == nil {
		contents, err := cache.read(language, lemma)
		if err != nil {
			return nil, fmt.Errorf("cache.read > %w", err)
		}
		return contents, nil
	}

	contents, err := f()
	if err != nil {
		return nil, fmt.Errorf("fetch rank > %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(localFilePath), 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll > %w", err)
	}
	file, err := os.Create(localFilePath)
	if err != nil {
		return nil, fmt.Errorf("os.Create > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	if _, err := file.Write(contents); err != nil {
		return contents, fmt.Errorf("file.Write > %w", err)
	}
	return contents, nil
}

func (cache *FileCache) read(language, lemma string) ([]byte, error) {
	file, err := os.Open(cache.filePath(language, lemma))
	if err != nil {
		return nil, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll > %w", err)
	}
	return contents, nil
}
