package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_filePath(t *testing.T) {
	tests := []struct {
		name     string
		language string
		lemma    string
		expected string
	}{
		{
			name:     "simple word",
			language: "de",
			lemma:    "haus",
			expected: filepath.Join("cache", "de", "haus.json"),
		},
		{
			name:     "word with spaces",
			language: "en",
			lemma:    "give up",
			expected: filepath.Join("cache", "en", "give up.json"),
		},
		{
			name:     "word with special characters",
			language: "fr",
			lemma:    "aujourd'hui",
			expected: filepath.Join("cache", "fr", "aujourd'hui.json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewFileCache("cache")
			assert.Equal(t, tt.expected, cache.filePath(tt.language, tt.lemma))
		})
	}
}

func TestFileCache_cache(t *testing.T) {
	tests := []struct {
		name           string
		lemma          string
		setupCache     bool
		cacheContent   string
		fetcherFunc    func() ([]byte, error)
		expectedResult string
		expectError    bool
	}{
		{
			name:       "cache miss - successful fetch",
			lemma:      "haus",
			setupCache: false,
			fetcherFunc: func() ([]byte, error) {
				return []byte(`{"lemma": "haus", "rank": 312}`), nil
			},
			expectedResult: `{"lemma": "haus", "rank": 312}`,
			expectError:    false,
		},
		{
			name:         "cache hit",
			lemma:        "baum",
			setupCache:   true,
			cacheContent: `{"lemma": "baum", "rank": 812}`,
			fetcherFunc: func() ([]byte, error) {
				return []byte(`{"lemma": "baum", "rank": 1}`), nil
			},
			expectedResult: `{"lemma": "baum", "rank": 812}`,
			expectError:    false,
		},
		{
			name:       "cache miss - fetch error",
			lemma:      "wald",
			setupCache: false,
			fetcherFunc: func() ([]byte, error) {
				return nil, errors.New("API error")
			},
			expectedResult: "",
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewFileCache(t.TempDir())

			if tt.setupCache {
				filePath := cache.filePath("de", tt.lemma)
				require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
				require.NoError(t, os.WriteFile(filePath, []byte(tt.cacheContent), 0o644))
			}

			// The language directory is created on demand, so a miss
			// needs no setup at all.
			result, err := cache.cache("de", tt.lemma, tt.fetcherFunc)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedResult, string(result))

			_, err = os.Stat(cache.filePath("de", tt.lemma))
			assert.NoError(t, err)
		})
	}
}

func TestFileCache_read(t *testing.T) {
	tests := []struct {
		name           string
		lemma          string
		setupFile      bool
		fileContent    string
		expectedResult string
		expectError    bool
	}{
		{
			name:           "existing file",
			lemma:          "haus",
			setupFile:      true,
			fileContent:    `{"lemma": "haus", "rank": 312}`,
			expectedResult: `{"lemma": "haus", "rank": 312}`,
			expectError:    false,
		},
		{
			name:        "non-existent file",
			lemma:       "missing",
			setupFile:   false,
			expectError: true,
		},
		{
			name:           "empty file",
			lemma:          "empty",
			setupFile:      true,
			fileContent:    "",
			expectedResult: "",
			expectError:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewFileCache(t.TempDir())

			if tt.setupFile {
				filePath := cache.filePath("de", tt.lemma)
				require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
				require.NoError(t, os.WriteFile(filePath, []byte(tt.fileContent), 0o644))
			}

			result, err := cache.read("de", tt.lemma)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedResult, string(result))
		})
	}
}
