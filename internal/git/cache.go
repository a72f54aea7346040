package git

import (
	"hash/fnv"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// DefaultCacheDir returns the directory holding bare mirrors.
// Uses XDG_CACHE_HOME if set, otherwise ~/.cache/flakewatch/git.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "flakewatch", "git")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return filepath.Join(os.TempDir(), "flakewatch-cache", "git")
		}
		return filepath.Join("/tmp", "flakewatch-cache", "git")
	}
	return filepath.Join(home, ".cache", "flakewatch", "git")
}

// CachePath maps a clone URL to its bare mirror path under baseDir.
// Pure and deterministic: identical URLs map to identical paths. The name
// keeps a readable sanitized prefix of the URL plus a hash suffix so
// distinct URLs cannot collide on the prefix alone.
func CachePath(baseDir, url string) string {
	h := fnv.New64a()
	h.Write([]byte(url))

	var safe []rune
	for _, r := range url {
		if len(safe) >= 32 {
			break
		}
		if r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			safe = append(safe, r)
		}
	}

	return filepath.Join(baseDir, string(safe)+"_"+strconv.FormatUint(h.Sum64(), 16))
}
