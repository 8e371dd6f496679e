package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// ResolveDataFile locates a word or frequency list. Absolute paths and paths
// that exist relative to the working directory are returned as is; otherwise
// the config directory, the executable directory and its data/ subdirectory
// are searched. The original path is returned when nothing matches so the
// caller's error names what the user asked for.
func ResolveDataFile(path, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}

	var candidates []string
	if configDir != "" {
		candidates = append(candidates, filepath.Join(configDir, path))
	}
	if exeDir, err := ExecutableDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(exeDir, path),
			filepath.Join(exeDir, "data", path),
		)
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			log.Debugf("Resolved %s to %s", path, candidate)
			return candidate
		}
	}
	return path
}

// ExecutableDir returns the directory of the running binary with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
