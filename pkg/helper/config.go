package helper

import (
	"os"
	"path/filepath"
)

// ConfigDirEnv names a directory searched before the working directory
const ConfigDirEnv = "ASSOCMANAGER_CONFIG_DIR"

const systemConfigDir = "/etc/assocmanager"

// GetCfgPath resolves a configuration filename.
//
// Priority:
// 1. An absolute filename is returned as is.
// 2. $ASSOCMANAGER_CONFIG_DIR/{filename}, ./{filename}, ./configs/{filename}, first hit wins.
// 3. Otherwise /etc/assocmanager/{filename}.
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}
	if filepath.IsAbs(filename) {
		return filename
	}

	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if abs, err := filepath.Abs(candidate); err == nil {
			return abs
		}
	}
	return filepath.Join(systemConfigDir, filename)
}

func searchDirs() []string {
	var dirs []string
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		dirs = append(dirs, dir)
	}
	if wd, err := os.Getwd(); err == nil && wd != "" {
		dirs = append(dirs, wd, filepath.Join(wd, "configs"))
	}
	return dirs
}
