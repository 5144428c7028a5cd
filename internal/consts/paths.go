package consts

import (
	"os"
	"path/filepath"
)

const (
	MidoriDirName  = ".midori"
	ConfigFileName = "config.yaml"
)

func MidoriHomeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, MidoriDirName)
}

func DefaultConfigPath() string {
	return filepath.Join(MidoriHomeDir(), ConfigFileName)
}
