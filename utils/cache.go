package utils

import (
	"os"
)

// GetCacheDir creates a private scratch directory under the system temp dir.
func GetCacheDir() (string, error) {
	return os.MkdirTemp("", "klinedata-")
}
