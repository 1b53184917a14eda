package fileutils

import "os"

// FileExists checks if a file exsists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// IsDir checks if the path exists and is a directory
func IsDir(filename string) bool {
	f, err := os.Stat(filename)
	return err == nil && f.IsDir()
}
