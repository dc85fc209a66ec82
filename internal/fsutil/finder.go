// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindInstanceFiles recursively searches the given root path for all files
// ending with the specified extension and returns their full paths in
// lexicographic order, so a batch always processes instances in the same
// sequence.
//
// startFrom, when non-empty, names the base name of the first file to keep;
// everything sorting before it is skipped. A startFrom that matches no file
// is an error rather than a silent empty result.
func FindInstanceFiles(rootPath, extension, startFrom string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	if startFrom == "" {
		return files, nil
	}
	for i, f := range files {
		if filepath.Base(f) == startFrom {
			return files[i:], nil
		}
	}
	return nil, fmt.Errorf("start file %q not found under %s", startFrom, rootPath)
}
