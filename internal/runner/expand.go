package runner

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Expand resolves the command line paths to the list of files to lint.
// Files named directly are always kept. Directories are walked for files
// with one of exts, skipping hidden directories and anything matching an
// exclude pattern. The result is sorted and free of duplicates.
func Expand(paths, exts, exclude []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(p, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(p, name)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if name != p && (strings.HasPrefix(d.Name(), ".") || excluded(rel, exclude)) {
					return filepath.SkipDir
				}
				return nil
			}

			if hasExt(name, exts) && !excluded(rel, exclude) {
				files = append(files, name)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return slices.Contains(exts, ext)
}

// excluded matches rel, a slash separated path relative to the walk root,
// against shell patterns. A pattern matches the whole path or its base
// name; a trailing "/**" matches a directory and everything below it.
func excluded(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pat := range patterns {
		pat = strings.TrimSuffix(filepath.ToSlash(pat), "/**")
		if ok, _ := path.Match(pat, rel); ok {
			return true
		}
		if ok, _ := path.Match(pat, base); ok {
			return true
		}
	}
	return false
}
