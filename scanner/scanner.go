// Package scanner walks a directory tree and collects the files to lint,
// honoring the root .gitignore when one exists.
package scanner

import (
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
	matcher    *ignore.GitIgnore
}

func New(rootDir string, extensions ...string) *Scanner {
	s := &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
	if matcher, err := ignore.CompileIgnoreFile(filepath.Join(rootDir, ".gitignore")); err == nil {
		s.matcher = matcher
	}
	return s
}

func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path == s.rootDir {
				return nil
			}
			if info.Name() == ".git" || s.isIgnored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isTargetFile(path) && !s.isIgnored(path, false) {
			files = append(files, FileInfo{
				Path: path,
				Size: info.Size(),
			})
		}
		return nil
	})

	return files, err
}

func (s *Scanner) isIgnored(path string, isDir bool) bool {
	if s.matcher == nil {
		return false
	}

	rel, err := filepath.Rel(s.rootDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	if isDir {
		// directory-only patterns such as "vendor/" need the trailing slash
		return s.matcher.MatchesPath(rel) || s.matcher.MatchesPath(rel+"/")
	}
	return s.matcher.MatchesPath(rel)
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
