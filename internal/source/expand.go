// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-zglob"

	"github.com/tfctl/csvfilter/internal/log"
)

// ExpandFunc turns a descriptor path into the ordered list of local files
// backing it. Literal paths expand to themselves.
type ExpandFunc func(pattern string) ([]string, error)

// LocalExpand expands pattern against the local filesystem. filepath.Glob
// cannot treat ** as any number of directories, so zglob walks the tree.
// zglob only walks for * and {}, so ? and [..] are widened to * for the walk
// and every candidate is then matched segment by segment with filepath.Match.
// Matches are sorted so that iteration order is stable across platforms, and
// directories are dropped. No matches is not an error.
func LocalExpand(pattern string) ([]string, error) {
	if !IsGlob(pattern) {
		return []string{pattern}, nil
	}

	segments := splitSegments(pattern)
	for _, seg := range segments {
		if _, err := filepath.Match(seg, ""); err != nil {
			return nil, &OpenError{Path: pattern, Err: err}
		}
	}

	matches, err := zglob.Glob(widen(pattern))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debugf("glob matched nothing: pattern=%s", pattern)
			return nil, nil
		}
		return nil, &OpenError{Path: pattern, Err: err}
	}

	files := matches[:0]
	for _, m := range matches {
		if !matchSegments(segments, splitSegments(m)) {
			continue
		}
		if fi, err := os.Stat(m); err == nil && fi.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)

	log.Debugf("glob expanded: pattern=%s matches=%d", pattern, len(files))
	return files, nil
}

// widen replaces ? and [..] with *, leaving an unterminated [ alone.
func widen(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '?':
			b.WriteByte('*')
		case '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteByte('*')
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func splitSegments(p string) []string {
	return strings.Split(path.Clean(filepath.ToSlash(p)), "/")
}

// matchSegments matches name against pattern one path segment at a time. A
// ** segment matches any number of segments, including none.
func matchSegments(pattern, name []string) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(name); i++ {
			if matchSegments(pattern[1:], name[i:]) {
				return true
			}
		}
		return false
	}
	if len(name) == 0 {
		return false
	}
	if ok, err := filepath.Match(pattern[0], name[0]); err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], name[1:])
}

// ReadHeader returns the first line of the file at path including its line
// terminator. An empty file yields an empty line.
func ReadHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return line, nil
}
