package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/unicode/norm"
)

// readBatch bounds how many names are pulled from the directory handle before
// the cancellation signal is consulted again.
const readBatch = 256

// Replaced in tests to simulate entries and handles that fail mid-listing.
var (
	entryInfo    = func(d os.DirEntry) (os.FileInfo, error) { return d.Info() }
	readDirBatch = func(f *os.File, n int) ([]os.DirEntry, error) { return f.ReadDir(n) }
)

// Entry represents a single file or directory on disk.
type Entry struct {
	Name      string
	FullPath  string
	IsDir     bool
	IsSymlink bool
	Hidden    bool
	Size      int64
	Modified  time.Time
	Mode      os.FileMode
}

// EntryError records a directory entry whose metadata could not be read.
type EntryError struct {
	Name string
	Path string
	Err  error
}

func (e EntryError) Error() string {
	return "stat " + e.Path + ": " + e.Err.Error()
}

func (e EntryError) Unwrap() error {
	return e.Err
}

// IsHidden reports whether name/fullPath should be treated as hidden: a dot
// prefix on every platform, plus the filesystem hidden attribute where one exists.
func IsHidden(fullPath, name string) bool {
	if len(name) > 0 && name[0] == '.' && name != "." && name != ".." {
		return true
	}
	return hasHiddenAttribute(fullPath, name)
}

// IsRoot reports whether dir has no parent directory.
func IsRoot(dir string) bool {
	clean := filepath.Clean(dir)
	return filepath.Dir(clean) == clean
}

// ReadDir lists dir and resolves metadata for every entry. The context is
// checked before each stat call, so a cancelled listing returns ctx.Err()
// after at most one more entry. Entries whose metadata cannot be read are
// reported in skipped and left out of the result.
func ReadDir(ctx context.Context, dir string) (entries []Entry, skipped []EntryError, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	for {
		batch, readErr := readDirBatch(f, readBatch)
		for _, d := range batch {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}

			rawName := d.Name()
			fullPath := filepath.Join(dir, rawName)
			if NeverList(fullPath, rawName) {
				continue
			}

			entry, statErr := statEntry(d, fullPath)
			if statErr != nil {
				skipped = append(skipped, EntryError{Name: rawName, Path: fullPath, Err: statErr})
				continue
			}
			entries = append(entries, entry)
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			if len(batch) == 0 && len(entries) == 0 && len(skipped) == 0 {
				return nil, nil, readErr
			}
			// A mid-stream read failure behaves like a run of unreadable entries.
			skipped = append(skipped, EntryError{Path: dir, Err: readErr})
			break
		}
		if len(batch) == 0 {
			break
		}
	}

	return entries, skipped, nil
}

func statEntry(d os.DirEntry, fullPath string) (Entry, error) {
	info, err := entryInfo(d)
	if err != nil {
		return Entry{}, err
	}

	rawName := d.Name()
	isDir := d.IsDir()
	isSymlink := info.Mode()&os.ModeSymlink != 0
	if isSymlink {
		// A dangling link stays a file; only a resolvable target can be entered.
		if target, err := os.Stat(fullPath); err == nil {
			isDir = target.IsDir()
		}
	}

	return Entry{
		Name:      norm.NFC.String(rawName),
		FullPath:  fullPath,
		IsDir:     isDir,
		IsSymlink: isSymlink,
		Hidden:    IsHidden(fullPath, rawName),
		Size:      info.Size(),
		Modified:  info.ModTime(),
		Mode:      info.Mode(),
	}, nil
}
