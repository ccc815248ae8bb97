package source

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	fsutil "github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/security"
)

const (
	iconDirectory = "▸"
	iconFile      = " "
	iconSymlink   = "↪"
	iconParent    = "↰"
)

var readDir = fsutil.ReadDir

// Options configures a FilesystemSource.
type Options struct {
	ShowHidden bool
	Extensions *ExtensionFilter
	Gate       security.Gate
	Logger     *slog.Logger
}

// FilesystemSource lists the entries of a directory. It is immutable once
// built: toggling an option yields a new source, so a listing already in
// flight keeps the options it started with.
type FilesystemSource struct {
	opts Options
}

// NewFilesystemSource returns a source with the given options. A nil gate
// admits every existing path.
func NewFilesystemSource(opts Options) *FilesystemSource {
	if opts.Gate == nil {
		opts.Gate = security.AllowAll
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &FilesystemSource{opts: opts}
}

// Options returns a copy of the source's options.
func (s *FilesystemSource) Options() Options {
	return s.opts
}

// ShowHidden reports whether hidden entries are listed.
func (s *FilesystemSource) ShowHidden() bool {
	return s.opts.ShowHidden
}

// WithShowHidden returns a copy of s with the hidden flag replaced.
func (s *FilesystemSource) WithShowHidden(show bool) *FilesystemSource {
	opts := s.opts
	opts.ShowHidden = show
	return &FilesystemSource{opts: opts}
}

// List enumerates scope.Path. The result holds a synthetic parent entry
// (unless the directory is a filesystem root) followed by directories and
// files. Entries whose metadata cannot be read are skipped and logged.
func (s *FilesystemSource) List(ctx context.Context, scope Scope) ([]Candidate, error) {
	if scope.Static || scope.Path == "" {
		return nil, &Error{Kind: ScopeInvalid, Path: scope.String(), Err: ErrScopeMismatch}
	}
	dir := filepath.Clean(scope.Path)

	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: Cancelled, Path: dir, Err: err}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &Error{Kind: ScopeInvalid, Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &Error{Kind: ScopeInvalid, Path: dir, Err: ErrNotDirectory}
	}
	if !s.opts.Gate.ValidateAccess(dir, false) {
		return nil, &Error{Kind: ScopeInvalid, Path: dir, Err: ErrAccessDenied}
	}

	entries, skipped, err := readDir(ctx, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &Error{Kind: Cancelled, Path: dir, Err: ctxErr}
		}
		return nil, &Error{Kind: EnumerationFailed, Path: dir, Err: err}
	}
	for _, skip := range skipped {
		s.opts.Logger.Warn("entry skipped",
			"kind", EnumerationPartial.String(),
			"path", skip.Path,
			"err", skip.Err,
		)
	}

	out := make([]Candidate, 0, len(entries)+1)
	if !fsutil.IsRoot(dir) {
		out = append(out, parentCandidate(dir))
	}
	for _, entry := range entries {
		if entry.Hidden && !s.opts.ShowHidden {
			continue
		}
		if !entry.IsDir && !s.opts.Extensions.Allows(entry.Name) {
			continue
		}
		out = append(out, entryCandidate(entry))
	}
	SortListing(out)
	return out, nil
}

func parentCandidate(dir string) Candidate {
	return Candidate{
		Key:   filepath.Dir(dir),
		Label: "..",
		Kind:  KindDirectory,
		Meta: Metadata{
			Parent: true,
			Icon:   iconParent,
			Mode:   os.ModeDir,
		},
	}
}

func entryCandidate(entry fsutil.Entry) Candidate {
	kind := KindFile
	icon := iconFile
	if entry.IsDir {
		kind = KindDirectory
		icon = iconDirectory
	}
	if entry.IsSymlink {
		icon = iconSymlink
	}
	return Candidate{
		Key:   entry.FullPath,
		Label: entry.Name,
		Kind:  kind,
		Meta: Metadata{
			Size:     entry.Size,
			Modified: entry.Modified,
			Mode:     entry.Mode,
			Icon:     icon,
			Hidden:   entry.Hidden,
			Symlink:  entry.IsSymlink,
		},
	}
}
