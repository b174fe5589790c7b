// Package gitrepo adapts a git repository, through go-git, to the staged
// file and configuration interfaces the gate consumes.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/mitchellh/go-homedir"
)

var (
	// ErrNotRepository indicates the path is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")

	// ErrInvalidKey indicates a config key without a section and a name.
	ErrInvalidKey = errors.New("invalid git config key")
)

// Repo is an open repository with a work tree.
type Repo struct {
	repo *git.Repository
	root string
	idx  *index.Index
}

// Open finds the repository containing path, searching parent directories.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no work tree", ErrNotRepository, path)
	}
	return &Repo{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the work tree root.
func (r *Repo) Root() string {
	return r.root
}

// ListStaged returns index entries whose content differs from HEAD: added,
// modified, renamed and copied files. Deletions and submodules are not
// listed. Before the first commit every index entry counts as staged.
func (r *Repo) ListStaged(ctx context.Context) ([]string, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	r.idx = idx

	head, err := r.headTree()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(idx.Entries))
	var staged []string
	for _, e := range idx.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.Mode == filemode.Submodule {
			continue
		}
		if _, dup := seen[e.Name]; dup {
			continue
		}
		seen[e.Name] = struct{}{}
		if head != nil {
			if f, err := head.File(e.Name); err == nil && f.Hash == e.Hash && f.Mode == e.Mode {
				continue
			}
		}
		staged = append(staged, e.Name)
	}
	return staged, nil
}

func (r *Repo) headTree() (*object.Tree, error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading HEAD tree: %w", err)
	}
	return tree, nil
}

// Open returns the staged blob for path.
func (r *Repo) Open(_ context.Context, path string) (io.ReadCloser, error) {
	if r.idx == nil {
		idx, err := r.repo.Storer.Index()
		if err != nil {
			return nil, fmt.Errorf("reading index: %w", err)
		}
		r.idx = idx
	}
	entry, err := r.idx.Entry(path)
	if err != nil {
		return nil, fmt.Errorf("index entry %s: %w", path, err)
	}
	blob, err := r.repo.BlobObject(entry.Hash)
	if err != nil {
		return nil, fmt.Errorf("staged blob %s: %w", path, err)
	}
	return blob.Reader()
}

// Get reads a key such as "hooks.gitleaks.enable" from the repository's
// local config. ok is false when the key is not set.
func (r *Repo) Get(key string) (string, bool, error) {
	section, subsection, name, err := splitKey(key)
	if err != nil {
		return "", false, err
	}
	cfg, err := r.repo.Config()
	if err != nil {
		return "", false, fmt.Errorf("reading git config: %w", err)
	}
	if !cfg.Raw.HasSection(section) {
		return "", false, nil
	}
	s := cfg.Raw.Section(section)
	if subsection == "" {
		if !s.HasOption(name) {
			return "", false, nil
		}
		return s.Option(name), true, nil
	}
	if !s.HasSubsection(subsection) {
		return "", false, nil
	}
	ss := s.Subsection(subsection)
	if !ss.HasOption(name) {
		return "", false, nil
	}
	return ss.Option(name), true, nil
}

// Set writes key to the repository's local config.
func (r *Repo) Set(key, value string) error {
	section, subsection, name, err := splitKey(key)
	if err != nil {
		return err
	}
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("reading git config: %w", err)
	}
	cfg.Raw.SetOption(section, subsection, name, value)
	if err := r.repo.Storer.SetConfig(cfg); err != nil {
		return fmt.Errorf("writing git config: %w", err)
	}
	return nil
}

// splitKey splits "section.sub.section.name" the way git does: the first
// dot ends the section, the last dot starts the name.
func splitKey(key string) (section, subsection, name string, err error) {
	first := strings.Index(key, ".")
	last := strings.LastIndex(key, ".")
	if first <= 0 || last == len(key)-1 {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	section = key[:first]
	name = key[last+1:]
	if last > first {
		subsection = key[first+1 : last]
	}
	return section, subsection, name, nil
}

// HooksDir returns the directory git runs hooks from: core.hooksPath when
// set, resolved against the work tree, else the hooks directory of the git
// dir.
func (r *Repo) HooksDir() (string, error) {
	custom, ok, err := r.Get("core.hooksPath")
	if err != nil {
		return "", err
	}
	if ok && strings.TrimSpace(custom) != "" {
		dir, err := homedir.Expand(strings.TrimSpace(custom))
		if err != nil {
			return "", fmt.Errorf("expanding core.hooksPath: %w", err)
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.root, dir)
		}
		return dir, nil
	}
	if fs, ok := r.repo.Storer.(*filesystem.Storage); ok {
		return filepath.Join(fs.Filesystem().Root(), "hooks"), nil
	}
	return filepath.Join(r.root, git.GitDirName, "hooks"), nil
}
