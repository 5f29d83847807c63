package versioning

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

const defaultIgnore = ".index/\n.vectors/\n*.tmp\n"

// Store is a thread-safe wrapper over the system git binary, serialising
// mutating operations per repository path.
type Store struct {
	locks sync.Map // absolute path -> *sync.Mutex
}

// New returns a ready-to-use Store.
func New() *Store {
	return &Store{}
}

func (s *Store) lockFor(path string) *sync.Mutex {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	v, _ := s.locks.LoadOrStore(abs, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *Store) withLock(path string, fn func() error) error {
	mu := s.lockFor(path)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// run executes git with args in dir, returning trimmed stdout. Non-zero
// exit is reported as a *GitError carrying op, args, and captured stderr.
func run(ctx context.Context, op, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &GitError{Op: op, Args: args, Stderr: stderr.String(), Err: err}
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}

func isRepo(ctx context.Context, dir string) bool {
	_, err := run(ctx, "rev-parse", dir, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// Open initialises a repository at path if one does not already exist,
// seeding a default ignore list and an initial commit that records it. If path
// already contains a repository, Open only verifies readability.
func (s *Store) Open(ctx context.Context, path string) error {
	return s.withLock(path, func() error {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrNotRepository, path, err)
		}
		if isRepo(ctx, path) {
			return nil
		}
		if _, err := run(ctx, "init", path, "init"); err != nil {
			return err
		}
		ignorePath := filepath.Join(path, ".gitignore")
		if _, err := os.Stat(ignorePath); os.IsNotExist(err) {
			if err := os.WriteFile(ignorePath, []byte(defaultIgnore), 0644); err != nil {
				return fmt.Errorf("write .gitignore: %w", err)
			}
		}
		if _, err := run(ctx, "stage", path, "add", ".gitignore"); err != nil {
			return err
		}
		if _, err := run(ctx, "commit", path, "commit", "--allow-empty", "-m", "Initial commit"); err != nil {
			return err
		}
		return nil
	})
}

// Status reports the working tree state.
func (s *Store) Status(ctx context.Context, path string) (Status, error) {
	if !isRepo(ctx, path) {
		return Status{}, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}

	branch, err := run(ctx, "branch", path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return Status{}, err
	}

	porcelain, err := run(ctx, "status", path, "status", "--porcelain=v1")
	if err != nil {
		return Status{}, err
	}

	st := Status{CurrentBranch: branch}
	for _, line := range strings.Split(porcelain, "\n") {
		if line == "" {
			continue
		}
		code := line[:2]
		file := strings.TrimSpace(line[2:])
		switch {
		case code == "??":
			st.Untracked = append(st.Untracked, file)
		case code[0] != ' ' && code[0] != '?':
			st.Staged = append(st.Staged, file)
		case code[1] != ' ':
			st.Unstaged = append(st.Unstaged, file)
		}
	}
	st.Clean = len(st.Staged) == 0 && len(st.Unstaged) == 0 && len(st.Untracked) == 0
	return st, nil
}

// Stage adds the given relative paths to the staging area.
func (s *Store) Stage(ctx context.Context, path string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	return s.withLock(path, func() error {
		args := append([]string{"add", "--"}, files...)
		_, err := run(ctx, "stage", path, args...)
		return err
	})
}

// Commit records the staged changes as a new revision and returns its id.
func (s *Store) Commit(ctx context.Context, path, message string, opts *CommitOptions) (string, error) {
	var id string
	err := s.withLock(path, func() error {
		staged, err := run(ctx, "diff", path, "diff", "--cached", "--name-only")
		if err != nil {
			return err
		}
		if strings.TrimSpace(staged) == "" {
			return ErrNothingStaged
		}

		args := []string{"commit", "-m", message}
		if opts != nil && opts.Author != "" {
			email := opts.Email
			args = append(args, "--author", fmt.Sprintf("%s <%s>", opts.Author, email))
		}
		if _, err := run(ctx, "commit", path, args...); err != nil {
			return err
		}
		rev, err := run(ctx, "rev-parse", path, "rev-parse", "HEAD")
		if err != nil {
			return err
		}
		id = rev
		return nil
	})
	return id, err
}

// BatchCommit stages and commits each group of files in order, returning
// one revision id per non-empty group. A mid-sequence failure leaves
// earlier commits durable and returns the partial id list alongside the
// error. template is used as a fmt.Sprintf format string with the
// (1-based) group index; if it contains no verb it is used as a literal
// prefix.
func (s *Store) BatchCommit(ctx context.Context, path string, groups [][]string, template string) ([]string, error) {
	ids := make([]string, 0, len(groups))
	for i, group := range groups {
		if len(group) == 0 {
			continue
		}
		if err := s.Stage(ctx, path, group); err != nil {
			return ids, fmt.Errorf("batch commit group %d: %w", i+1, err)
		}
		msg := batchMessage(template, i+1)
		id, err := s.Commit(ctx, path, msg, nil)
		if err != nil {
			return ids, fmt.Errorf("batch commit group %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func batchMessage(template string, index int) string {
	if strings.Contains(template, "%") {
		return fmt.Sprintf(template, index)
	}
	return fmt.Sprintf("%s (group %d)", template, index)
}

// Reset empties the staging area without discarding working tree changes.
func (s *Store) Reset(ctx context.Context, path string) error {
	return s.withLock(path, func() error {
		_, err := run(ctx, "reset", path, "reset")
		return err
	})
}

// Log returns the newest-first revision history, optionally scoped to a
// single file, limited to n entries (n <= 0 means unlimited).
func (s *Store) Log(ctx context.Context, path string, n int, file string) ([]LogEntry, error) {
	const sep = "\x1f"
	args := []string{"log", "--date=iso-strict", "--pretty=format:%H" + sep + "%an <%ae>" + sep + "%ad" + sep + "%s"}
	if n > 0 {
		args = append(args, fmt.Sprintf("-n%d", n))
	}
	if file != "" {
		args = append(args, "--", file)
	}
	out, err := run(ctx, "log", path, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	var entries []LogEntry
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, sep, 4)
		if len(parts) != 4 {
			continue
		}
		entries = append(entries, LogEntry{ID: parts[0], Author: parts[1], Date: parts[2], Message: parts[3]})
	}
	return entries, nil
}

// Diff returns the textual patch of file (or the whole tree if file is
// empty) between target (default HEAD) and the working tree.
func (s *Store) Diff(ctx context.Context, path, file, target string) (string, error) {
	if target == "" {
		target = "HEAD"
	}
	args := []string{"diff", target}
	if file != "" {
		args = append(args, "--", file)
	}
	return run(ctx, "diff", path, args...)
}

// Show returns file's content at the given revision.
func (s *Store) Show(ctx context.Context, path, file, revision string) (string, error) {
	return run(ctx, "show", path, "show", fmt.Sprintf("%s:%s", revision, file))
}

// Restore writes file's content at revision back into the working tree
// without creating a new commit.
func (s *Store) Restore(ctx context.Context, path, file, revision string) error {
	return s.withLock(path, func() error {
		_, err := run(ctx, "restore", path, "checkout", revision, "--", file)
		return err
	})
}

// CreateBranch creates a new branch at the current HEAD.
func (s *Store) CreateBranch(ctx context.Context, path, name string) error {
	return s.withLock(path, func() error {
		_, err := run(ctx, "create_branch", path, "branch", name)
		return err
	})
}

// Checkout switches the working tree to ref.
func (s *Store) Checkout(ctx context.Context, path, ref string) error {
	return s.withLock(path, func() error {
		_, err := run(ctx, "checkout", path, "checkout", ref)
		return err
	})
}

// Clone clones src into dst.
func (s *Store) Clone(ctx context.Context, src, dst string) error {
	_, err := run(ctx, "clone", filepath.Dir(dst), "clone", src, dst)
	return err
}

// Remove stages the removal of a path (does not commit).
func (s *Store) Remove(ctx context.Context, path, file string) error {
	return s.withLock(path, func() error {
		_, err := run(ctx, "remove", path, "rm", "--", file)
		return err
	})
}

// Tag creates a tag at the current HEAD: annotated when message is
// non-empty, lightweight otherwise.
func (s *Store) Tag(ctx context.Context, path, name, message string) error {
	return s.withLock(path, func() error {
		args := []string{"tag"}
		if message != "" {
			args = append(args, "-a", name, "-m", message)
		} else {
			args = append(args, name)
		}
		_, err := run(ctx, "tag", path, args...)
		return err
	})
}

// ListTags returns all tags in the repository.
func (s *Store) ListTags(ctx context.Context, path string) ([]string, error) {
	out, err := run(ctx, "list_tags", path, "tag", "--list")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// RevisionExists reports whether revision resolves to a real object.
func (s *Store) RevisionExists(ctx context.Context, path, revision string) bool {
	_, err := run(ctx, "cat-file", path, "cat-file", "-e", revision)
	return err == nil
}

// commitCount returns the number of commits reachable from HEAD that touch
// file, used by callers that need a cheap revision count without decoding
// the full log.
func (s *Store) commitCount(ctx context.Context, path, file string) (int, error) {
	args := []string{"rev-list", "--count", "HEAD"}
	if file != "" {
		args = append(args, "--", file)
	}
	out, err := run(ctx, "rev-list", path, args...)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(out)
}
