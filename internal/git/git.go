// Package git implements the version-control steps of a release on top of
// go-git: the pending-changes preflight, branch sync, commit, tag and push.
// No git binary is required and repository hooks never run.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// DefaultRemote is the remote pulled from and pushed to.
const DefaultRemote = "origin"

// DefaultNetworkTimeout bounds a single pull or push.
const DefaultNetworkTimeout = 60 * time.Second

// ErrNoIdentity is returned when no author is configured for commits and tags.
var ErrNoIdentity = errors.New("no git identity configured, set user.name and user.email")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Error is a failed version-control operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("git %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsError reports whether err came from a version-control operation.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Repository is an opened working copy.
type Repository struct {
	repo   *git.Repository
	root   string
	remote string
	// Author overrides the identity read from git config.
	Author *object.Signature
	now    func() time.Time
}

// Open opens the repository containing path, walking up to find .git.
// If path is empty, the current working directory is used.
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, wrap("open", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, wrap("open", fmt.Errorf("getting worktree: %w", err))
	}
	return &Repository{
		repo:   repo,
		root:   wt.Filesystem.Root(),
		remote: DefaultRemote,
		now:    time.Now,
	}, nil
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// Root returns the absolute path of the working tree.
func (r *Repository) Root() string {
	return r.root
}

// CurrentBranch returns the checked out branch, or "" on a detached HEAD.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", wrap("head", err)
	}
	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}
	return head.Name().Short(), nil
}

// PendingChanges lists every modified, staged or untracked path in
// porcelain form ("XY path"), sorted by path.
func (r *Repository) PendingChanges() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, wrap("status", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, wrap("status", err)
	}

	paths := make([]string, 0, len(status))
	for path, st := range status {
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)

	lines := make([]string, 0, len(paths))
	for _, path := range paths {
		st := status[path]
		lines = append(lines, fmt.Sprintf("%c%c %s", st.Staging, st.Worktree, path))
	}
	logDebug("[git] PendingChanges: %d paths", len(lines))
	return lines, nil
}

// Sync checks out branch and, when the remote exists, pulls it.
func (r *Repository) Sync(ctx context.Context, branch string) error {
	if branch != "" {
		if err := r.checkout(branch); err != nil {
			return err
		}
	}

	remote, err := r.repo.Remote(r.remote)
	if errors.Is(err, git.ErrRemoteNotFound) {
		logDebug("[git] Sync: no remote %q, skipping pull", r.remote)
		return nil
	}
	if err != nil {
		return wrap("pull", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return wrap("pull", err)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultNetworkTimeout)
	defer cancel()

	opts := &git.PullOptions{
		RemoteName: r.remote,
		Auth:       getAuthForURL(firstURL(remote)),
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}
	err = wt.PullContext(ctx, opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return wrap("pull", err)
}

func (r *Repository) checkout(branch string) error {
	current, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	if current == branch {
		return nil
	}

	ref := plumbing.NewBranchReferenceName(branch)
	if _, err := r.repo.Reference(ref, false); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return wrap("checkout", fmt.Errorf("branch '%s' not found", branch))
		}
		return wrap("checkout", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return wrap("checkout", err)
	}
	// Keep preserves untracked files during checkout
	if err := wt.Checkout(&git.CheckoutOptions{Branch: ref, Keep: true}); err != nil {
		return wrap("checkout", fmt.Errorf("checking out '%s': %w", branch, err))
	}
	logDebug("[git] checked out %s", branch)
	return nil
}

// CommitAll stages every change in the working tree and commits it.
func (r *Repository) CommitAll(message string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return wrap("commit", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return wrap("add", err)
	}

	sig, err := r.signature()
	if err != nil {
		return wrap("commit", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return wrap("commit", err)
	}
	logDebug("[git] committed %s: %s", hash, message)
	return nil
}

// Tag creates an annotated tag at HEAD.
func (r *Repository) Tag(name, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return wrap("tag", err)
	}
	sig, err := r.signature()
	if err != nil {
		return wrap("tag", err)
	}
	_, err = r.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Tagger:  sig,
		Message: message,
	})
	if err != nil {
		return wrap("tag", fmt.Errorf("creating tag '%s': %w", name, err))
	}
	logDebug("[git] tagged %s at %s", name, head.Hash())
	return nil
}

// Push pushes the current branch to the remote.
func (r *Repository) Push(ctx context.Context) error {
	branch, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	if branch == "" {
		return wrap("push", errors.New("cannot push from a detached HEAD"))
	}
	ref := plumbing.NewBranchReferenceName(branch)
	return r.push(ctx, "push", config.RefSpec(ref.String()+":"+ref.String()))
}

// PushTag pushes a single tag to the remote.
func (r *Repository) PushTag(ctx context.Context, name string) error {
	ref := plumbing.NewTagReferenceName(name)
	return r.push(ctx, "push tag", config.RefSpec(ref.String()+":"+ref.String()))
}

func (r *Repository) push(ctx context.Context, op string, spec config.RefSpec) error {
	remote, err := r.repo.Remote(r.remote)
	if err != nil {
		return wrap(op, fmt.Errorf("remote '%s': %w", r.remote, err))
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultNetworkTimeout)
	defer cancel()

	logDebug("[git] pushing %s to %s", spec, r.remote)
	err = r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: r.remote,
		RefSpecs:   []config.RefSpec{spec},
		Auth:       getAuthForURL(firstURL(remote)),
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return wrap(op, err)
}

// Identity returns the name and email commits and tags are made with.
func (r *Repository) Identity() (name, email string, err error) {
	sig, err := r.signature()
	if err != nil {
		return "", "", err
	}
	return sig.Name, sig.Email, nil
}

// RemoteURL returns the first URL of the release remote, or "" when the
// remote is not configured.
func (r *Repository) RemoteURL() (string, error) {
	remote, err := r.repo.Remote(r.remote)
	if errors.Is(err, git.ErrRemoteNotFound) {
		return "", nil
	}
	if err != nil {
		return "", wrap("remote", err)
	}
	return firstURL(remote), nil
}

// signature returns the configured identity stamped with the current time.
func (r *Repository) signature() (*object.Signature, error) {
	if r.Author != nil {
		sig := *r.Author
		sig.When = r.now()
		return &sig, nil
	}

	cfg, err := r.repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return nil, fmt.Errorf("reading git config: %w", err)
	}
	name, email := cfg.User.Name, cfg.User.Email
	if cfg.Author.Name != "" {
		name = cfg.Author.Name
	}
	if cfg.Author.Email != "" {
		email = cfg.Author.Email
	}
	if name == "" || email == "" {
		return nil, ErrNoIdentity
	}
	return &object.Signature{Name: name, Email: email, When: r.now()}, nil
}

func firstURL(remote *git.Remote) string {
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		if !isSSHAgentAvailable() {
			logDebug("[git] no SSH agent available for %s", url)
			return nil
		}
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = "" // GitHub token can be used as username with empty password
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}

	return nil
}

// isSSHURL detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// isSSHAgentAvailable returns true only if SSH_AUTH_SOCK is set and non-empty.
func isSSHAgentAvailable() bool {
	sock := strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK"))
	return sock != ""
}
