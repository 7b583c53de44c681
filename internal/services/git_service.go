package services

import (
	"bytes"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitService reads unified diffs out of local repositories so the pipeline
// can run without the caller shelling out to git.
type GitService struct {
}

func NewGitService() *GitService {
	return &GitService{}
}

// Open an existing repo
func (g *GitService) Open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// ValidateRepository checks if the given path is a valid git repository
func (g *GitService) ValidateRepository(repoPath string) error {
	if repoPath == "" {
		return fmt.Errorf("repository path cannot be empty")
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("not a valid git repository: %w", err)
	}

	_, err = repo.Head()
	if err != nil {
		return fmt.Errorf("repository is in an invalid state: %w", err)
	}

	return nil
}

// LatestCommit returns the HEAD commit hash for the given repository path
func (g *GitService) LatestCommit(repoPath string) (string, error) {
	if repoPath == "" {
		return "", fmt.Errorf("repository path cannot be empty")
	}

	if err := g.ValidateRepository(repoPath); err != nil {
		return "", fmt.Errorf("invalid repository: %w", err)
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", repoPath, err)
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	return ref.Hash().String(), nil
}

// DiffBetweenCommits returns the patch (diff) between two commits by their hashes.
func (g *GitService) DiffBetweenCommits(repo *git.Repository, hash1, hash2 string) (string, error) {
	commit1, err := repo.CommitObject(plumbing.NewHash(hash1))
	if err != nil {
		return "", fmt.Errorf("failed to get commit1: %w", err)
	}
	commit2, err := repo.CommitObject(plumbing.NewHash(hash2))
	if err != nil {
		return "", fmt.Errorf("failed to get commit2: %w", err)
	}

	return encodePatch(commit1, commit2)
}

// HeadDiff returns the patch introduced by the HEAD commit relative to its
// first parent.
func (g *GitService) HeadDiff(repoPath string) (string, error) {
	repo, err := g.Open(repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", repoPath, err)
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	head, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD commit: %w", err)
	}

	if head.NumParents() == 0 {
		return "", fmt.Errorf("HEAD is a root commit with no parent to diff against")
	}

	parent, err := head.Parent(0)
	if err != nil {
		return "", fmt.Errorf("failed to get parent commit: %w", err)
	}

	return encodePatch(parent, head)
}

func encodePatch(from, to *object.Commit) (string, error) {
	fromTree, err := from.Tree()
	if err != nil {
		return "", fmt.Errorf("failed to get tree for %s: %w", from.Hash, err)
	}
	toTree, err := to.Tree()
	if err != nil {
		return "", fmt.Errorf("failed to get tree for %s: %w", to.Hash, err)
	}

	patch, err := fromTree.Patch(toTree)
	if err != nil {
		return "", fmt.Errorf("failed to get patch: %w", err)
	}

	var buf bytes.Buffer
	if err := patch.Encode(&buf); err != nil {
		return "", fmt.Errorf("failed to encode patch: %w", err)
	}
	return buf.String(), nil
}
