package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/github"
	"golang.org/x/oauth2"
)

var ErrScriptNotFound = errors.New("script not found in repository")

// GitHubService looks up the remote script that AWS-RunRemoteScript will
// download.
type GitHubService struct {
	client *github.Client
}

// NewGitHubClient creates a github client authenticated with the supplied token.
func NewGitHubClient(ctx context.Context, token string) *github.Client {
	tokenService := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return github.NewClient(oauth2.NewClient(ctx, tokenService))
}

func NewGitHubService(client *github.Client) *GitHubService {
	return &GitHubService{
		client: client,
	}
}

// ScriptInfo describes the script file found in the repository
type ScriptInfo struct {
	Path string
	SHA  string
	Size int
}

// GetScript confirms that path names a file in owner/repo.
func (g *GitHubService) GetScript(ctx context.Context, owner, repo, path string) (*ScriptInfo, error) {
	file, dir, resp, err := g.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s/%s/%s", ErrScriptNotFound, owner, repo, path)
		}
		return nil, fmt.Errorf("failed to get contents of %s/%s/%s: %w", owner, repo, path, err)
	}

	if file == nil || dir != nil {
		return nil, fmt.Errorf("%w: %s/%s/%s is a directory", ErrScriptNotFound, owner, repo, path)
	}

	return &ScriptInfo{
		Path: file.GetPath(),
		SHA:  file.GetSHA(),
		Size: file.GetSize(),
	}, nil
}
