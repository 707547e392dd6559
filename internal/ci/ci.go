// Package ci reads the revision a CI job is checking from the variables CI
// providers export.
package ci

import (
	"net/url"
	"os"
	"strings"
)

// Kind represents the type of CI.
type Kind int

const (
	KindUnknown Kind = iota
	KindGitHub
	KindGitLab
	KindBitbucket
)

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// Environment describes the checked-out revision.
type Environment struct {
	Kind          Kind
	CommitHash    string // tip commit that triggered the job
	Reference     string // fully qualified ref, e.g. refs/heads/main
	ReferenceName string // short ref or branch name
	RepositoryURL string // web URL of the repository
}

// String returns the human-readable string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindGitHub:
		return "github"
	case KindGitLab:
		return "gitlab"
	case KindBitbucket:
		return "bitbucket"
	default:
		return "unknown"
	}
}

// Detect reads the CI environment of the current process. The second result
// is false outside a recognised CI provider.
func Detect() (Environment, bool) {
	return DetectWithLookup(os.Getenv)
}

// DetectWithLookup is Detect with a custom variable source.
func DetectWithLookup(lookup LookupFunc) (Environment, bool) {
	if lookup == nil {
		lookup = os.Getenv
	}

	switch detectKind(lookup) {
	case KindGitHub:
		return gitHubEnvironment(lookup), true
	case KindGitLab:
		return gitLabEnvironment(lookup), true
	case KindBitbucket:
		return bitbucketEnvironment(lookup), true
	default:
		return Environment{}, false
	}
}

func detectKind(lookup LookupFunc) Kind {
	if lookup("GITHUB_REPOSITORY") != "" || lookup("GITHUB_SHA") != "" {
		return KindGitHub
	}
	if strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "" {
		return KindGitLab
	}
	if lookup("BITBUCKET_WORKSPACE") != "" || lookup("BITBUCKET_REPO_SLUG") != "" {
		return KindBitbucket
	}
	return KindUnknown
}

// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
func gitHubEnvironment(lookup LookupFunc) Environment {
	env := Environment{
		Kind:          KindGitHub,
		CommitHash:    lookup("GITHUB_SHA"),
		Reference:     lookup("GITHUB_REF"),
		ReferenceName: lookup("GITHUB_REF_NAME"),
	}
	if server, repo := lookup("GITHUB_SERVER_URL"), lookup("GITHUB_REPOSITORY"); server != "" && repo != "" {
		env.RepositoryURL = strings.TrimSuffix(server, "/") + "/" + repo
	}
	return env
}

// See https://docs.gitlab.com/ci/variables/predefined_variables/.
func gitLabEnvironment(lookup LookupFunc) Environment {
	env := Environment{
		Kind:          KindGitLab,
		CommitHash:    lookup("CI_COMMIT_SHA"),
		RepositoryURL: lookup("CI_PROJECT_URL"),
	}

	switch {
	case lookup("CI_COMMIT_TAG") != "":
		env.ReferenceName = lookup("CI_COMMIT_TAG")
		env.Reference = "refs/tags/" + env.ReferenceName
	case lookup("CI_MERGE_REQUEST_REF_PATH") != "":
		env.Reference = lookup("CI_MERGE_REQUEST_REF_PATH")
		env.ReferenceName = lookup("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME")
	case lookup("CI_COMMIT_REF_NAME") != "":
		env.ReferenceName = lookup("CI_COMMIT_REF_NAME")
		env.Reference = "refs/heads/" + env.ReferenceName
	}
	return env
}

// See https://support.atlassian.com/bitbucket-cloud/docs/variables-and-secrets/.
func bitbucketEnvironment(lookup LookupFunc) Environment {
	env := Environment{
		Kind:       KindBitbucket,
		CommitHash: lookup("BITBUCKET_COMMIT"),
	}

	switch {
	case lookup("BITBUCKET_TAG") != "":
		env.ReferenceName = lookup("BITBUCKET_TAG")
		env.Reference = "refs/tags/" + env.ReferenceName
	case lookup("BITBUCKET_BRANCH") != "":
		env.ReferenceName = lookup("BITBUCKET_BRANCH")
		env.Reference = "refs/heads/" + env.ReferenceName
	case lookup("BITBUCKET_PR_ID") != "":
		env.ReferenceName = lookup("BITBUCKET_PR_ID")
		env.Reference = "refs/pull/" + env.ReferenceName
	}

	if origin := lookup("BITBUCKET_GIT_HTTP_ORIGIN"); origin != "" {
		if u, err := url.Parse(origin); err == nil && u.Scheme != "" && u.Host != "" {
			env.RepositoryURL = origin
		}
	}
	return env
}
