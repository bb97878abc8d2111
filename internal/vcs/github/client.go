package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/models"
	"github.com/thomas-vilte/devrecap/internal/vcs"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

var _ vcs.VCSClient = (*GitHubClient)(nil)

const (
	perPage         = 100
	maxRepoPages    = 3
	userAffiliation = "owner,collaborator,organization_member"
)

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

type RepositoriesService interface {
	ListByAuthenticatedUser(ctx context.Context, opts *github.RepositoryListByAuthenticatedUserOptions) ([]*github.Repository, *github.Response, error)
	ListByOrg(ctx context.Context, org string, opts *github.RepositoryListByOrgOptions) ([]*github.Repository, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
}

type OrganizationsService interface {
	List(ctx context.Context, user string, opts *github.ListOptions) ([]*github.Organization, *github.Response, error)
}

type TeamsService interface {
	ListTeams(ctx context.Context, org string, opts *github.ListOptions) ([]*github.Team, *github.Response, error)
	ListTeamReposByID(ctx context.Context, orgID, teamID int64, opts *github.ListOptions) ([]*github.Repository, *github.Response, error)
}

type SearchService interface {
	Issues(ctx context.Context, query string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error)
}

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
}

type GitHubClient struct {
	usersService  UsersService
	repoService   RepositoriesService
	orgService    OrganizationsService
	teamService   TeamsService
	searchService SearchService
	prService     PullRequestsService
	httpClient    *http.Client
}

func NewGitHubClient(token string) *GitHubClient {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return &GitHubClient{
		usersService:  client.Users,
		repoService:   client.Repositories,
		orgService:    client.Organizations,
		teamService:   client.Teams,
		searchService: client.Search,
		prService:     client.PullRequests,
		httpClient:    httpClient,
	}
}

func NewGitHubClientWithServices(
	usersService UsersService,
	repoService RepositoriesService,
	orgService OrganizationsService,
	teamService TeamsService,
	searchService SearchService,
	prService PullRequestsService,
) *GitHubClient {
	return &GitHubClient{
		usersService:  usersService,
		repoService:   repoService,
		orgService:    orgService,
		teamService:   teamService,
		searchService: searchService,
		prService:     prService,
		httpClient:    &http.Client{},
	}
}

func (ghc *GitHubClient) GetAuthenticatedUser(ctx context.Context) (models.User, error) {
	user, _, err := ghc.usersService.Get(ctx, "")
	if err != nil {
		apiErr := domainErrors.Normalize(err, "usuario autenticado")
		if apiErr.Kind == domainErrors.KindAuth {
			return models.User{}, domainErrors.ErrGitHubTokenInvalid.
				WithError(apiErr).
				WithContext("operation", "get authenticated user")
		}
		return models.User{}, apiErr
	}

	if user.GetLogin() == "" {
		return models.User{}, domainErrors.ErrGitHubNoLogin
	}

	return models.User{
		Login:     user.GetLogin(),
		Name:      user.GetName(),
		AvatarURL: user.GetAvatarURL(),
	}, nil
}

// DiscoverRepositories unions the user's own listing with every organization
// and team listing it can reach. Organization and team failures only reduce
// coverage. An authorization failure on the user listing falls back to a
// single page requested without affiliation or visibility filters.
func (ghc *GitHubClient) DiscoverRepositories(ctx context.Context) ([]models.Repository, error) {
	log := logger.FromContext(ctx)

	var all []*github.Repository
	for page := 1; page <= maxRepoPages; page++ {
		repos, _, err := ghc.repoService.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
			Visibility:  "all",
			Affiliation: userAffiliation,
			Sort:        "updated",
			ListOptions: github.ListOptions{Page: page, PerPage: perPage},
		})
		if err != nil {
			apiErr := domainErrors.Normalize(err, "listado de repositorios")
			if domainErrors.IsAuth(apiErr) {
				log.Warn("falling back to basic repository listing", "status", apiErr.StatusCode)
				return ghc.basicRepositories(ctx)
			}
			return nil, apiErr
		}
		if len(repos) == 0 {
			break
		}
		all = append(all, repos...)
	}

	all = append(all, ghc.organizationRepositories(ctx, all)...)

	unique := dedupeRepositories(all)
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].UpdatedAt.After(unique[j].UpdatedAt)
	})

	log.Info("repositories discovered", "repos", len(unique))
	return unique, nil
}

func (ghc *GitHubClient) basicRepositories(ctx context.Context) ([]models.Repository, error) {
	repos, _, err := ghc.repoService.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{Page: 1, PerPage: perPage},
	})
	if err != nil {
		return nil, domainErrors.Normalize(err, "listado de repositorios")
	}

	out := make([]models.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, toRepository(r))
	}
	return out, nil
}

func (ghc *GitHubClient) organizationRepositories(ctx context.Context, known []*github.Repository) []*github.Repository {
	log := logger.FromContext(ctx)

	orgs, _, err := ghc.orgService.List(ctx, "", &github.ListOptions{PerPage: perPage})
	if err != nil {
		log.Warn("could not list organizations", "error", domainErrors.Normalize(err, "organizaciones"))
		return nil
	}
	log.Debug("organizations found", "count", len(orgs))

	seen := make(map[int64]struct{}, len(known))
	for _, r := range known {
		seen[r.GetID()] = struct{}{}
	}

	var found []*github.Repository
	merge := func(repos []*github.Repository) int {
		added := 0
		for _, r := range repos {
			if _, ok := seen[r.GetID()]; ok {
				continue
			}
			seen[r.GetID()] = struct{}{}
			found = append(found, r)
			added++
		}
		return added
	}

	for _, org := range orgs {
		repos, _, err := ghc.repoService.ListByOrg(ctx, org.GetLogin(), &github.RepositoryListByOrgOptions{
			Type:        "all",
			Sort:        "updated",
			ListOptions: github.ListOptions{PerPage: perPage},
		})
		if err != nil {
			apiErr := domainErrors.Normalize(err, "repositorios de "+org.GetLogin())
			log.Warn("could not list organization repositories", "org", org.GetLogin(), "status", apiErr.StatusCode)
			if domainErrors.IsNotFound(apiErr) {
				merge(ghc.teamRepositories(ctx, org))
			}
			continue
		}
		if added := merge(repos); added > 0 {
			log.Debug("organization repositories added", "org", org.GetLogin(), "repos", added)
		}
	}

	return found
}

func (ghc *GitHubClient) teamRepositories(ctx context.Context, org *github.Organization) []*github.Repository {
	log := logger.FromContext(ctx)

	teams, _, err := ghc.teamService.ListTeams(ctx, org.GetLogin(), &github.ListOptions{PerPage: perPage})
	if err != nil {
		log.Warn("could not list teams", "org", org.GetLogin(), "error", err)
		return nil
	}

	var repos []*github.Repository
	for _, team := range teams {
		teamRepos, _, err := ghc.teamService.ListTeamReposByID(ctx, org.GetID(), team.GetID(), &github.ListOptions{PerPage: perPage})
		if err != nil {
			log.Warn("could not list team repositories", "team", team.GetName(), "error", err)
			continue
		}
		repos = append(repos, teamRepos...)
	}
	return repos
}

// dedupeRepositories keeps the first position of every ID and the last value
// seen for it.
func dedupeRepositories(repos []*github.Repository) []models.Repository {
	index := make(map[int64]int, len(repos))
	out := make([]models.Repository, 0, len(repos))
	for _, r := range repos {
		repo := toRepository(r)
		if i, ok := index[repo.ID]; ok {
			out[i] = repo
			continue
		}
		index[repo.ID] = len(out)
		out = append(out, repo)
	}
	return out
}

func toRepository(r *github.Repository) models.Repository {
	return models.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Owner:       r.GetOwner().GetLogin(),
		OwnerType:   r.GetOwner().GetType(),
		Description: r.GetDescription(),
		Private:     r.GetPrivate(),
		Fork:        r.GetFork(),
		Language:    r.GetLanguage(),
		HTMLURL:     r.GetHTMLURL(),
		UpdatedAt:   r.GetUpdatedAt().Time,
	}
}

// SearchQuery builds the issue search query for pull requests authored by
// author in repo within the given dates.
func SearchQuery(author, repo string, start, end time.Time) string {
	return fmt.Sprintf("is:pr author:%s repo:%s created:%s..%s",
		author, repo, start.Format(time.DateOnly), end.Format(time.DateOnly))
}

func (ghc *GitHubClient) SearchPullRequests(ctx context.Context, author, repo string, start, end time.Time) ([]models.RawRecord, error) {
	query := SearchQuery(author, repo, start, end)
	logger.FromContext(ctx).Debug("searching pull requests", "query", query)

	result, _, err := ghc.searchService.Issues(ctx, query, &github.SearchOptions{
		Sort:        "created",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, domainErrors.Normalize(err, "búsqueda de PRs")
	}
	if result == nil {
		return []models.RawRecord{}, nil
	}

	return toRecords(result.Issues)
}

// GetPRDetails fetches the pull request, its commits and its files
// concurrently. Any failure fails the whole call.
func (ghc *GitHubClient) GetPRDetails(ctx context.Context, owner, repo string, number int) (models.PRDetails, error) {
	var (
		pr      *github.PullRequest
		commits []*github.RepositoryCommit
		files   []*github.CommitFile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pr, _, err = ghc.prService.Get(gctx, owner, repo, number)
		return err
	})
	g.Go(func() error {
		var err error
		commits, _, err = ghc.prService.ListCommits(gctx, owner, repo, number, &github.ListOptions{PerPage: perPage})
		return err
	})
	g.Go(func() error {
		var err error
		files, _, err = ghc.prService.ListFiles(gctx, owner, repo, number, &github.ListOptions{PerPage: perPage})
		return err
	})

	if err := g.Wait(); err != nil {
		return models.PRDetails{}, domainErrors.Normalize(err, fmt.Sprintf("PR #%d", number))
	}

	prRecord, err := toRecord(pr)
	if err != nil {
		return models.PRDetails{}, err
	}
	commitRecords, err := toRecords(commits)
	if err != nil {
		return models.PRDetails{}, err
	}
	fileRecords, err := toRecords(files)
	if err != nil {
		return models.PRDetails{}, err
	}

	return models.PRDetails{PR: prRecord, Commits: commitRecords, Files: fileRecords}, nil
}

// ListCommitsByAuthor pages through the author's commits until limit is
// reached. GitHub caps per_page at 100.
func (ghc *GitHubClient) ListCommitsByAuthor(ctx context.Context, owner, repo, author string, start, end time.Time, limit int) ([]models.RawRecord, error) {
	since, until := DayBounds(start, end)

	var all []*github.RepositoryCommit
	page := 1
	for len(all) < limit {
		opts := &github.CommitsListOptions{
			Author:      author,
			Since:       since,
			Until:       until,
			ListOptions: github.ListOptions{PerPage: min(limit-len(all), perPage), Page: page},
		}
		commits, resp, err := ghc.repoService.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, domainErrors.Normalize(err, "commits")
		}
		all = append(all, commits...)
		if resp == nil || resp.NextPage == 0 || len(commits) == 0 {
			break
		}
		page = resp.NextPage
	}
	if len(all) > limit {
		all = all[:limit]
	}

	return toRecords(all)
}

// DayBounds returns the first instant of start's day and the last second of
// end's day.
func DayBounds(start, end time.Time) (time.Time, time.Time) {
	since := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	until := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	return since, until
}

// toRecord converts a go-github value into the REST JSON shape it came from.
func toRecord(v interface{}) (models.RawRecord, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "error encoding github record", err)
	}
	var record models.RawRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "error decoding github record", err)
	}
	return record, nil
}

func toRecords[T any](items []T) ([]models.RawRecord, error) {
	records := make([]models.RawRecord, 0, len(items))
	for _, item := range items {
		record, err := toRecord(item)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
