package models

// RawRecord is a loosely-shaped record as returned by the GitHub REST API.
// Validation turns it into one of the strict records below.
type RawRecord = map[string]interface{}

type (
	// PullRequest is the normalized form of a pull request with its enrichment.
	PullRequest struct {
		Number    int          `json:"number"`
		Title     string       `json:"title"`
		State     string       `json:"state"`
		User      string       `json:"user"`
		CreatedAt string       `json:"created_at"`
		Labels    []string     `json:"labels"`
		Commits   []CommitRef  `json:"commits"`
		Files     []FileChange `json:"files"`
	}

	// CommitRef is a commit listed inside a pull request.
	CommitRef struct {
		SHA     string `json:"sha"`
		Message string `json:"message"`
		Author  string `json:"author,omitempty"`
	}

	// FileChange is a file touched by a pull request.
	FileChange struct {
		Filename  string `json:"filename"`
		Status    string `json:"status,omitempty"`
		Additions int    `json:"additions"`
		Deletions int    `json:"deletions"`
		Changes   int    `json:"changes"`
	}

	// PRDetails groups the three follow-up calls made to enrich a search hit.
	PRDetails struct {
		PR      RawRecord
		Commits []RawRecord
		Files   []RawRecord
	}
)

// Commit is the normalized form of a commit authored by the principal.
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	URL     string `json:"url"`
}

// Additions returns the total lines added across files.
func (pr PullRequest) Additions() int {
	total := 0
	for _, f := range pr.Files {
		total += f.Additions
	}
	return total
}

// Deletions returns the total lines removed across files.
func (pr PullRequest) Deletions() int {
	total := 0
	for _, f := range pr.Files {
		total += f.Deletions
	}
	return total
}
