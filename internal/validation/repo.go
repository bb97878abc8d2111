package validation

import (
	"math"
	"strings"

	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/models"
)

const (
	MinLimit = 1
	MaxLimit = 500
)

// SanitizeRepoName parses an "owner/repo" identifier.
func SanitizeRepoName(input interface{}) (models.RepoIdentifier, error) {
	name, ok := input.(string)
	if !ok || name == "" {
		return models.RepoIdentifier{}, domainErrors.NewValidationError(domainErrors.KindInvalidInput, "repository", "Nombre de repositorio inválido")
	}

	parts := strings.Split(strings.TrimSpace(name), "/")
	if len(parts) != 2 {
		return models.RepoIdentifier{}, domainErrors.NewValidationError(domainErrors.KindFormat, "repository", "Formato de repositorio inválido. Use: owner/repo")
	}

	owner, repo := parts[0], parts[1]
	if owner == "" || repo == "" {
		return models.RepoIdentifier{}, domainErrors.NewValidationError(domainErrors.KindEmptySegment, "repository", "Owner y repo no pueden estar vacíos")
	}

	return models.RepoIdentifier{Owner: owner, Repo: repo, FullName: owner + "/" + repo}, nil
}

// ValidateLimits accepts only integral values in [MinLimit, MaxLimit].
func ValidateLimits(maxPRs, maxCommits interface{}) error {
	if n, ok := integral(maxPRs); !ok || n < MinLimit || n > MaxLimit {
		return domainErrors.NewValidationError(domainErrors.KindRange, "max_prs", "Límite de PRs debe estar entre 1 y 500")
	}
	if n, ok := integral(maxCommits); !ok || n < MinLimit || n > MaxLimit {
		return domainErrors.NewValidationError(domainErrors.KindRange, "max_commits", "Límite de commits debe estar entre 1 y 500")
	}
	return nil
}

func integral(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return floatIntegral(float64(n))
	case float64:
		return floatIntegral(n)
	}
	return 0, false
}

func floatIntegral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}
