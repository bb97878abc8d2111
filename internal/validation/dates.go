package validation

import (
	"context"
	"math"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/models"
)

// WideRangeDays is the span above which a date range logs a warning.
const WideRangeDays = 180

var now = time.Now

var dateLayouts = []string{time.DateOnly, time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05"}

// ParseDate accepts YYYY-MM-DD (read as UTC midnight) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidateDateRange checks that start and end are valid dates, start is not
// after end and end is not in the future. diffDays is ceil((end-start)/24h).
func ValidateDateRange(ctx context.Context, start, end string) (models.DateRange, error) {
	s, ok := ParseDate(start)
	if !ok {
		return models.DateRange{}, domainErrors.NewValidationError(domainErrors.KindInvalidDate, "start", "Fecha de inicio inválida")
	}
	e, ok := ParseDate(end)
	if !ok {
		return models.DateRange{}, domainErrors.NewValidationError(domainErrors.KindInvalidDate, "end", "Fecha de fin inválida")
	}
	if s.After(e) {
		return models.DateRange{}, domainErrors.NewValidationError(domainErrors.KindOrdering, "start", "La fecha de inicio debe ser anterior a la fecha de fin")
	}
	if e.After(now()) {
		return models.DateRange{}, domainErrors.NewValidationError(domainErrors.KindFutureDate, "end", "La fecha de fin no puede ser futura")
	}

	diffDays := int(math.Ceil(e.Sub(s).Hours() / 24))
	if diffDays > WideRangeDays {
		logger.Warn(ctx, "wide date range requested",
			"start", start,
			"end", end,
			"days", diffDays)
	}

	return models.DateRange{Start: s, End: e, DiffDays: diffDays}, nil
}
