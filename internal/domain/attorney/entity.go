package attorney

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// IDPrefix is the prefix of every attorney identifier.  The full identifier
// form is "ATT-" followed by 8 uppercase alphanumeric characters, e.g.
// "ATT-9F3C21AB".  Historical engagement documents reference attorneys by
// this identifier, which is what the ranker's cross-reference scan matches.
const IDPrefix = "ATT"

// MaxExperienceYears is the upper bound accepted for years of experience.
const MaxExperienceYears = 70

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Attorney is the profile of one attorney in the recommendation pool.
type Attorney struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Email         string                    `json:"email"`
	Seniority     legal.Seniority           `json:"seniority"`
	Years         int                       `json:"years_of_experience"`
	PracticeAreas []legal.PracticeAreaEntry `json:"practice_areas"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// NewID generates a fresh attorney identifier: "ATT-" plus the first eight
// characters of a UUID, uppercased.
func NewID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return IDPrefix + "-" + strings.ToUpper(raw[:8])
}

// Validate checks the profile's structural invariants.  Per-entry years are
// capped at total experience here, at the ingestion boundary; readers trust
// the stored invariant.
func (a *Attorney) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New(errors.ErrCodeAttorneyInvalid, "attorney name is required")
	}
	if !emailPattern.MatchString(a.Email) {
		return errors.Newf(errors.ErrCodeAttorneyInvalid, "invalid attorney email %q", a.Email)
	}
	if !a.Seniority.Valid() {
		return errors.Newf(errors.ErrCodeAttorneyInvalid, "unknown seniority %q", a.Seniority)
	}
	if a.Years < 0 || a.Years > MaxExperienceYears {
		return errors.Newf(errors.ErrCodeAttorneyInvalid, "years_of_experience %d is out of range [0, %d]", a.Years, MaxExperienceYears)
	}
	for i, entry := range a.PracticeAreas {
		if strings.TrimSpace(entry.Area) == "" {
			return errors.Newf(errors.ErrCodeAttorneyInvalid, "practice_areas[%d]: area name is required", i)
		}
		if !entry.Proficiency.Valid() {
			return errors.Newf(errors.ErrCodeAttorneyInvalid, "practice_areas[%d]: unknown proficiency %q", i, entry.Proficiency)
		}
		if entry.Years < 0 {
			return errors.Newf(errors.ErrCodeAttorneyInvalid, "practice_areas[%d]: years must be >= 0", i)
		}
	}
	return nil
}

// Normalize caps each practice-area entry's years at the attorney's total
// experience and trims whitespace from names.  Call before persisting.
func (a *Attorney) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	for i := range a.PracticeAreas {
		a.PracticeAreas[i].Area = strings.TrimSpace(a.PracticeAreas[i].Area)
		if a.PracticeAreas[i].Years > a.Years {
			a.PracticeAreas[i].Years = a.Years
		}
	}
}

// PracticesIn reports whether the attorney lists the given practice area.
// Matching is case-insensitive.
func (a *Attorney) PracticesIn(area string) bool {
	for _, entry := range a.PracticeAreas {
		if strings.EqualFold(entry.Area, area) {
			return true
		}
	}
	return false
}

// AreaNames returns the attorney's practice-area names in profile order.
func (a *Attorney) AreaNames() []string {
	names := make([]string, 0, len(a.PracticeAreas))
	for _, entry := range a.PracticeAreas {
		names = append(names, entry.Area)
	}
	return names
}

// ListFilter defines filtering options for listing attorneys.
type ListFilter struct {
	PracticeArea  string
	Seniority     legal.Seniority
	MinExperience int
	Offset        int
	Limit         int
}
