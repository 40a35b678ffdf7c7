package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/attorney"
	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

const (
	maxNameLength    = 200
	maxPracticeAreas = 10
	generatedDomain  = "lawfirm.com"
)

var ingestEmailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// Canonical casing for case-insensitive enum cells.
var (
	seniorityByLower = map[string]legal.Seniority{
		"associate":        legal.SeniorityAssociate,
		"senior associate": legal.SenioritySeniorAssociate,
		"partner":          legal.SeniorityPartner,
		"senior partner":   legal.SenioritySeniorPartner,
	}
	proficiencyByLower = map[string]legal.Proficiency{
		"beginner":     legal.ProficiencyBeginner,
		"intermediate": legal.ProficiencyIntermediate,
		"advanced":     legal.ProficiencyAdvanced,
		"expert":       legal.ProficiencyExpert,
	}
)

// AttorneyParse is the outcome of parsing one attorney workbook. Rows listed
// in Errors are not present in Attorneys.
type AttorneyParse struct {
	Attorneys []*attorney.Attorney
	Errors    []RowError
}

// ParseAttorneys parses an attorney bulk-upload workbook. Required columns:
// name, seniority, years_of_experience. Email is generated from the name when
// absent; practice areas (practice_area_N / proficiency_N /
// years_in_practice_N, N up to 10) are optional.
func ParseAttorneys(r io.Reader) (*AttorneyParse, error) {
	rows, err := sheetRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeIngestNoRows, "workbook is empty")
	}

	idx := headerIndex(rows[0])
	if missing := missingColumns(idx, "name", "seniority", "years_of_experience"); len(missing) > 0 {
		return nil, errors.Newf(errors.ErrCodeIngestParseFailed,
			"missing required columns: %s", strings.Join(missing, ", "))
	}

	parse := &AttorneyParse{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		a, rowErr := parseAttorneyRow(row, idx)
		if rowErr != "" {
			parse.Errors = append(parse.Errors, RowError{Row: rowNum, Message: rowErr})
			continue
		}
		parse.Attorneys = append(parse.Attorneys, a)
	}
	return parse, nil
}

func parseAttorneyRow(row []string, idx map[string]int) (*attorney.Attorney, string) {
	name := cellAt(row, idx, "name")
	if name == "" {
		return nil, "name is required"
	}
	if len(name) > maxNameLength {
		return nil, fmt.Sprintf("name exceeds %d characters", maxNameLength)
	}

	email := cellAt(row, idx, "email")
	if email == "" {
		email = fmt.Sprintf("%s@%s", strings.ReplaceAll(strings.ToLower(name), " ", "."), generatedDomain)
	} else if !ingestEmailPattern.MatchString(email) {
		return nil, "invalid email format"
	}

	seniorityCell := cellAt(row, idx, "seniority")
	if seniorityCell == "" {
		return nil, "seniority is required"
	}
	seniority, ok := seniorityByLower[strings.ToLower(seniorityCell)]
	if !ok {
		return nil, "invalid seniority level, use: Associate, Senior Associate, Partner, or Senior Partner"
	}

	yearsCell := cellAt(row, idx, "years_of_experience")
	years, err := parseInt(yearsCell)
	if err != nil {
		return nil, "invalid years_of_experience (must be a number)"
	}
	if years < 0 || years > attorney.MaxExperienceYears {
		return nil, fmt.Sprintf("years_of_experience must be between 0 and %d", attorney.MaxExperienceYears)
	}

	return &attorney.Attorney{
		Name:          name,
		Email:         email,
		Seniority:     seniority,
		Years:         years,
		PracticeAreas: parsePracticeAreas(row, idx, years),
	}, ""
}

// parsePracticeAreas collects the numbered practice-area column triples.
// Missing proficiency defaults to Intermediate, missing years to 0, and
// per-area years are capped at total experience. Areas with malformed years
// are dropped, not fatal.
func parsePracticeAreas(row []string, idx map[string]int, totalYears int) []legal.PracticeAreaEntry {
	var areas []legal.PracticeAreaEntry
	for n := 1; n <= maxPracticeAreas; n++ {
		area := cellAt(row, idx, fmt.Sprintf("practice_area_%d", n))
		if area == "" {
			continue
		}

		proficiency := legal.ProficiencyIntermediate
		if cell := cellAt(row, idx, fmt.Sprintf("proficiency_%d", n)); cell != "" {
			if p, ok := proficiencyByLower[strings.ToLower(cell)]; ok {
				proficiency = p
			}
		}

		years := 0
		if cell := cellAt(row, idx, fmt.Sprintf("years_in_practice_%d", n)); cell != "" {
			parsed, err := parseInt(cell)
			if err != nil {
				continue
			}
			years = parsed
		}
		if years > totalYears {
			years = totalYears
		}

		areas = append(areas, legal.PracticeAreaEntry{
			Area:        area,
			Proficiency: proficiency,
			Years:       years,
		})
	}
	return areas
}
