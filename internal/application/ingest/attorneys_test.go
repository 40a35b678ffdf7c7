package ingest

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lexatlas/lexatlas/pkg/errors"
	"github.com/lexatlas/lexatlas/pkg/types/legal"
)

// workbook builds an in-memory XLSX with the given rows on the first sheet.
func workbook(t *testing.T, rows ...[]interface{}) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseAttorneysValidRows(t *testing.T) {
	r := workbook(t,
		[]interface{}{"name", "email", "seniority", "years_of_experience", "practice_area_1", "proficiency_1", "years_in_practice_1"},
		[]interface{}{"Dana Petrov", "dana@firm.example", "Partner", 18, "Tax", "Expert", 12},
		[]interface{}{"Sam Okafor", "", "associate", 3, "", "", ""},
	)

	parse, err := ParseAttorneys(r)
	require.NoError(t, err)
	require.Empty(t, parse.Errors)
	require.Len(t, parse.Attorneys, 2)

	first := parse.Attorneys[0]
	assert.Equal(t, "Dana Petrov", first.Name)
	assert.Equal(t, legal.SeniorityPartner, first.Seniority)
	assert.Equal(t, 18, first.Years)
	require.Len(t, first.PracticeAreas, 1)
	assert.Equal(t, legal.PracticeAreaEntry{Area: "Tax", Proficiency: legal.ProficiencyExpert, Years: 12}, first.PracticeAreas[0])

	second := parse.Attorneys[1]
	// Missing email is generated from the name; lowercase seniority is
	// canonicalized.
	assert.Equal(t, "sam.okafor@lawfirm.com", second.Email)
	assert.Equal(t, legal.SeniorityAssociate, second.Seniority)
	assert.Empty(t, second.PracticeAreas)
}

func TestParseAttorneysHeaderCaseInsensitive(t *testing.T) {
	r := workbook(t,
		[]interface{}{" Name ", "SENIORITY", "Years_Of_Experience"},
		[]interface{}{"Dana Petrov", "Senior Partner", 30},
	)

	parse, err := ParseAttorneys(r)
	require.NoError(t, err)
	require.Len(t, parse.Attorneys, 1)
	assert.Equal(t, legal.SenioritySeniorPartner, parse.Attorneys[0].Seniority)
}

func TestParseAttorneysMissingRequiredColumns(t *testing.T) {
	r := workbook(t,
		[]interface{}{"name", "email"},
		[]interface{}{"Dana Petrov", "dana@firm.example"},
	)

	_, err := ParseAttorneys(r)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIngestParseFailed))
	assert.Contains(t, err.Error(), "seniority")
	assert.Contains(t, err.Error(), "years_of_experience")
}

func TestParseAttorneysRowErrors(t *testing.T) {
	r := workbook(t,
		[]interface{}{"name", "email", "seniority", "years_of_experience"},
		[]interface{}{"", "x@firm.example", "Partner", 10},
		[]interface{}{"Bad Email", "not-an-email", "Partner", 10},
		[]interface{}{"Bad Rank", "", "Paralegal", 10},
		[]interface{}{"Bad Years", "", "Partner", "lots"},
		[]interface{}{"Too Senior", "", "Partner", 99},
		[]interface{}{"Fine", "", "Partner", 10},
	)

	parse, err := ParseAttorneys(r)
	require.NoError(t, err)
	require.Len(t, parse.Attorneys, 1)
	assert.Equal(t, "Fine", parse.Attorneys[0].Name)

	require.Len(t, parse.Errors, 5)
	assert.Equal(t, 2, parse.Errors[0].Row)
	assert.Equal(t, "name is required", parse.Errors[0].Message)
	assert.Equal(t, "invalid email format", parse.Errors[1].Message)
	assert.Contains(t, parse.Errors[2].Message, "invalid seniority level")
	assert.Contains(t, parse.Errors[3].Message, "must be a number")
	assert.Contains(t, parse.Errors[4].Message, "between 0 and")
}

func TestParseAttorneysPracticeAreaDefaultsAndCap(t *testing.T) {
	r := workbook(t,
		[]interface{}{"name", "seniority", "years_of_experience", "practice_area_1", "practice_area_2", "proficiency_2", "years_in_practice_2"},
		[]interface{}{"Dana Petrov", "Partner", 8, "Banking", "Tax", "unheard-of", 20},
	)

	parse, err := ParseAttorneys(r)
	require.NoError(t, err)
	require.Len(t, parse.Attorneys, 1)
	areas := parse.Attorneys[0].PracticeAreas
	require.Len(t, areas, 2)
	// Missing/unknown proficiency defaults to Intermediate; per-area years
	// cap at total experience.
	assert.Equal(t, legal.ProficiencyIntermediate, areas[0].Proficiency)
	assert.Equal(t, 0, areas[0].Years)
	assert.Equal(t, legal.ProficiencyIntermediate, areas[1].Proficiency)
	assert.Equal(t, 8, areas[1].Years)
}

func TestParseAttorneysNumericCellWithDecimalPoint(t *testing.T) {
	r := workbook(t,
		[]interface{}{"name", "seniority", "years_of_experience"},
		[]interface{}{"Dana Petrov", "Partner", "12.0"},
	)

	parse, err := ParseAttorneys(r)
	require.NoError(t, err)
	require.Len(t, parse.Attorneys, 1)
	assert.Equal(t, 12, parse.Attorneys[0].Years)
}

func TestParseAttorneysNotAWorkbook(t *testing.T) {
	_, err := ParseAttorneys(badReader())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIngestParseFailed))
}
