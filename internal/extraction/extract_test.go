package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/europass-builder/internal/types"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
}

func (f *fakeClient) ExtractJSON(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

const sampleExtraction = `{
  "name": "Guillaume",
  "surnames": "Fortaine",
  "title": "Lead Engineer",
  "email": "guillaume@example.com",
  "phone": "+33631092519",
  "location": "Paris, France",
  "links": ["https://www.linkedin.com/in/gfortaine", "https://github.com/gfortaine"],
  "experience": [
    {"company": "Acme Conseil", "title": "Lead Engineer", "start_date": "2024-09", "end_date": "", "location": "Paris, France", "highlights": ["Built the platform"]},
    {"company": "Acme Conseil", "title": "Engineer", "start_date": "2020", "end_date": "2024-08-15", "highlights": ["Shipped v2"]}
  ],
  "education": [
    {"institution": "Scaled Agile", "degree": "SAFe 5 Agilist", "start_date": "2023-11", "end_date": "2023-11"},
    {"institution": "Université Paris-Saclay", "degree": "Master of Science", "start_date": "2015-09", "end_date": "2017-06"}
  ],
  "languages": [{"name": "French", "level": "native"}],
  "hard_skills": ["Go", "PostgreSQL"],
  "soft_skills": ["Mentoring"]
}`

func TestExtract(t *testing.T) {
	client := &fakeClient{response: sampleExtraction}
	e := &Extractor{Client: client}

	cv, err := e.Extract(context.Background(), "raw resume text")
	require.NoError(t, err)
	assert.Equal(t, "Guillaume", cv.Name)
	assert.Len(t, cv.Experience, 2)
	assert.Contains(t, client.prompt, "raw resume text")
}

func TestExtractRejectsMissingName(t *testing.T) {
	e := &Extractor{Client: &fakeClient{response: `{"surnames": "Fortaine"}`}}
	_, err := e.Extract(context.Background(), "text")
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestExtractRejectsInvalidJSON(t *testing.T) {
	e := &Extractor{Client: &fakeClient{response: "not json"}}
	_, err := e.Extract(context.Background(), "text")
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestToResume(t *testing.T) {
	e := &Extractor{Client: &fakeClient{response: sampleExtraction}}
	cv, err := e.Extract(context.Background(), "text")
	require.NoError(t, err)

	r, err := cv.ToResume()
	require.NoError(t, err)

	assert.Equal(t, "Guillaume Fortaine", r.FullName())
	require.NotNil(t, r.Profile.Location)
	assert.Equal(t, "Paris", r.Profile.Location.Municipality)
	assert.Equal(t, "France", r.Profile.Location.Country)

	require.Len(t, r.Jobs, 2, "each extracted position becomes a single-role job")
	assert.True(t, r.Jobs[0].Roles[0].Current(), "empty end date stays a current position")
	assert.Equal(t, "2020-01", r.Jobs[1].Roles[0].StartDate, "bare year normalized to January")
	assert.Equal(t, "2024-08", r.Jobs[1].Roles[0].FinishDate, "full date truncated to month")
	assert.Equal(t, []string{"Built the platform"}, r.Jobs[0].Roles[0].Achievements)

	require.Len(t, r.Studies, 2)
	assert.Equal(t, types.StudyCertification, r.Studies[0].Kind, "same-month span reads as certification")
	assert.Equal(t, types.StudyDegree, r.Studies[1].Kind)
	assert.True(t, r.Studies[1].Achieved)

	require.Len(t, r.Links, 2)
	assert.Equal(t, "linkedin", r.Links[0].Type)
	assert.Equal(t, "github", r.Links[1].Type)

	require.Len(t, r.HardSkills, 2)
	assert.Equal(t, "Go", r.HardSkills[0].Name)
}

func TestToResumeCityOnlyLocation(t *testing.T) {
	cv := &ExtractedCV{Name: "Ada", Surnames: "Lovelace", Location: "London"}
	r, err := cv.ToResume()
	require.NoError(t, err)
	require.NotNil(t, r.Profile.Location)
	assert.Equal(t, "London", r.Profile.Location.Municipality)
	assert.Empty(t, r.Profile.Location.Country)
}

func TestCleanJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSONBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONBlock(`{"a":1}`))
}
