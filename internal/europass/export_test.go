package europass

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/europass-builder/internal/types"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
}

func sampleResume() *types.Resume {
	return &types.Resume{
		Settings: types.Settings{Language: "fr"},
		Profile: types.Profile{
			GivenName:  "Guillaume",
			FamilyName: "Fortaine",
			BirthDate:  "1985-04",
			Location: &types.Location{
				Country:      "France",
				Municipality: "Paris",
				PostalCode:   "75001",
				Address:      "1 rue de Rivoli",
			},
		},
		Contact: &types.ContactInfo{
			Emails: []string{"guillaume@example.com"},
			Phones: []string{"+33631092519"},
		},
		Links: []types.ProfileLink{
			{Type: "linkedin", URL: "https://www.linkedin.com/in/gfortaine"},
		},
		Jobs: []types.Job{
			{
				Organization: types.Organization{
					Name:     "Acme Conseil",
					Location: &types.Location{Country: "France", Municipality: "Paris"},
				},
				Roles: []types.Role{
					{
						Title:       "Lead Engineer",
						StartDate:   "2024-09",
						Description: `<ol><li data-list="bullet"><span class="ql-ui"></span>Built the platform</li></ol>`,
					},
					{
						Title:        "Engineer",
						StartDate:    "2020-01",
						FinishDate:   "2024-08",
						Achievements: []string{"Shipped v2", "Cut latency 40%"},
					},
				},
			},
		},
		Studies: []types.Study{
			{
				Institution: types.Organization{Name: "Scaled Agile", URL: "https://scaledagile.com"},
				Name:        "SAFe 5 Agilist",
				StartDate:   "2023-11",
				FinishDate:  "2023-11",
				Kind:        types.StudyCertification,
				Achieved:    true,
			},
			{
				Institution: types.Organization{
					Name:     "Université Paris-Saclay",
					Location: &types.Location{Country: "France", Municipality: "Orsay"},
				},
				Name:        "Master of Science",
				StartDate:   "2015-09",
				FinishDate:  "2017-06",
				Kind:        types.StudyDegree,
				Achieved:    true,
				Description: "Distributed systems, databases",
			},
		},
		Languages: []types.Language{
			{Name: "fre", FullName: "French", Level: "Native or bilingual proficiency"},
			{
				Name: "eng", FullName: "English", Level: "Professional working proficiency",
				CEFRScores: map[string]string{
					types.CEFRListening: "C2",
					types.CEFRWriting:   "B2",
				},
			},
		},
		HardSkills: []types.Skill{{Name: "Go", Level: "expert"}},
		SoftSkills: []types.Skill{{Name: "Mentoring"}},
		Photo:      &types.Photo{Data: []byte{0xff, 0xd8, 0xff, 0xe0, 0x01}, MIME: "image/jpeg"},
	}
}

func TestGenerateStructure(t *testing.T) {
	e := Exporter{Now: fixedClock}
	xml := e.Generate(sampleResume())

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, xml, `<Candidate xmlns="http://www.europass.eu/1.0"`)
	assert.Contains(t, xml, `schemeID="CV-20260828"`)
	assert.Contains(t, xml, `<oa:GivenName>Guillaume</oa:GivenName>`)
	assert.Contains(t, xml, `<hr:FamilyName>Fortaine</hr:FamilyName>`)
	assert.Contains(t, xml, `<CandidateProfile languageCode="fr">`)
	assert.Contains(t, xml, `<oa:URI>https://www.linkedin.com/in/gfortaine</oa:URI>`)
	assert.Contains(t, xml, `<CountryDialing>33</CountryDialing>`)
	assert.Contains(t, xml, `<oa:DialNumber>631092519</oa:DialNumber>`)
	assert.Contains(t, xml, `<NationalityCode>fr</NationalityCode>`)
	assert.Contains(t, xml, `<PrimaryLanguageCode name="NORMAL">fre</PrimaryLanguageCode>`)
	assert.Contains(t, xml, `<eures:Licenses />`)
	assert.Contains(t, xml, `<EmploymentReferences />`)
	assert.Contains(t, xml, `<CourseCertifications />`)
	assert.Contains(t, xml, `<Template>Template3</Template>`)
}

func TestGeneratePhoneDialingSplit(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		dialing string
		number  string
		country string
	}{
		{"One-digit dialing code", "+14155550100", "1", "4155550100", "us"},
		{"Two-digit dialing code", "+33631092519", "33", "631092519", "fr"},
		{"Three-digit dialing code", "+351912345678", "351", "912345678", "pt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleResume()
			r.Contact.Phones = []string{tt.phone}
			xml := Exporter{Now: fixedClock}.Generate(r)

			assert.Contains(t, xml, "<CountryDialing>"+tt.dialing+"</CountryDialing>")
			assert.Contains(t, xml, "<oa:DialNumber>"+tt.number+"</oa:DialNumber>")
			assert.Contains(t, xml, "<CountryCode>"+tt.country+"</CountryCode>")

			back, err := Import(xml)
			require.NoError(t, err)
			require.NotNil(t, back.Contact)
			require.Len(t, back.Contact.Phones, 1)
			assert.Equal(t, tt.phone, back.Contact.Phones[0], "phone survives the round trip")
		})
	}
}

func TestGenerateCurrentRoleOmitsEndDate(t *testing.T) {
	r := sampleResume()
	xml := Exporter{Now: fixedClock}.Generate(r)

	histories := strings.Split(xml, "<EmployerHistory>")
	require.Len(t, histories, 3, "two roles produce two employer histories")

	current := histories[1]
	assert.NotContains(t, current, "<eures:EndDate>")
	assert.Contains(t, current, "<hr:CurrentIndicator>true</hr:CurrentIndicator>")

	finished := histories[2]
	assert.Contains(t, finished, "<hr:FormattedDateTime>2024-08</hr:FormattedDateTime>")
	assert.Contains(t, finished, "<hr:CurrentIndicator>false</hr:CurrentIndicator>")
}

func TestGenerateDescriptionPriority(t *testing.T) {
	t.Run("Rich blob wins over achievements", func(t *testing.T) {
		role := types.Role{
			Title: "X", StartDate: "2020-01",
			Description:  "<p>rich</p>",
			Achievements: []string{"ignored"},
		}
		assert.Equal(t, "<p>rich</p>", roleDescription(role))
	})

	t.Run("Achievements render as a built list", func(t *testing.T) {
		role := types.Role{Title: "X", StartDate: "2020-01", Achievements: []string{"Did a thing"}}
		assert.Equal(t,
			`<ol><li data-list="bullet"><span class="ql-ui"></span>Did a thing</li></ol>`,
			roleDescription(role))
	})

	t.Run("Neither means empty", func(t *testing.T) {
		assert.Equal(t, "", roleDescription(types.Role{Title: "X", StartDate: "2020-01"}))
	})
}

func TestGenerateCertificationsSection(t *testing.T) {
	xml := Exporter{Now: fixedClock}.Generate(sampleResume())

	assert.Contains(t, xml, "<Certifications>")
	assert.Contains(t, xml, "<hr:CertificationName>SAFe 5 Agilist</hr:CertificationName>")
	assert.Contains(t, xml, "<hr:IssuingAuthority>Scaled Agile</hr:IssuingAuthority>")
	assert.NotContains(t, xml, "<hr:CertificationName>Master of Science</hr:CertificationName>",
		"degrees stay out of the certifications section")
}

func TestGenerateCEFRScores(t *testing.T) {
	xml := Exporter{Now: fixedClock}.Generate(sampleResume())

	// The French entry has no preserved scores: the uniform level fills all
	// five dimensions.
	assert.Equal(t, 10, strings.Count(xml, "<eures:CompetencyDimension>"),
		"two languages, five dimensions each")
	assert.Contains(t, xml, "<hr:ScoreText>B2</hr:ScoreText>", "preserved writing score survives")
	assert.GreaterOrEqual(t, strings.Count(xml, "<hr:ScoreText>C2</hr:ScoreText>"), 6,
		"five uniform C2 scores for French plus the preserved listening score")
}

func TestGenerateSkillsGatedByProfile(t *testing.T) {
	r := sampleResume()

	plain := Exporter{Now: fixedClock}.Generate(r)
	assert.NotContains(t, plain, "HARDSKILL")
	assert.NotContains(t, plain, "SOFTSKILL")

	withSkills := Exporter{Now: fixedClock, Profile: ProfileLanguageAndSkills}.Generate(r)
	assert.Contains(t, withSkills, `<CompetencyID schemeName="HARDSKILL">Go</CompetencyID>`)
	assert.Contains(t, withSkills, "<hr:TaxonomyID>hard-skill</hr:TaxonomyID>")
	assert.Contains(t, withSkills, "<hr:ScoreText>5</hr:ScoreText>")
	assert.Contains(t, withSkills, `<CompetencyID schemeName="SOFTSKILL">Mentoring</CompetencyID>`)
}

func TestEncodePhotoDoubleEncoding(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01}
	encoded := encodePhoto(&types.Photo{Data: raw, MIME: "image/jpeg"})

	outer, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	uri := string(outer)
	require.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))

	inner, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	assert.Equal(t, raw, inner)
}

func TestExportPrefersRawDocument(t *testing.T) {
	r := sampleResume()
	r.RawXML = "<Candidate>verbatim</Candidate>"

	assert.Equal(t, r.RawXML, Exporter{Now: fixedClock}.Export(r))
	assert.NotEqual(t, r.RawXML, Exporter{Now: fixedClock}.Generate(r),
		"Generate always re-derives")
}

func TestGenerateEscapesContent(t *testing.T) {
	r := sampleResume()
	r.Jobs[0].Organization.Name = "Fast & Loose <SA>"
	xml := Exporter{Now: fixedClock}.Generate(r)
	assert.Contains(t, xml, "<hr:OrganizationName>Fast &amp; Loose &lt;SA&gt;</hr:OrganizationName>")
}

func TestGeneratedDocumentValidates(t *testing.T) {
	xml := Exporter{Now: fixedClock}.Generate(sampleResume())
	result := new(Validator).Validate(xml)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
}

func TestGenerateDropsInvalidDates(t *testing.T) {
	r := sampleResume()
	r.Jobs[0].Roles[0].StartDate = "not-a-date"
	xml := Exporter{Now: fixedClock}.Generate(r)
	assert.Contains(t, xml, "<hr:FormattedDateTime></hr:FormattedDateTime>",
		"unnormalizable dates are dropped, not emitted malformed")
	assert.NotContains(t, xml, "not-a-date")
}
