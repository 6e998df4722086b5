package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/europass-builder/internal/dates"
	"github.com/jonathan/europass-builder/internal/europass"
	"github.com/jonathan/europass-builder/internal/types"
)

// ExtractedCV is the flat shape the model returns. It is deliberately
// simpler than the canonical record; ToResume performs the upgrade.
type ExtractedCV struct {
	Name       string                `json:"name"`
	Surnames   string                `json:"surnames"`
	Title      string                `json:"title"`
	Summary    string                `json:"summary"`
	BirthDate  string                `json:"birth_date"`
	Email      string                `json:"email"`
	Phone      string                `json:"phone"`
	Location   string                `json:"location"`
	Links      []string              `json:"links"`
	Experience []ExtractedExperience `json:"experience"`
	Education  []ExtractedEducation  `json:"education"`
	Languages  []ExtractedLanguage   `json:"languages"`
	HardSkills []string              `json:"hard_skills"`
	SoftSkills []string              `json:"soft_skills"`
}

// ExtractedExperience is one position as the model reports it.
type ExtractedExperience struct {
	Company    string   `json:"company"`
	Title      string   `json:"title"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Location   string   `json:"location"`
	Highlights []string `json:"highlights"`
}

// ExtractedEducation is one study as the model reports it.
type ExtractedEducation struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// ExtractedLanguage is one language as the model reports it.
type ExtractedLanguage struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

const extractPrompt = `You are a CV parsing assistant. Extract the candidate's data from the document below into JSON with this exact structure:

{
  "name": "given name",
  "surnames": "family name",
  "title": "professional headline",
  "summary": "short professional summary",
  "birth_date": "YYYY-MM-DD if present",
  "email": "primary email",
  "phone": "primary phone in international format",
  "location": "City, Country",
  "links": ["public profile URLs"],
  "experience": [{"company": "", "title": "", "start_date": "YYYY-MM", "end_date": "YYYY-MM or empty if current", "location": "City, Country", "highlights": ["achievement statements"]}],
  "education": [{"institution": "", "degree": "", "start_date": "YYYY-MM", "end_date": "YYYY-MM"}],
  "languages": [{"name": "", "level": "proficiency label"}],
  "hard_skills": ["technical skills"],
  "soft_skills": ["interpersonal skills"]
}

Rules:
- Leave fields empty rather than guessing.
- An empty end_date means the position is current. Never invent one.
- Keep dates as written when they do not fit YYYY-MM.

Document:
%s`

// Extractor runs LLM field extraction over plain CV text.
type Extractor struct {
	Client Client
}

// Extract sends the document text to the model and parses the result.
func (e *Extractor) Extract(ctx context.Context, text string) (*ExtractedCV, error) {
	raw, err := e.Client.ExtractJSON(ctx, fmt.Sprintf(extractPrompt, text))
	if err != nil {
		return nil, err
	}

	var cv ExtractedCV
	if err := json.Unmarshal([]byte(raw), &cv); err != nil {
		return nil, &ParseError{Message: "invalid extraction JSON", Cause: err}
	}
	if strings.TrimSpace(cv.Name) == "" || strings.TrimSpace(cv.Surnames) == "" {
		return nil, &ParseError{Message: "extraction is missing the candidate's name"}
	}
	return &cv, nil
}

// ToResume upgrades the flat extraction into the canonical record: locations
// split into municipality and country, each position becomes a single-role
// job, study kinds are inferred, dates are normalized.
func (cv *ExtractedCV) ToResume() (*types.Resume, error) {
	profile := types.Profile{
		GivenName:  strings.TrimSpace(cv.Name),
		FamilyName: strings.TrimSpace(cv.Surnames),
		Title:      cv.Title,
		Summary:    cv.Summary,
		BirthDate:  cv.BirthDate,
		Location:   splitLocation(cv.Location),
	}

	r, err := types.NewResume(profile)
	if err != nil {
		return nil, err
	}

	if cv.Email != "" || cv.Phone != "" {
		contact := &types.ContactInfo{}
		if cv.Email != "" {
			contact.Emails = []string{cv.Email}
		}
		if cv.Phone != "" {
			contact.Phones = []string{cv.Phone}
		}
		r.Contact = contact
	}

	for _, url := range cv.Links {
		if url == "" {
			continue
		}
		r.Links = append(r.Links, types.ProfileLink{Type: types.LinkTypeFor(url), URL: url})
	}

	for _, exp := range cv.Experience {
		role := types.Role{
			Title:        exp.Title,
			StartDate:    dates.Normalize(exp.StartDate),
			FinishDate:   dates.Normalize(exp.EndDate),
			Achievements: exp.Highlights,
		}
		r.Jobs = append(r.Jobs, types.Job{
			Organization: types.Organization{
				Name:     exp.Company,
				Location: splitLocation(exp.Location),
			},
			Roles: []types.Role{role},
		})
	}

	for _, edu := range cv.Education {
		start := dates.Normalize(edu.StartDate)
		end := dates.Normalize(edu.EndDate)
		r.Studies = append(r.Studies, types.Study{
			Institution: types.Organization{Name: edu.Institution},
			Name:        edu.Degree,
			StartDate:   start,
			FinishDate:  end,
			Kind:        europass.InferStudyKind(edu.Degree, start, end),
			Achieved:    end != "",
		})
	}

	for _, lang := range cv.Languages {
		if lang.Name == "" {
			continue
		}
		r.Languages = append(r.Languages, types.Language{
			Name: lang.Name, FullName: lang.Name, Level: lang.Level,
		})
	}

	for _, name := range cv.HardSkills {
		if name != "" {
			r.HardSkills = append(r.HardSkills, types.Skill{Name: name})
		}
	}
	for _, name := range cv.SoftSkills {
		if name != "" {
			r.SoftSkills = append(r.SoftSkills, types.Skill{Name: name})
		}
	}

	return r, nil
}

// splitLocation splits a "City, Country" string; a single segment is taken
// as the city.
func splitLocation(s string) *types.Location {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	city, country, found := strings.Cut(s, ",")
	loc := &types.Location{Municipality: strings.TrimSpace(city)}
	if found {
		loc.Country = strings.TrimSpace(country)
	}
	return loc
}
