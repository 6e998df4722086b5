package europass

import (
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/beevik/etree"

	"github.com/jonathan/europass-builder/internal/types"
)

// Import parses an external XML document into the canonical record.
//
// The canonical model can hold more than the wire format exposes, so the
// importer keeps everything it finds: full rich-text role descriptions,
// per-dimension language scores, link communications, postal details. Only
// unparsable XML fails the import; missing sections degrade to empty
// collections. The raw document is retained on the record so a later export
// can reproduce it verbatim.
func Import(xmlContent string) (*types.Resume, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlContent); err != nil {
		return nil, &ImportError{Message: "malformed XML", Cause: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &ImportError{Message: "document has no root element"}
	}

	r := &types.Resume{
		Settings: types.Settings{Language: "en"},
		RawXML:   xmlContent,
	}

	person := find(root, "CandidatePerson")
	r.Profile = types.Profile{
		GivenName:  text(person, "PersonName", "GivenName"),
		FamilyName: text(person, "PersonName", "FamilyName"),
		BirthDate:  text(person, "BirthDate"),
	}

	importCommunications(person, r)
	importJobs(find(root, "EmploymentHistory"), r)
	importStudies(find(root, "EducationHistory"), r)

	profile := find(root, "CandidateProfile")
	if profile != nil {
		if lang := profile.SelectAttrValue("languageCode", ""); lang != "" {
			r.Settings.Language = strings.ToLower(lang)
		}
	}
	importLanguages(root, profile, r)
	importPhoto(profile, r)

	return r, nil
}

// importCommunications discriminates the person's communication channels:
// Email and Telephone by channel code, Web links, and everything else by the
// presence of an Address child.
func importCommunications(person *etree.Element, r *types.Resume) {
	contact := types.ContactInfo{}
	loc := types.Location{}

	for _, comm := range findAll(person, "Communication") {
		switch text(comm, "ChannelCode") {
		case "Email":
			if uri := text(comm, "URI"); uri != "" {
				contact.Emails = append(contact.Emails, uri)
			}
		case "Telephone":
			dialing := text(comm, "CountryDialing")
			number := text(comm, "DialNumber")
			if number != "" {
				phone := number
				if dialing != "" {
					phone = "+" + dialing + number
				}
				contact.Phones = append(contact.Phones, phone)
			}
		case "Web":
			if uri := text(comm, "URI"); uri != "" {
				r.Links = append(r.Links, types.ProfileLink{Type: types.LinkTypeFor(uri), URL: uri})
			}
		default:
			if addr := child(comm, "Address"); addr != nil {
				loc.Address = text(addr, "AddressLine")
				loc.Municipality = text(addr, "CityName")
				loc.PostalCode = text(addr, "PostalCode")
				loc.Country = normalizeCountry(text(addr, "CountryCode"))
			}
		}
	}

	if len(contact.Emails) > 0 || len(contact.Phones) > 0 {
		r.Contact = &contact
	}
	if loc != (types.Location{}) {
		r.Profile.Location = &loc
	}
}

func importJobs(history *etree.Element, r *types.Resume) {
	for _, employer := range children(history, "EmployerHistory") {
		job := types.Job{
			Organization: types.Organization{Name: text(employer, "OrganizationName")},
		}
		if addr := find(child(employer, "OrganizationContact"), "Address"); addr != nil {
			loc := types.Location{
				Municipality: text(addr, "CityName"),
				Country:      normalizeCountry(text(addr, "CountryCode")),
			}
			if loc != (types.Location{}) {
				job.Organization.Location = &loc
			}
		}

		for _, position := range children(employer, "PositionHistory") {
			role := types.Role{Title: text(position, "PositionTitle")}
			if period := child(position, "EmploymentPeriod"); period != nil {
				role.StartDate = text(period, "StartDate", "FormattedDateTime")
				end := text(period, "EndDate", "FormattedDateTime")
				current := strings.EqualFold(text(period, "CurrentIndicator"), "true")
				if end != "" && !current {
					role.FinishDate = end
				}
			}
			// The rich HTML description is stored whole, never split back
			// into achievement statements.
			role.Description = text(position, "Description")
			job.Roles = append(job.Roles, role)
		}

		r.Jobs = append(r.Jobs, job)
	}
}

func importStudies(history *etree.Element, r *types.Resume) {
	for _, edu := range children(history, "EducationOrganizationAttendance") {
		inst := types.Organization{Name: text(edu, "OrganizationName")}
		if contact := child(edu, "OrganizationContact"); contact != nil {
			for _, comm := range children(contact, "Communication") {
				if text(comm, "ChannelCode") == "Web" {
					inst.URL = text(comm, "URI")
					continue
				}
				if addr := child(comm, "Address"); addr != nil {
					loc := types.Location{
						Municipality: text(addr, "CityName"),
						Country:      normalizeCountry(text(addr, "CountryCode")),
					}
					if loc != (types.Location{}) {
						inst.Location = &loc
					}
				}
			}
		}

		var start, end string
		ongoing := false
		if period := child(edu, "AttendancePeriod"); period != nil {
			start = text(period, "StartDate", "FormattedDateTime")
			end = text(period, "EndDate", "FormattedDateTime")
			ongoing = strings.EqualFold(text(period, "Ongoing"), "true")
		}

		degree := child(edu, "EducationDegree")
		name := text(degree, "DegreeName")

		r.Studies = append(r.Studies, types.Study{
			Institution: inst,
			Name:        name,
			StartDate:   start,
			FinishDate:  end,
			Kind:        InferStudyKind(name, start, end),
			Achieved:    !ongoing && end != "",
			Description: text(degree, "OccupationalSkillsCovered"),
		})
	}
}

// InferStudyKind classifies a study from its credential name and date span.
// The wire format does not carry the kind: a certification-indicating
// substring in the name, or a same-month attendance span, means
// certification; everything else is a degree.
func InferStudyKind(name, start, end string) types.StudyKind {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "certif") || strings.Contains(lower, "safe") {
		return types.StudyCertification
	}
	if start != "" && start == end {
		return types.StudyCertification
	}
	return types.StudyDegree
}

// importLanguages reads the legacy LanguageSkills listing first, then the
// per-dimension scores under PersonQualifications. Scores attach to a listed
// language by case-insensitive code match; unmatched competencies become new
// language entries. Preserved scores survive round trips untouched.
func importLanguages(root, profile *etree.Element, r *types.Resume) {
	if skills := find(root, "LanguageSkills"); skills != nil {
		for _, m := range children(skills, "MotherLanguage") {
			if code := text(m, "LanguageCode"); code != "" {
				r.Languages = append(r.Languages, types.Language{
					Name: code, FullName: code, Level: "Native or bilingual proficiency",
				})
			}
		}
		for _, f := range children(skills, "ForeignLanguage") {
			if code := text(f, "LanguageCode"); code != "" {
				r.Languages = append(r.Languages, types.Language{
					Name: code, FullName: code, Level: "Professional working proficiency",
				})
			}
		}
	}

	quals := child(profile, "PersonQualifications")
	for _, comp := range children(quals, "PersonCompetency") {
		if text(comp, "TaxonomyID") != "language" {
			continue
		}
		code := text(comp, "CompetencyID")
		if code == "" {
			continue
		}
		scores := map[string]string{}
		for _, dim := range children(comp, "CompetencyDimension") {
			k := text(dim, "CompetencyDimensionTypeCode")
			v := text(dim, "Score", "ScoreText")
			if k != "" && v != "" {
				scores[k] = v
			}
		}
		if len(scores) == 0 {
			continue
		}

		merged := false
		for i := range r.Languages {
			if strings.EqualFold(r.Languages[i].Name, code) {
				r.Languages[i].CEFRScores = scores
				merged = true
				break
			}
		}
		if !merged {
			r.Languages = append(r.Languages, types.Language{
				Name: code, FullName: code,
				Level:      "Professional working proficiency",
				CEFRScores: scores,
			})
		}
	}
}

// importPhoto locates the profile picture attachment: file type "photo" or
// instructions "ProfilePicture", first match wins. A picture that fails to
// decode is dropped with a warning, never a failed import.
func importPhoto(profile *etree.Element, r *types.Resume) {
	for _, att := range children(profile, "Attachment") {
		if text(att, "FileType") != "photo" && text(att, "Instructions") != "ProfilePicture" {
			continue
		}
		data := text(att, "EmbeddedData")
		if data == "" {
			continue
		}
		photo, err := decodePhoto(data)
		if err != nil {
			log.Printf("[EUROPASS] profile picture dropped: %v", err)
			return
		}
		r.Photo = photo
		return
	}
}

// decodePhoto unwraps the double encoding: the embedded payload is the
// base64 of a data URI whose body is the base64 of the raw image bytes.
func decodePhoto(encoded string) (*types.Photo, error) {
	outer, err := base64.StdEncoding.DecodeString(stripWhitespace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decoding attachment: %w", err)
	}
	rest, ok := strings.CutPrefix(string(outer), "data:")
	if !ok {
		return nil, fmt.Errorf("attachment is not a data URI")
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, fmt.Errorf("attachment data URI is not base64")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return &types.Photo{Data: raw, MIME: mime}, nil
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func normalizeCountry(code string) string {
	if len(code) == 2 {
		return strings.ToUpper(code)
	}
	return code
}
