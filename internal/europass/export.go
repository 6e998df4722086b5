package europass

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/europass-builder/internal/codes"
	"github.com/jonathan/europass-builder/internal/dates"
	"github.com/jonathan/europass-builder/internal/richtext"
	"github.com/jonathan/europass-builder/internal/types"
)

// ExportProfile selects which competency sections the exporter emits.
type ExportProfile int

const (
	// ProfileLanguageOnly emits language competencies only. The external
	// editor's parser fails silently on skill competencies, so this is the
	// default.
	ProfileLanguageOnly ExportProfile = iota

	// ProfileLanguageAndSkills additionally emits hard and soft skill
	// competencies for consumers that accept them.
	ProfileLanguageAndSkills
)

// Exporter generates external XML documents from canonical records.
// The zero value is ready to use.
type Exporter struct {
	Profile ExportProfile

	// Now overrides the clock used for the document identifier. Nil means
	// time.Now.
	Now func() time.Time
}

// xmlEscape covers the characters that break element content. Attribute
// values in the generated document never carry user data.
var xmlEscape = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func esc(s string) string {
	return xmlEscape.Replace(s)
}

// Export returns the XML document for a record. A record that still carries
// its imported raw document is reproduced verbatim; everything else is
// re-derived from the structured fields.
func (e Exporter) Export(r *types.Resume) string {
	if r.RawXML != "" {
		return r.RawXML
	}
	return e.Generate(r)
}

// Generate always re-derives the document from the structured fields.
func (e Exporter) Generate(r *types.Resume) string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	langCode := strings.ToLower(r.Settings.Language)
	if langCode == "" {
		langCode = "en"
	}

	var lines []string
	add := func(ls ...string) { lines = append(lines, ls...) }

	add(
		`<?xml version="1.0" encoding="utf-8"?>`,
		`<Candidate xmlns="`+NamespaceDefault+`" xmlns:eures="`+NamespaceEures+`" xmlns:hr="`+NamespaceHR+`" xmlns:oa="`+NamespaceOA+`" xmlns:xsi="`+NamespaceXSI+`" xsi:schemaLocation="`+NamespaceDefault+` Candidate.xsd">`,
		fmt.Sprintf(`    <hr:DocumentID schemeID="CV-%s" schemeName="DocumentIdentifier" schemeAgencyName="EUROPASS" schemeVersionID="4.0" />`, now().Format("20060102")),
	)

	email := ""
	if r.Contact != nil && len(r.Contact.Emails) > 0 {
		email = r.Contact.Emails[0]
	}

	// CandidateSupplier
	add(
		`    <CandidateSupplier>`,
		`        <hr:PartyID schemeID="CV-001" schemeName="PartyID" schemeAgencyName="EUROPASS" schemeVersionID="1.0" />`,
		`        <hr:PartyName>Owner</hr:PartyName>`,
		`        <PersonContact>`,
		`            <PersonName>`,
		`                <oa:GivenName>`+esc(r.Profile.GivenName)+`</oa:GivenName>`,
		`                <hr:FamilyName>`+esc(r.Profile.FamilyName)+`</hr:FamilyName>`,
		`            </PersonName>`,
	)
	if email != "" {
		add(
			`            <Communication>`,
			`                <ChannelCode>Email</ChannelCode>`,
			`                <oa:URI>`+esc(email)+`</oa:URI>`,
			`            </Communication>`,
		)
	}
	add(
		`        </PersonContact>`,
		`        <hr:PrecedenceCode>1</hr:PrecedenceCode>`,
		`    </CandidateSupplier>`,
	)

	// CandidatePerson. PersonTitle and PersonDescription are deliberately
	// absent: the external editor's importer rejects them.
	add(
		`    <CandidatePerson>`,
		`        <PersonName>`,
		`            <oa:GivenName>`+esc(r.Profile.GivenName)+`</oa:GivenName>`,
		`            <hr:FamilyName>`+esc(r.Profile.FamilyName)+`</hr:FamilyName>`,
		`        </PersonName>`,
	)
	if email != "" {
		add(
			`        <Communication>`,
			`            <ChannelCode>Email</ChannelCode>`,
			`            <oa:URI>`+esc(email)+`</oa:URI>`,
			`        </Communication>`,
		)
	}
	for _, link := range r.Links {
		if link.URL == "" {
			continue
		}
		add(
			`        <Communication>`,
			`            <ChannelCode>Web</ChannelCode>`,
			`            <oa:URI>`+esc(link.URL)+`</oa:URI>`,
			`        </Communication>`,
		)
	}
	if r.Contact != nil && len(r.Contact.Phones) > 0 {
		dialing, number := splitPhone(r.Contact.Phones[0])
		add(
			`        <Communication>`,
			`            <ChannelCode>Telephone</ChannelCode>`,
			`            <UseCode>work</UseCode>`,
			`            <CountryDialing>`+esc(dialing)+`</CountryDialing>`,
			`            <oa:DialNumber>`+esc(number)+`</oa:DialNumber>`,
			`            <CountryCode>`+codes.DialingCountry(dialing)+`</CountryCode>`,
			`        </Communication>`,
		)
	}

	loc := r.Profile.Location
	if loc != nil {
		// The region stands in for a missing street address.
		displayAddress := loc.Address
		if displayAddress == "" {
			displayAddress = loc.Region
		}
		add(
			`        <Communication>`,
			`            <UseCode>home</UseCode>`,
			`            <Address type="home">`,
			`                <oa:AddressLine>`+esc(displayAddress)+`</oa:AddressLine>`,
			`                <oa:CityName>`+esc(loc.Municipality)+`</oa:CityName>`,
			`                <CountryCode>`+codes.CountryCode(loc.Country)+`</CountryCode>`,
		)
		if loc.PostalCode != "" {
			add(`                <oa:PostalCode>` + esc(loc.PostalCode) + `</oa:PostalCode>`)
		}
		add(
			`            </Address>`,
			`        </Communication>`,
		)
	}

	nationality := ""
	if loc != nil {
		nationality = codes.CountryCode(loc.Country)
	}
	add(`        <NationalityCode>` + nationality + `</NationalityCode>`)
	if r.Profile.BirthDate != "" {
		add(`        <hr:BirthDate>` + esc(r.Profile.BirthDate) + `</hr:BirthDate>`)
	}
	add(
		`        <PrimaryLanguageCode name="NORMAL">`+e.primaryLanguage(r, langCode)+`</PrimaryLanguageCode>`,
		`    </CandidatePerson>`,
	)

	// CandidateProfile
	add(
		`    <CandidateProfile languageCode="`+langCode+`">`,
		`        <hr:ID schemeID="CV-001" schemeName="CandidateProfileID" schemeAgencyName="EUROPASS" schemeVersionID="1.0" />`,
	)

	e.addEmploymentHistory(add, r)
	e.addEducationHistory(add, r)

	add(`        <eures:Licenses />`)

	e.addCertifications(add, r)
	e.addQualifications(add, r)

	add(`        <EmploymentReferences />`)

	if r.Photo != nil && len(r.Photo.Data) > 0 {
		add(
			`        <eures:Attachment>`,
			`            <oa:EmbeddedData>`+encodePhoto(r.Photo)+`</oa:EmbeddedData>`,
			`            <oa:FileType>photo</oa:FileType>`,
			`            <hr:Instructions>ProfilePicture</hr:Instructions>`,
			`        </eures:Attachment>`,
		)
	}

	// Empty placeholder sections the external importer expects to find.
	add(
		`        <CreativeWorks />`,
		`        <Projects />`,
		`        <SocialAndPoliticalActivities />`,
		`        <Skills />`,
		`        <NetworksAndMemberships />`,
		`        <ConferencesAndSeminars />`,
		`        <VoluntaryWorks />`,
		`        <CourseCertifications />`,
		`    </CandidateProfile>`,
	)

	add(
		`    <RenderingInformation>`,
		`        <Design>`,
		`            <Template>Template3</Template>`,
		`            <Color>Default</Color>`,
		`            <FontSize>Medium</FontSize>`,
		`            <Logo>FirstPage</Logo>`,
		`            <PageNumbers>false</PageNumbers>`,
		`            <SectionsOrder>`,
		`                <Section>`,
		`                    <Title>work-experience</Title>`,
		`                </Section>`,
		`                <Section>`,
		`                    <Title>education-training</Title>`,
		`                </Section>`,
		`                <Section>`,
		`                    <Title>language</Title>`,
		`                </Section>`,
		`            </SectionsOrder>`,
		`        </Design>`,
		`    </RenderingInformation>`,
		`</Candidate>`,
	)

	return strings.Join(lines, "\n")
}

func (e Exporter) addEmploymentHistory(add func(...string), r *types.Resume) {
	if len(r.Jobs) == 0 {
		return
	}
	add(`        <EmploymentHistory>`)
	for _, job := range r.Jobs {
		orgCity, orgCountry := orgPlace(job.Organization.Location)
		for _, role := range job.Roles {
			start := dates.Normalize(role.StartDate)
			finish := dates.Normalize(role.FinishDate)

			add(
				`            <EmployerHistory>`,
				`                <hr:OrganizationName>`+esc(job.Organization.Name)+`</hr:OrganizationName>`,
				`                <OrganizationContact>`,
				`                    <Communication>`,
			)
			if orgCity != "" || orgCountry != "" {
				add(`                        <Address>`)
				if orgCity != "" {
					add(`                            <oa:CityName>` + esc(orgCity) + `</oa:CityName>`)
				}
				if orgCountry != "" {
					add(`                            <CountryCode>` + orgCountry + `</CountryCode>`)
				}
				add(`                        </Address>`)
			}
			add(
				`                    </Communication>`,
				`                </OrganizationContact>`,
				`                <PositionHistory>`,
				`                    <PositionTitle typeCode="FREETEXT">`+esc(role.Title)+`</PositionTitle>`,
				`                    <eures:EmploymentPeriod>`,
				`                        <eures:StartDate>`,
				`                            <hr:FormattedDateTime>`+start+`</hr:FormattedDateTime>`,
				`                        </eures:StartDate>`,
			)
			if finish != "" {
				add(
					`                        <eures:EndDate>`,
					`                            <hr:FormattedDateTime>`+finish+`</hr:FormattedDateTime>`,
					`                        </eures:EndDate>`,
				)
			}
			add(
				`                        <hr:CurrentIndicator>`+boolText(finish == "")+`</hr:CurrentIndicator>`,
				`                    </eures:EmploymentPeriod>`,
				`                    <oa:Description>`+esc(roleDescription(role))+`</oa:Description>`,
			)
			if orgCity != "" {
				add(`                    <City>` + esc(orgCity) + `</City>`)
			}
			if orgCountry != "" {
				add(`                    <Country>` + orgCountry + `</Country>`)
			}
			add(
				`                </PositionHistory>`,
				`            </EmployerHistory>`,
			)
		}
	}
	add(`        </EmploymentHistory>`)
}

// addEducationHistory emits every study here regardless of kind; the external
// schema keeps degrees and certifications together and treats the dedicated
// Certifications section as supplementary.
func (e Exporter) addEducationHistory(add func(...string), r *types.Resume) {
	if len(r.Studies) == 0 {
		return
	}
	add(`        <EducationHistory>`)
	for _, study := range r.Studies {
		instCity, instCountry := orgPlace(study.Institution.Location)
		start := dates.Normalize(study.StartDate)
		finish := dates.Normalize(study.FinishDate)
		end := finish
		if end == "" {
			end = start
		}

		add(
			`            <EducationOrganizationAttendance>`,
			`                <hr:OrganizationName>`+esc(study.Institution.Name)+`</hr:OrganizationName>`,
			`                <OrganizationContact>`,
			`                    <Communication>`,
		)
		if instCity != "" || instCountry != "" {
			add(`                        <Address>`)
			if instCity != "" {
				add(`                            <oa:CityName>` + esc(instCity) + `</oa:CityName>`)
			}
			if instCountry != "" {
				add(`                            <CountryCode>` + instCountry + `</CountryCode>`)
			}
			add(`                        </Address>`)
		}
		add(`                    </Communication>`)
		if study.Institution.URL != "" {
			add(
				`                    <Communication>`,
				`                        <ChannelCode>Web</ChannelCode>`,
				`                        <oa:URI>`+esc(study.Institution.URL)+`</oa:URI>`,
				`                    </Communication>`,
			)
		}
		add(
			`                </OrganizationContact>`,
			`                <AttendancePeriod>`,
			`                    <StartDate>`,
			`                        <hr:FormattedDateTime>`+start+`</hr:FormattedDateTime>`,
			`                    </StartDate>`,
			`                    <EndDate>`,
			`                        <hr:FormattedDateTime>`+end+`</hr:FormattedDateTime>`,
			`                    </EndDate>`,
			`                    <Ongoing>`+boolText(finish == "")+`</Ongoing>`,
			`                </AttendancePeriod>`,
			`                <EducationDegree>`,
			`                    <hr:DegreeName>`+esc(study.Name)+`</hr:DegreeName>`,
		)
		if study.Description != "" {
			add(`                    <OccupationalSkillsCovered>` + esc(study.Description) + `</OccupationalSkillsCovered>`)
		}
		add(
			`                </EducationDegree>`,
			`            </EducationOrganizationAttendance>`,
		)
	}
	add(`        </EducationHistory>`)
}

func (e Exporter) addCertifications(add func(...string), r *types.Resume) {
	var certs []types.Study
	for _, study := range r.Studies {
		if study.Kind == types.StudyCertification {
			certs = append(certs, study)
		}
	}
	if len(certs) == 0 {
		return
	}

	add(`        <Certifications>`)
	for _, cert := range certs {
		date := dates.Normalize(cert.FinishDate)
		if date == "" {
			date = dates.Normalize(cert.StartDate)
		}
		add(
			`            <Certification>`,
			`                <hr:CertificationName>`+esc(cert.Name)+`</hr:CertificationName>`,
			`                <hr:IssuingAuthority>`+esc(cert.Institution.Name)+`</hr:IssuingAuthority>`,
		)
		if cert.Description != "" {
			add(`                <hr:CertificationDescription>` + esc(cert.Description) + `</hr:CertificationDescription>`)
		}
		// CertificationDate is required even when empty.
		add(`                <hr:CertificationDate>`)
		if date != "" {
			add(`                    <hr:FormattedDateTime>` + date + `</hr:FormattedDateTime>`)
		}
		add(
			`                </hr:CertificationDate>`,
			`            </Certification>`,
		)
	}
	add(`        </Certifications>`)
}

func (e Exporter) addQualifications(add func(...string), r *types.Resume) {
	if len(r.Languages) == 0 {
		return
	}
	add(`        <PersonQualifications>`)
	for _, lang := range r.Languages {
		code := codes.LanguageCode(lang.Name)
		defaultLevel := codes.LevelToCEFR(lang.Level)

		add(
			`            <PersonCompetency>`,
			`                <CompetencyID schemeName="NORMAL">`+code+`</CompetencyID>`,
			`                <hr:TaxonomyID>language</hr:TaxonomyID>`,
		)
		for _, dim := range types.CEFRDimensions {
			score := defaultLevel
			if preserved, ok := lang.CEFRScores[dim]; ok {
				score = preserved
			}
			add(
				`                <eures:CompetencyDimension>`,
				`                    <hr:CompetencyDimensionTypeCode>`+dim+`</hr:CompetencyDimensionTypeCode>`,
				`                    <eures:Score>`,
				`                        <hr:ScoreText>`+score+`</hr:ScoreText>`,
				`                    </eures:Score>`,
				`                </eures:CompetencyDimension>`,
			)
		}
		add(`            </PersonCompetency>`)
	}

	if e.Profile == ProfileLanguageAndSkills {
		addSkillCompetencies(add, r)
	}

	add(`        </PersonQualifications>`)
}

// addSkillCompetencies emits hard and soft skills as competencies. Gated
// behind ProfileLanguageAndSkills because the external editor's parser
// silently rejects documents carrying them.
func addSkillCompetencies(add func(...string), r *types.Resume) {
	for _, skill := range r.HardSkills {
		if skill.Name == "" {
			continue
		}
		add(
			`            <PersonCompetency>`,
			`                <CompetencyID schemeName="HARDSKILL">`+esc(skill.Name)+`</CompetencyID>`,
			`                <hr:TaxonomyID>hard-skill</hr:TaxonomyID>`,
		)
		if skill.Level != "" {
			add(
				`                <eures:CompetencyDimension>`,
				`                    <hr:CompetencyDimensionTypeCode>Proficiency</hr:CompetencyDimensionTypeCode>`,
				`                    <eures:Score>`,
				`                        <hr:ScoreText>`+skillScore(skill.Level)+`</hr:ScoreText>`,
				`                    </eures:Score>`,
				`                </eures:CompetencyDimension>`,
			)
		}
		add(`            </PersonCompetency>`)
	}

	for _, skill := range r.SoftSkills {
		if skill.Name == "" {
			continue
		}
		add(
			`            <PersonCompetency>`,
			`                <CompetencyID schemeName="SOFTSKILL">`+esc(skill.Name)+`</CompetencyID>`,
			`                <hr:TaxonomyID>soft-skill</hr:TaxonomyID>`,
			`            </PersonCompetency>`,
		)
	}
}

var skillScores = map[string]string{
	"expert": "5",
	"high":   "4",
	"medium": "3",
	"low":    "2",
	"basic":  "1",
}

func skillScore(level string) string {
	if score, ok := skillScores[strings.ToLower(level)]; ok {
		return score
	}
	return "3"
}

// primaryLanguage picks the person's first listed language, falling back to
// the document language.
func (e Exporter) primaryLanguage(r *types.Resume, langCode string) string {
	if len(r.Languages) > 0 {
		if code := codes.LanguageCode(r.Languages[0].Name); code != "" {
			return code
		}
	}
	switch langCode {
	case "en":
		return "eng"
	case "fr":
		return "fre"
	default:
		return langCode
	}
}

// roleDescription selects a role's description by priority: the rich-text
// blob, then a list built from achievement statements, then empty.
func roleDescription(role types.Role) string {
	if role.Description != "" {
		return role.Description
	}
	return richtext.BuildList(role.Achievements)
}

// encodePhoto applies the double encoding the external schema expects: the
// raw image becomes a base64 data URI, and the whole URI is base64 encoded
// again.
func encodePhoto(photo *types.Photo) string {
	mime := photo.MIME
	if mime == "" {
		mime = "image/jpeg"
	}
	uri := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(photo.Data)
	return base64.StdEncoding.EncodeToString([]byte(uri))
}

// splitPhone splits an E.164-style string into dialing code and national
// number. The dialing table drives the split; only a number whose prefix is
// not in the table falls back to the assumed two-digit dialing code.
func splitPhone(phone string) (dialing, number string) {
	phone = strings.TrimSpace(phone)
	if !strings.HasPrefix(phone, "+") {
		return "", phone
	}
	digits := phone[1:]
	if d, n, ok := codes.SplitDialing(digits); ok {
		return d, n
	}
	if len(digits) > 2 {
		return digits[:2], digits[2:]
	}
	return digits, ""
}

func orgPlace(loc *types.Location) (city, country string) {
	if loc == nil {
		return "", ""
	}
	return loc.Municipality, codes.CountryCode(loc.Country)
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
