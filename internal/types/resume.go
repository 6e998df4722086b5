// Package types provides type definitions for the canonical CV record used throughout the europass-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CEFR dimension identifiers. These are the five axes the external schema
// scores a language on; CEFRScores maps are keyed by them.
const (
	CEFRListening         = "CEF-Understanding-Listening"
	CEFRReading           = "CEF-Understanding-Reading"
	CEFRSpokenInteraction = "CEF-Speaking-Interaction"
	CEFRSpokenProduction  = "CEF-Speaking-Production"
	CEFRWriting           = "CEF-Writing-Production"
)

// CEFRDimensions lists the five dimension identifiers in emission order.
var CEFRDimensions = []string{
	CEFRListening,
	CEFRReading,
	CEFRSpokenInteraction,
	CEFRSpokenProduction,
	CEFRWriting,
}

// StudyKind classifies an education entry.
type StudyKind string

// Study kinds. Kind is often inferred from the credential name and date span
// rather than carried explicitly by the wire format.
const (
	StudyDegree        StudyKind = "degree"
	StudyCertification StudyKind = "certification"
	StudyCourse        StudyKind = "course"
	StudySelfTraining  StudyKind = "selfTraining"
)

// Settings holds document-level preferences.
type Settings struct {
	Language string `json:"language,omitempty"` // Document language tag, e.g. "en", "fr"
}

// Location is a postal location. Every field is individually optional.
type Location struct {
	Country      string `json:"country,omitempty"` // Human-readable name or raw external code; 2-letter codes are derived, never stored
	Region       string `json:"region,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Address      string `json:"address,omitempty"`
}

// Profile holds personal identity information.
type Profile struct {
	GivenName  string    `json:"given_name" validate:"required"`
	FamilyName string    `json:"family_name" validate:"required"`
	Title      string    `json:"title,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	BirthDate  string    `json:"birth_date,omitempty"`
	Location   *Location `json:"location,omitempty"`
}

// ContactInfo holds contact channels.
type ContactInfo struct {
	Emails []string `json:"emails,omitempty"`
	Phones []string `json:"phones,omitempty"` // E.164 strings or already-split numbers
}

// ProfileLink is a link to an external public profile.
type ProfileLink struct {
	Type string `json:"type"` // linkedin, github, website, other
	URL  string `json:"url"`
}

// LinkTypeFor classifies a URL into the ProfileLink taxonomy.
func LinkTypeFor(url string) string {
	u := strings.ToLower(url)
	switch {
	case strings.Contains(u, "linkedin.com"):
		return "linkedin"
	case strings.Contains(u, "github.com"):
		return "github"
	default:
		return "website"
	}
}

// Organization is an employer or educational institution.
type Organization struct {
	Name     string    `json:"name"`
	URL      string    `json:"url,omitempty"`
	Location *Location `json:"location,omitempty"`
}

// Role is a position held at an organization.
//
// An empty FinishDate means "current position". It is a load-bearing absence:
// nothing may fill it with a placeholder date.
type Role struct {
	Title      string `json:"title"`
	StartDate  string `json:"start_date"`
	FinishDate string `json:"finish_date,omitempty"`
	// Description carries the full rich-text blob when one exists. When both
	// Description and Achievements are set, Description wins and Achievements
	// are discarded, not merged.
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Current reports whether the role is a current position.
func (r Role) Current() bool {
	return r.FinishDate == ""
}

// Job groups the roles held at one organization, most recent first by
// convention.
type Job struct {
	Organization Organization `json:"organization"`
	Roles        []Role       `json:"roles"`
}

// Study is an education entry.
type Study struct {
	Institution Organization `json:"institution"`
	Name        string       `json:"name"`
	StartDate   string       `json:"start_date"`
	FinishDate  string       `json:"finish_date,omitempty"`
	Kind        StudyKind    `json:"kind"`
	Achieved    bool         `json:"achieved"`
	Description string       `json:"description,omitempty"`
}

// Language is a language proficiency entry.
//
// CEFRScores, when present (typically round-tripped from an import), is
// preserved dimension-by-dimension and never collapsed back to Level. When
// absent, export synthesizes a uniform map from Level.
type Language struct {
	Name       string            `json:"name"`
	FullName   string            `json:"full_name,omitempty"`
	Level      string            `json:"level,omitempty"`
	CEFRScores map[string]string `json:"cefr_scores,omitempty"`
}

// Skill is a hard or soft skill entry.
type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"` // expert, high, medium, low
}

// Photo is an embedded profile picture.
type Photo struct {
	Data []byte `json:"data"`
	MIME string `json:"mime"` // image/jpeg or image/png
}

// Resume is the canonical CV record. All components read or produce this
// model; it deliberately holds more than the wire format exposes.
type Resume struct {
	Settings   Settings     `json:"settings"`
	Profile    Profile      `json:"profile" validate:"required"`
	Jobs       []Job        `json:"jobs,omitempty"`
	Studies    []Study      `json:"studies,omitempty"`
	Languages  []Language   `json:"languages,omitempty"`
	HardSkills []Skill      `json:"hard_skills,omitempty"`
	SoftSkills []Skill      `json:"soft_skills,omitempty"`
	Links      []ProfileLink `json:"links,omitempty"`
	Contact    *ContactInfo `json:"contact,omitempty"`
	Photo      *Photo       `json:"photo,omitempty"`

	// RawXML, when non-empty, is a previously imported external document.
	// Export must emit it verbatim instead of re-deriving from the (possibly
	// stale) structured fields.
	RawXML string `json:"-"`
}

var validate = validator.New()

// NewResume constructs a validated resume around a profile. Construction
// fails when either required name is empty.
func NewResume(profile Profile) (*Resume, error) {
	r := &Resume{
		Settings: Settings{Language: "en"},
		Profile:  profile,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the record's structural invariants.
func (r *Resume) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid resume: field %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid resume: %w", err)
	}
	return nil
}

// FullName returns "GivenName FamilyName" for summaries and logs.
func (r *Resume) FullName() string {
	return r.Profile.GivenName + " " + r.Profile.FamilyName
}
