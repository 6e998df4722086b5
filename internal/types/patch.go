package types

// ResumePatch is a partial update to a resume. Merge semantics are a shallow
// merge at top-level-field granularity: a non-nil field replaces the target
// field wholesale, nested objects are never deep-merged.
type ResumePatch struct {
	Settings   *Settings      `json:"settings,omitempty"`
	Profile    *Profile       `json:"profile,omitempty"`
	Jobs       *[]Job         `json:"jobs,omitempty"`
	Studies    *[]Study       `json:"studies,omitempty"`
	Languages  *[]Language    `json:"languages,omitempty"`
	HardSkills *[]Skill       `json:"hard_skills,omitempty"`
	SoftSkills *[]Skill       `json:"soft_skills,omitempty"`
	Links      *[]ProfileLink `json:"links,omitempty"`
	Contact    *ContactInfo   `json:"contact,omitempty"`
	Photo      *Photo         `json:"photo,omitempty"`
}

// Apply merges the patch into the resume.
func (p ResumePatch) Apply(r *Resume) {
	if p.Settings != nil {
		r.Settings = *p.Settings
	}
	if p.Profile != nil {
		r.Profile = *p.Profile
	}
	if p.Jobs != nil {
		r.Jobs = *p.Jobs
	}
	if p.Studies != nil {
		r.Studies = *p.Studies
	}
	if p.Languages != nil {
		r.Languages = *p.Languages
	}
	if p.HardSkills != nil {
		r.HardSkills = *p.HardSkills
	}
	if p.SoftSkills != nil {
		r.SoftSkills = *p.SoftSkills
	}
	if p.Links != nil {
		r.Links = *p.Links
	}
	if p.Contact != nil {
		r.Contact = p.Contact
	}
	if p.Photo != nil {
		r.Photo = p.Photo
	}
}
