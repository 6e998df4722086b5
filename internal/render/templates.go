package render

// Template identifies one of the CV editor's layout templates.
type Template string

const (
	TemplateAcademic   Template = "cv-academic"
	TemplateCreative   Template = "cv-creative"
	TemplateElegant    Template = "cv-elegant"
	TemplateFormal     Template = "cv-formal"
	TemplateModern     Template = "cv-modern"
	TemplateSemiFormal Template = "cv-semi-formal"

	// DefaultTemplate is the layout used when none is requested.
	DefaultTemplate = TemplateFormal
)

var templateNames = []string{
	string(TemplateAcademic),
	string(TemplateCreative),
	string(TemplateElegant),
	string(TemplateFormal),
	string(TemplateModern),
	string(TemplateSemiFormal),
}

// Templates returns the names of all available templates.
func Templates() []string {
	names := make([]string, len(templateNames))
	copy(names, templateNames)
	return names
}

// ValidateTemplate checks that the name matches an available template. An
// empty name is valid and means DefaultTemplate.
func ValidateTemplate(name string) (Template, error) {
	if name == "" {
		return DefaultTemplate, nil
	}
	for _, known := range templateNames {
		if name == known {
			return Template(name), nil
		}
	}
	return "", &UnknownTemplateError{Name: name}
}
