package core

import (
	"fmt"
	"strings"
)

// Resource name helpers. All Model Armor and DLP resources use
// hierarchical names of the form projects/{project}/locations/{location}/...

// LocationName returns projects/{project}/locations/{location}.
func LocationName(project, location string) string {
	return fmt.Sprintf("projects/%s/locations/%s", project, location)
}

// TemplateName returns the full resource name of a safety template.
func TemplateName(project, location, templateID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/templates/%s", project, location, templateID)
}

// FloorSettingName returns the name of the project's floor setting
// singleton. Floor settings live in the global location only.
func FloorSettingName(project string) string {
	return fmt.Sprintf("projects/%s/locations/global/floorSetting", project)
}

// InspectTemplateName returns the full name of a DLP inspect template.
func InspectTemplateName(project, location, templateID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/inspectTemplates/%s", project, location, templateID)
}

// DeidentifyTemplateName returns the full name of a DLP deidentify template.
func DeidentifyTemplateName(project, location, templateID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/deidentifyTemplates/%s", project, location, templateID)
}

// ParseTemplateName splits a template resource name into its components.
func ParseTemplateName(name string) (project, location, templateID string, err error) {
	parts := strings.Split(name, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "locations" || parts[4] != "templates" {
		return "", "", "", fmt.Errorf("invalid template name %q: want projects/{project}/locations/{location}/templates/{id}", name)
	}
	for _, p := range []string{parts[1], parts[3], parts[5]} {
		if p == "" {
			return "", "", "", fmt.Errorf("invalid template name %q: empty component", name)
		}
	}
	return parts[1], parts[3], parts[5], nil
}

// TemplateID returns the final component of a template resource name.
func TemplateID(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
