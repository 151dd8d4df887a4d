package listing

import (
	"regexp"
	"strings"
)

// Section headings the prompt asks the model to emit, in order.
const (
	SectionTitle            = "Title"
	SectionPrice            = "Price"
	SectionDescription      = "Description"
	SectionImageSuggestions = "Image Suggestions"
)

var sectionHeadings = map[string]*regexp.Regexp{
	SectionTitle:            headingPattern(SectionTitle),
	SectionPrice:            headingPattern(SectionPrice),
	SectionDescription:      headingPattern(SectionDescription),
	SectionImageSuggestions: headingPattern(SectionImageSuggestions),
}

// headingPattern matches "## <name>" followed by a line break, tolerating
// whitespace around the name.
func headingPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)##\s*` + regexp.QuoteMeta(name) + `\s*\n`)
}

// ParseResponse slices a model reply into listing fields using the "## "
// section headings. Each heading is located independently, so section order
// does not matter. Missing sections yield empty values.
func ParseResponse(text string) GeneratedListing {
	images := strings.Split(section(text, SectionImageSuggestions), "\n")
	suggestions := make([]string, 0, len(images))
	for _, line := range images {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http") {
			suggestions = append(suggestions, line)
		}
	}

	return GeneratedListing{
		Title:            section(text, SectionTitle),
		Price:            section(text, SectionPrice),
		Description:      section(text, SectionDescription),
		ImageSuggestions: suggestions,
	}
}

// section returns the trimmed body following the named heading, up to the
// next line starting with "##" or the end of text.
func section(text, name string) string {
	loc := sectionHeadings[name].FindStringIndex(text)
	if loc == nil {
		return ""
	}

	body := text[loc[1]:]
	// Heading directly followed by another heading: empty section
	if strings.HasPrefix(body, "##") {
		return ""
	}
	if end := strings.Index(body, "\n##"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
