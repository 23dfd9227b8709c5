package domain

import "strings"

// NoMajorIssues is reported when no issue category matches.
const NoMajorIssues = "No major issues found"

type issueCategory struct {
	name     string
	keywords []string
}

// issueCategories is ordered; output follows this order, not violation order.
var issueCategories = []issueCategory{
	{"Heat/Hot Water", []string{"heat", "hot water", "boiler"}},
	{"Pest Infestation", []string{"roach", "rat", "mice", "pest"}},
	{"Mold", []string{"mold", "mildew"}},
	{"Plumbing", []string{"plumbing", "leak", "pipe"}},
}

// ExtractIssues tags violation descriptions with issue categories.
func ExtractIssues(records []ViolationRecord) []string {
	found := make([]bool, len(issueCategories))
	for _, v := range records {
		desc := strings.ToLower(v.Description)
		for i, cat := range issueCategories {
			if found[i] {
				continue
			}
			for _, kw := range cat.keywords {
				if strings.Contains(desc, kw) {
					found[i] = true
					break
				}
			}
		}
	}

	var issues []string
	for i, cat := range issueCategories {
		if found[i] {
			issues = append(issues, cat.name)
		}
	}
	if len(issues) == 0 {
		return []string{NoMajorIssues}
	}
	return issues
}
