package search

import (
	"strings"

	"github.com/poiesic/staffit/core"
)

// Matches reports whether document metadata passes every active filter of the
// query. It is a pure predicate: inactive filters (zero values) pass
// vacuously, active filters are conjunctive.
func Matches(meta *core.DocumentMeta, query *core.Query) bool {
	if query.Name != "" &&
		!strings.Contains(strings.ToLower(meta.Name), strings.ToLower(query.Name)) {
		return false
	}

	if len(query.Skills) > 0 && !skillsIntersect(meta.Skills, query.Skills) {
		return false
	}

	if query.Department != "" && !strings.EqualFold(meta.Department, query.Department) {
		return false
	}

	if query.MinExperience > 0 && meta.ExperienceYears < query.MinExperience {
		return false
	}

	if query.Availability != 0 && meta.Availability != query.Availability {
		return false
	}

	return true
}

// HasActiveFilters reports whether the query carries any structured filter.
// A query with neither text nor filters is refused by the Searcher rather
// than answered with a full corpus dump.
func HasActiveFilters(query *core.Query) bool {
	return query.Name != "" ||
		len(query.Skills) > 0 ||
		query.Department != "" ||
		query.MinExperience > 0 ||
		query.Availability != 0
}

// skillsIntersect reports whether any queried skill appears in the metadata
// skill set, case-insensitively. Metadata skills are already normalized to
// lowercase; query skills may arrive in any casing.
func skillsIntersect(metaSkills, querySkills []string) bool {
	for _, qs := range querySkills {
		q := strings.ToLower(strings.TrimSpace(qs))
		if q == "" {
			continue
		}
		for _, ms := range metaSkills {
			if q == ms {
				return true
			}
		}
	}
	return false
}
