package domain

import "slices"

// Gender is the profile's gender filter as the catalog provider understands it.
type Gender string

const (
	GenderUnset   Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

// ParseGender maps user-facing labels onto provider filter values.
// Unknown labels fall back to the neutral filter rather than failing.
func ParseGender(s string) Gender {
	switch s {
	case "male", "Male":
		return GenderMale
	case "female", "Female":
		return GenderFemale
	case "":
		return GenderUnset
	default:
		return GenderNeutral
	}
}

// FilterCriteria is the user-supplied feed filter. Categories are opaque
// identifiers forwarded to the catalog provider; the engine never interprets
// them. Any mutation invalidates the current feed queue.
type FilterCriteria struct {
	Gender     Gender   `json:"gender"`
	Categories []string `json:"categories"`
}

// Equal reports whether two criteria select the same feed. Category order is
// not significant.
func (f FilterCriteria) Equal(other FilterCriteria) bool {
	if f.Gender != other.Gender || len(f.Categories) != len(other.Categories) {
		return false
	}
	a := slices.Clone(f.Categories)
	b := slices.Clone(other.Categories)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// Profile is the per-user preference state gathered during setup.
type Profile struct {
	Gender     Gender   `json:"gender"`
	Categories []string `json:"categories"`
	Complete   bool     `json:"complete"`
}

// Criteria returns the feed filter derived from the profile.
func (p Profile) Criteria() FilterCriteria {
	return FilterCriteria{Gender: p.Gender, Categories: p.Categories}
}
