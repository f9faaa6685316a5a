package types

import (
	"regexp"
)

// HoursType is one of the four hour ledger categories.
type HoursType string

const (
	HoursDevelopment  HoursType = "development"
	HoursProfessional HoursType = "professional"
	HoursService      HoursType = "service"
	HoursSocial       HoursType = "social"
)

// Member ranks
const (
	RankActive = "active"
	RankAlumni = "alumni"
)

var ValidHoursTypes = []HoursType{
	HoursDevelopment, HoursProfessional, HoursService, HoursSocial,
}


var whitespace = regexp.MustCompile(`\s+`)

// ParseHoursType normalizes whitespace runs to underscores and matches the
// result case-sensitively against the known categories.
func ParseHoursType(label string) (HoursType, bool) {
	normalized := whitespace.ReplaceAllString(label, "_")
	for _, h := range ValidHoursTypes {
		if string(h) == normalized {
			return h, true
		}
	}
	return "", false
}

// Column returns the member counter column credited for this category.
func (h HoursType) Column() string {
	return string(h) + "_hours"
}
