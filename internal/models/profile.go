package models

import (
	"strconv"
	"time"
)

// Profile is a user's public profile. Created once at signup completion,
// then mutated field by field through partial updates; the cache merge
// must preserve fields a given update does not touch.
type Profile struct {
	UserID    string   `json:"userId"`
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	Gender    string   `json:"gender"`
	BirthYear string   `json:"birthYear"`
	Friends   []string `json:"friends,omitempty"` // reserved, unused
}

// Apply merges a partial update onto the profile. Unknown keys are
// ignored; fields absent from the update keep their current value.
func (p *Profile) Apply(fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "name":
			if v, ok := value.(string); ok {
				p.Name = v
			}
		case "bio":
			if v, ok := value.(string); ok {
				p.Bio = v
			}
		case "gender":
			if v, ok := value.(string); ok {
				p.Gender = v
			}
		case "birthYear":
			if v, ok := value.(string); ok {
				p.BirthYear = v
			}
		case "friends":
			switch v := value.(type) {
			case []string:
				p.Friends = v
			case []any:
				friends := make([]string, 0, len(v))
				for _, f := range v {
					if s, ok := f.(string); ok {
						friends = append(friends, s)
					}
				}
				p.Friends = friends
			}
		}
	}
}

// Age derives the age string shown next to a profile from its birth year.
func (p *Profile) Age(now time.Time) string {
	year, err := strconv.Atoi(p.BirthYear)
	if err != nil {
		return ""
	}
	return strconv.Itoa(now.Year() - year)
}
