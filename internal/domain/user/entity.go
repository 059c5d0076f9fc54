package user

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Availability string

const (
	AvailabilityWeekends Availability = "Weekends"
	AvailabilityEvenings Availability = "Evenings"
	AvailabilityFlexible Availability = "Flexible"
)

var availabilities = []Availability{AvailabilityWeekends, AvailabilityEvenings, AvailabilityFlexible}

// ParseAvailability matches raw case-insensitively and returns the
// canonical label.
func ParseAvailability(raw string) (Availability, bool) {
	raw = strings.TrimSpace(raw)
	for _, a := range availabilities {
		if strings.EqualFold(raw, string(a)) {
			return a, true
		}
	}
	return "", false
}

type User struct {
	ID            uuid.UUID
	Name          string
	Email         string
	PasswordHash  string
	Location      string
	SkillsOffered []string
	SkillsWanted  []string
	Availability  Availability
	ProfilePhoto  *string
	IsPublic      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileUpdate holds the owner-mutable fields. A nil ProfilePhoto keeps
// the stored photo.
type ProfileUpdate struct {
	Name          string
	Location      string
	Availability  Availability
	SkillsOffered []string
	SkillsWanted  []string
	IsPublic      bool
	ProfilePhoto  *string
}

type DirectoryFilter struct {
	Search       string
	Availability string
	Page         int
	Limit        int
	ExcludeID    uuid.UUID
}

// Offset returns the number of rows to skip. ok is false when the page lies
// past any representable offset, which callers treat as an empty page.
func (f DirectoryFilter) Offset() (offset int, ok bool) {
	if f.Page < 1 || f.Limit < 1 {
		return 0, true
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return 0, false
	}
	return (f.Page - 1) * f.Limit, true
}

// TotalPages is ceil(total/limit) without the overflow of total+limit-1.
func TotalPages(total, limit int) int {
	if limit < 1 || total < 1 {
		return 0
	}
	n := total / limit
	if total%limit != 0 {
		n++
	}
	return n
}
