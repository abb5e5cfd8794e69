package models

import (
	"encoding/json"
	"sort"
)

// ProfileSchemaVersion is written into every saved profile
const ProfileSchemaVersion = 1

// DefaultAvatar is the avatar given to new learners
const DefaultAvatar = "default"

// AvatarOptions lists the selectable avatar icons and their display names
var AvatarOptions = []AvatarOption{
	{ID: "default", Name: "Robo"},
	{ID: "cute", Name: "Sparky"},
	{ID: "wise", Name: "Professor"},
	{ID: "super", Name: "Bolt"},
}

// AvatarOption is one selectable avatar
type AvatarOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsKnownAvatar reports whether icon is one of AvatarOptions
func IsKnownAvatar(icon string) bool {
	for _, opt := range AvatarOptions {
		if opt.ID == icon {
			return true
		}
	}
	return false
}

// Avatar is the learner's chosen avatar
type Avatar struct {
	Icon string `json:"icon"`
}

// StreakData tracks consecutive login days. LastLogin is a YYYY-MM-DD date or empty.
type StreakData struct {
	Count     int    `json:"count"`
	LastLogin string `json:"lastLogin"`
}

// Profile is the durable learning state of one account
type Profile struct {
	SchemaVersion int        `json:"schemaVersion"`
	Avatar        Avatar     `json:"avatar"`
	StreakData    StreakData `json:"streakData"`
	Progress      Progress   `json:"progress"`
	Badges        StringSet  `json:"badges"`
	Favorites     StringSet  `json:"favorites"`
	StarPenalty   int        `json:"starPenalty"`
}

// NewProfile returns the zero-value profile created at signup
func NewProfile() *Profile {
	return &Profile{
		SchemaVersion: ProfileSchemaVersion,
		Avatar:        Avatar{Icon: DefaultAvatar},
		Progress:      Progress{},
		Badges:        StringSet{},
		Favorites:     StringSet{},
	}
}

// Normalize fills fields missing from older or hand-edited records
func (p *Profile) Normalize() {
	if p.Avatar.Icon == "" {
		p.Avatar.Icon = DefaultAvatar
	}
	if p.Progress == nil {
		p.Progress = Progress{}
	}
	for courseID, lessons := range p.Progress {
		if len(lessons) == 0 {
			delete(p.Progress, courseID)
		}
	}
	if p.Badges == nil {
		p.Badges = StringSet{}
	}
	if p.Favorites == nil {
		p.Favorites = StringSet{}
	}
	if p.StarPenalty < 0 {
		p.StarPenalty = 0
	}
	if p.StreakData.Count < 0 {
		p.StreakData.Count = 0
	}
	p.SchemaVersion = ProfileSchemaVersion
}

// Clone returns a deep copy
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Progress = p.Progress.Clone()
	cp.Badges = p.Badges.Clone()
	cp.Favorites = p.Favorites.Clone()
	return &cp
}

// StringSet is a set of ids, stored as a sorted JSON array
type StringSet map[string]struct{}

// NewStringSet builds a set from ids
func NewStringSet(ids ...string) StringSet {
	s := make(StringSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s StringSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s StringSet) Add(id string) {
	s[id] = struct{}{}
}

func (s StringSet) Remove(id string) {
	delete(s, id)
}

// Sorted returns the members in lexical order
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s StringSet) Clone() StringSet {
	cp := make(StringSet, len(s))
	for id := range s {
		cp[id] = struct{}{}
	}
	return cp
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewStringSet(ids...)
	return nil
}

// Progress maps a course id to the set of completed lesson ids
type Progress map[string]StringSet

// Has reports whether the lesson is recorded as completed
func (p Progress) Has(courseID, lessonID string) bool {
	return p[courseID].Has(lessonID)
}

// Add records a completed lesson
func (p Progress) Add(courseID, lessonID string) {
	lessons := p[courseID]
	if lessons == nil {
		lessons = StringSet{}
		p[courseID] = lessons
	}
	lessons.Add(lessonID)
}

// Count returns the size of a course's completed set
func (p Progress) Count(courseID string) int {
	return len(p[courseID])
}

func (p Progress) Clone() Progress {
	cp := make(Progress, len(p))
	for courseID, lessons := range p {
		cp[courseID] = lessons.Clone()
	}
	return cp
}
