package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				Email:     "kid@example.com",
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			if got := session.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfileJSONLayout(t *testing.T) {
	p := NewProfile()
	p.Progress.Add("c1", "l1-2")
	p.Progress.Add("c1", "l1-1")
	p.Badges.Add("star-collector-100")
	p.Favorites.Add("c3")
	p.StarPenalty = 10
	p.StreakData = StreakData{Count: 2, LastLogin: "2024-03-02"}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"schemaVersion":1,"avatar":{"icon":"default"},"streakData":{"count":2,"lastLogin":"2024-03-02"},` +
		`"progress":{"c1":["l1-1","l1-2"]},"badges":["star-collector-100"],"favorites":["c3"],"starPenalty":10}`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestProfileNormalize(t *testing.T) {
	var p Profile
	if err := json.Unmarshal([]byte(`{"progress":{"c1":["l1-1"],"c2":null},"starPenalty":-5}`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	p.Normalize()

	if p.Avatar.Icon != DefaultAvatar {
		t.Errorf("Avatar.Icon = %q, want %q", p.Avatar.Icon, DefaultAvatar)
	}
	if p.StarPenalty != 0 {
		t.Errorf("StarPenalty = %d, want 0", p.StarPenalty)
	}
	if p.Badges == nil || p.Favorites == nil {
		t.Error("expected badge and favorite sets to be initialised")
	}
	if !p.Progress.Has("c1", "l1-1") {
		t.Error("expected c1/l1-1 to survive normalisation")
	}
	if p.Progress.Count("c2") != 0 {
		t.Errorf("Count(c2) = %d, want 0", p.Progress.Count("c2"))
	}
	if p.SchemaVersion != ProfileSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", p.SchemaVersion, ProfileSchemaVersion)
	}
}

func TestProfileCloneIsDeep(t *testing.T) {
	p := NewProfile()
	p.Progress.Add("c1", "l1-1")

	cp := p.Clone()
	cp.Progress.Add("c1", "l1-2")
	cp.Badges.Add("first-course-complete")

	if p.Progress.Has("c1", "l1-2") {
		t.Error("clone shares progress with original")
	}
	if p.Badges.Has("first-course-complete") {
		t.Error("clone shares badges with original")
	}
}

func TestIsKnownAvatar(t *testing.T) {
	for _, icon := range []string{"default", "cute", "wise", "super"} {
		if !IsKnownAvatar(icon) {
			t.Errorf("IsKnownAvatar(%q) = false, want true", icon)
		}
	}
	if IsKnownAvatar("dragon") {
		t.Error("IsKnownAvatar(dragon) = true, want false")
	}
}
