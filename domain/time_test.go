package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339",
			input: `"2024-03-05T12:30:00Z"`,
			want:  time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC),
		},
		{
			name:  "python isoformat without zone",
			input: `"2024-03-05T12:30:00.123456"`,
			want:  time.Date(2024, 3, 5, 12, 30, 0, 123456000, time.UTC),
		},
		{
			name:  "seconds precision without zone",
			input: `"2024-03-05T12:30:00"`,
			want:  time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Time
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, ts.Time)
			}
		})
	}
}

func TestTime_UnmarshalJSON_Null(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte("null"), &ts); err != nil {
		t.Fatalf("Unmarshal null failed: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("Expected zero time for null, got %v", ts.Time)
	}
}

func TestTime_UnmarshalJSON_Garbage(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte(`"not a date"`), &ts); err == nil {
		t.Error("Expected error for unparseable timestamp")
	}
}

func TestPost_UnmarshalWireShape(t *testing.T) {
	raw := `{
		"id": 42,
		"content": "hello world",
		"created_at": "2024-03-05T12:30:00.000001",
		"author": {"id": 7, "username": "alice", "avatar": "default_avatar.png"},
		"is_own": true
	}`

	var p Post
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Id != 42 {
		t.Errorf("Expected Id 42, got %d", p.Id)
	}
	if p.Author.Username != "alice" {
		t.Errorf("Expected author 'alice', got '%s'", p.Author.Username)
	}
	if !p.IsOwn {
		t.Error("Expected IsOwn true")
	}
}

func TestFeedMode_Label(t *testing.T) {
	if ModeBalanced.Label() != "for you" {
		t.Errorf("Expected 'for you', got '%s'", ModeBalanced.Label())
	}
	if FeedMode("custom").Label() != "custom" {
		t.Errorf("Expected fallthrough to raw mode string, got '%s'", FeedMode("custom").Label())
	}
}

func TestUser_HasAvatar(t *testing.T) {
	u := &User{Avatar: ""}
	if u.HasAvatar() {
		t.Error("Expected no avatar for empty filename")
	}
	u.Avatar = DefaultAvatar
	if u.HasAvatar() {
		t.Error("Expected no avatar for server placeholder")
	}
	u.Avatar = "alice_1700000000.png"
	if !u.HasAvatar() {
		t.Error("Expected avatar for a real filename")
	}
}
