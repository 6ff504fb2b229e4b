package activity

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestCursor_RoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 7, 14, 9, 30, 45, 123456789, time.UTC)
	cursor := encodeCursor(createdAt, 982)

	gotTime, gotID, err := decodeCursor(cursor)
	if err != nil {
		t.Fatalf("decodeCursor() error: %v", err)
	}
	if !gotTime.Equal(createdAt) {
		t.Errorf("expected time %v, got %v", createdAt, gotTime)
	}
	if gotID != 982 {
		t.Errorf("expected id 982, got %d", gotID)
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"no separator", base64.StdEncoding.EncodeToString([]byte("justonepart"))},
		{"bad timestamp", base64.StdEncoding.EncodeToString([]byte("yesterday|42"))},
		{"bad id", base64.StdEncoding.EncodeToString([]byte("2025-07-14T09:30:45Z|abc"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := decodeCursor(tt.cursor); err == nil {
				t.Error("expected error for invalid cursor")
			}
		})
	}
}
