package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlatform(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
	}{
		{"instagram", PlatformInstagram},
		{"tiktok", PlatformTikTok},
		{"twitter", PlatformTwitter},
		{"x", PlatformTwitter},
		{"youtube", PlatformYouTube},
		{"linkedin", PlatformLinkedIn},
		{"", PlatformInstagram},
		{"myspace", PlatformInstagram},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePlatform(tt.in), tt.in)
	}
}

func TestVibeCheckable(t *testing.T) {
	assert.True(t, PlatformInstagram.VibeCheckable())
	assert.True(t, PlatformTikTok.VibeCheckable())
	assert.False(t, PlatformTwitter.VibeCheckable())
	assert.False(t, PlatformYouTube.VibeCheckable())
	assert.False(t, PlatformLinkedIn.VibeCheckable())
}

func TestEligible(t *testing.T) {
	assert.True(t, (&Lead{Handle: "janedoe"}).Eligible())
	assert.True(t, (&Lead{Name: "Jane Doe"}).Eligible())
	assert.False(t, (&Lead{Bio: "no identity"}).Eligible())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", (&Lead{Name: "Jane Doe", Handle: "janedoe"}).DisplayName())
	assert.Equal(t, "janedoe", (&Lead{Handle: "janedoe"}).DisplayName())
}

func TestVectorID(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "lead-42", (&Lead{ID: "lead-42", Handle: "janedoe"}).VectorID())
	assert.Equal(t, "janedoe", (&Lead{Handle: "janedoe", CreatedAt: created}).VectorID())
	assert.Equal(t, "2026-03-01T12:00:00Z", (&Lead{CreatedAt: created}).VectorID())
}

func TestDisplayScore(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{8.5, 85},
		{10, 100},
		{0, 0},
		{7.24, 72},
		{7.25, 73},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayScore(tt.score))
	}
}
