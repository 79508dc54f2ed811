package model

import (
	"math"
	"time"
)

// Platform identifies the social network a lead was sourced from.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
	PlatformYouTube   Platform = "youtube"
	PlatformLinkedIn  Platform = "linkedin"
)

// NormalizePlatform maps a raw platform string to a known Platform,
// defaulting to Instagram for empty or unrecognized values.
func NormalizePlatform(s string) Platform {
	switch Platform(s) {
	case PlatformInstagram, PlatformTikTok, PlatformTwitter, PlatformYouTube, PlatformLinkedIn:
		return Platform(s)
	case "x":
		return PlatformTwitter
	default:
		return PlatformInstagram
	}
}

// VibeCheckable reports whether the platform goes through the visual
// vibe-check step. Only image-first platforms are scored.
func (p Platform) VibeCheckable() bool {
	return p == PlatformInstagram || p == PlatformTikTok
}

// Status represents the pipeline state of a lead.
type Status string

const (
	StatusNew        Status = "new"
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
	StatusError      Status = "error"
)

// ContactStatus tracks where a lead sits in the outreach funnel.
type ContactStatus string

const (
	ContactPending   ContactStatus = "pending"
	ContactContacted ContactStatus = "contacted"
	ContactResponded ContactStatus = "responded"
	ContactConverted ContactStatus = "converted"
)

// OutreachMethod records which channel(s) were used to contact a lead.
type OutreachMethod string

const (
	OutreachEmail      OutreachMethod = "email"
	OutreachLinkedInDM OutreachMethod = "linkedin_dm"
	OutreachBoth       OutreachMethod = "both"
)

// Lead represents one prospect moving through the outreach pipeline.
// Pipeline steps mutate it in place (email, vibe score, outreach method)
// as side effects of processing.
type Lead struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name,omitempty"`
	Handle     string   `json:"handle,omitempty"`
	Platform   Platform `json:"platform"`
	ProfileURL string   `json:"profile_url,omitempty"`

	Email       string `json:"email,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`

	Bio           string   `json:"bio,omitempty"`
	Hashtags      []string `json:"hashtags,omitempty"`
	FollowerCount int64    `json:"follower_count,omitempty"`

	VibeCheckScore float64 `json:"vibe_check_score,omitempty"`
	VibeCheckNotes string  `json:"vibe_check_notes,omitempty"`

	Status         Status         `json:"status,omitempty"`
	ContactStatus  ContactStatus  `json:"contact_status,omitempty"`
	OutreachMethod OutreachMethod `json:"outreach_method,omitempty"`
	OutreachDate   time.Time      `json:"outreach_date,omitzero"`

	SearchQuery string `json:"search_query,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Notes       string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Eligible reports whether the lead carries enough identity to process.
// Intake surfaces must not invoke the pipeline for ineligible leads.
func (l *Lead) Eligible() bool {
	return l.Handle != "" || l.Name != ""
}

// DisplayName returns the best human-readable identifier for log lines
// and outgoing messages.
func (l *Lead) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.Handle
}

// VectorID returns the identifier used to key the lead in the vector
// store: explicit ID, then handle, then the creation timestamp.
func (l *Lead) VectorID() string {
	if l.ID != "" {
		return l.ID
	}
	if l.Handle != "" {
		return l.Handle
	}
	return l.CreatedAt.UTC().Format(time.RFC3339)
}

// DisplayScore converts the canonical 0-10 vibe score to the 0-100 scale
// used by the record sheet and chat replies. This is the only place the
// conversion happens.
func DisplayScore(score float64) int {
	return int(math.Round(score * 10))
}
