package model

// Step keys under PipelineResult.Steps. The envelope shape
// {lead_id, status, steps, reason?, error?} is consumed by the chat
// reply formatter and the sheet sync and must stay stable.
const (
	StepResearch          = "research"
	StepVibeCheck         = "vibe_check"
	StepContactDiscovery  = "contact_discovery"
	StepDuplicateCheck    = "duplicate_check"
	StepContentGeneration = "content_generation"
	StepOutreach          = "outreach"
)

// PipelineResult is the per-lead output envelope of one Process call.
// It is immutable after return and owned by the caller that triggered
// processing.
type PipelineResult struct {
	LeadID string         `json:"lead_id"`
	Status Status         `json:"status"`
	Steps  map[string]any `json:"steps"`
	Reason string         `json:"reason,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// ResearchPayload is the research step's slot in the result envelope.
type ResearchPayload struct {
	Content   string   `json:"content,omitempty"`
	Citations []string `json:"citations,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// VibeCheckPayload is the vibe-check step's slot. Score is on the
// canonical 0-10 scale.
type VibeCheckPayload struct {
	Score          float64 `json:"score"`
	Notes          string  `json:"notes,omitempty"`
	Recommendation string  `json:"recommendation"`
	Error          string  `json:"error,omitempty"`
}

// ContactPayload is the contact-discovery step's slot.
type ContactPayload struct {
	Email       string  `json:"email,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	LinkedInURL string  `json:"linkedin_url,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// DuplicatePayload is the duplicate-check step's slot.
type DuplicatePayload struct {
	IsDuplicate bool   `json:"is_duplicate"`
	MatchedID   string `json:"matched_id,omitempty"`
}

// EmailContent is a generated outreach email.
type EmailContent struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ContentPayload is the content-generation step's slot.
type ContentPayload struct {
	Email      *EmailContent `json:"email,omitempty"`
	LinkedInDM string        `json:"linkedin_dm,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// ChannelResult is the outcome of one outreach channel send.
type ChannelResult struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// OutreachPayload is the outreach step's slot. Either channel may be nil
// when that channel had nothing to send.
type OutreachPayload struct {
	Email      *ChannelResult `json:"email,omitempty"`
	LinkedInDM *ChannelResult `json:"linkedin_dm,omitempty"`
}
