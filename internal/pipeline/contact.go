package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// discoverContact resolves the lead's handle to contact details. A
// discovered email is copied onto the lead; a LinkedIn URL already on
// the lead survives into the payload so the contact gate can pass on
// either channel.
func (p *Pipeline) discoverContact(ctx context.Context, lead *model.Lead) *model.ContactPayload {
	if lead.Handle == "" {
		return &model.ContactPayload{LinkedInURL: lead.LinkedInURL}
	}

	contact, err := p.contacts.Resolve(ctx, lead.Handle, string(lead.Platform))
	if err != nil {
		zap.L().Error("pipeline: contact discovery failed",
			zap.String("lead", lead.DisplayName()),
			zap.Error(err),
		)
		return &model.ContactPayload{Error: err.Error()}
	}

	if contact.Email != "" {
		lead.Email = contact.Email
	}
	if contact.LinkedInURL != "" && lead.LinkedInURL == "" {
		lead.LinkedInURL = contact.LinkedInURL
	}
	contact.LinkedInURL = lead.LinkedInURL

	return contact
}
