package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/store"
)

// executeOutreach sends on every channel that has both a destination
// and generated copy. Channel failures are recorded per channel, never
// fatal. Successful sends stamp the lead's contact status, outreach
// method, and date.
func (p *Pipeline) executeOutreach(ctx context.Context, lead *model.Lead, contact *model.ContactPayload, content *model.ContentPayload) *model.OutreachPayload {
	log := zap.L().With(zap.String("lead", lead.DisplayName()))
	payload := &model.OutreachPayload{}

	if contact.Email != "" && content.Email != nil {
		res, err := p.email.SendEmail(ctx, contact.Email, content.Email.Subject, content.Email.Body)
		if err != nil {
			log.Error("pipeline: email send failed", zap.Error(err))
			res = &model.ChannelResult{Error: err.Error()}
		} else {
			lead.ContactStatus = model.ContactContacted
			lead.OutreachMethod = model.OutreachEmail
			lead.OutreachDate = time.Now().UTC()
		}
		payload.Email = res
		p.logOutreach(ctx, lead, "email", content.Email.Subject, content.Email.Body, res)
	}

	if contact.LinkedInURL != "" && content.LinkedInDM != "" {
		res, err := p.dm.SendDM(ctx, contact.LinkedInURL, content.LinkedInDM)
		if err != nil {
			log.Error("pipeline: dm send failed", zap.Error(err))
			res = &model.ChannelResult{Error: err.Error()}
		} else {
			if lead.OutreachMethod == model.OutreachEmail {
				lead.OutreachMethod = model.OutreachBoth
			} else {
				lead.OutreachMethod = model.OutreachLinkedInDM
			}
			lead.ContactStatus = model.ContactContacted
			if lead.OutreachDate.IsZero() {
				lead.OutreachDate = time.Now().UTC()
			}
		}
		payload.LinkedInDM = res
		p.logOutreach(ctx, lead, "linkedin_dm", "", content.LinkedInDM, res)
	}

	return payload
}

// logOutreach appends a row to the store's outreach log. Best effort.
func (p *Pipeline) logOutreach(ctx context.Context, lead *model.Lead, channel, subject, body string, res *model.ChannelResult) {
	if p.store == nil {
		return
	}

	status := "sent"
	if !res.OK {
		status = "failed"
	}

	entry := store.OutreachEntry{
		LeadID:     lead.VectorID(),
		Channel:    channel,
		Subject:    subject,
		Preview:    preview(body, 140),
		SendStatus: status,
		Error:      res.Error,
		SentAt:     time.Now().UTC(),
	}
	if err := p.store.LogOutreach(ctx, entry); err != nil {
		zap.L().Warn("pipeline: outreach log failed",
			zap.String("lead", lead.DisplayName()),
			zap.Error(err),
		)
	}
}

func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
