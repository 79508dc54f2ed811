// Package sheet maps record-sheet rows to leads and pipeline results
// back to sheet fields. The header mapping is a declared alias table,
// not a guess against whatever the sheet happens to contain.
package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/model"
)

// Semantic field keys used by the alias table and write-back map.
const (
	FieldName           = "name"
	FieldHandle         = "handle"
	FieldPlatform       = "platform"
	FieldProfileURL     = "profile_url"
	FieldBio            = "bio"
	FieldEmail          = "email"
	FieldLinkedInURL    = "linkedin_url"
	FieldHashtags       = "hashtags"
	FieldFollowerCount  = "follower_count"
	FieldStatus         = "status"
	FieldVibeScore      = "vibe_score"
	FieldOutreachMethod = "outreach_method"
	FieldOutreachDate   = "outreach_date"
	FieldSearchQuery    = "search_query"
	FieldOwner          = "owner"
	FieldPriority       = "priority"
	FieldNotes          = "notes"
)

// fieldAliases maps each semantic field to the lowercase header
// aliases accepted in the record sheet. First matching header wins.
var fieldAliases = map[string][]string{
	FieldName:           {"name", "creator name", "creator_name", "full name", "full_name"},
	FieldHandle:         {"handle", "username", "instagram", "ig"},
	FieldPlatform:       {"platform"},
	FieldProfileURL:     {"profile url", "profile_url", "url", "link"},
	FieldBio:            {"bio", "description", "about"},
	FieldEmail:          {"email", "email address", "email_address"},
	FieldLinkedInURL:    {"linkedin", "linkedin url", "linkedin_url"},
	FieldHashtags:       {"hashtags", "tags"},
	FieldFollowerCount:  {"followers", "follower count", "follower_count"},
	FieldStatus:         {"status"},
	FieldVibeScore:      {"vibe score", "vibe_score", "score"},
	FieldOutreachMethod: {"outreach method", "outreach_method"},
	FieldOutreachDate:   {"outreach date", "outreach_date", "contacted date", "contacted_date"},
	FieldSearchQuery:    {"search query", "search_query"},
	FieldOwner:          {"owner"},
	FieldPriority:       {"priority"},
	FieldNotes:          {"notes"},
}

// Columns resolves sheet headers to semantic fields. Headers are
// matched case-insensitively after trimming; unknown headers are
// ignored.
func Columns(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := make(map[string]int)
	for field, aliases := range fieldAliases {
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				cols[field] = i
				break
			}
		}
	}
	return cols
}

// Row is one sheet row bound to its 1-based sheet position (the header
// is row 1, so the first data row is 2).
type Row struct {
	Index int
	Lead  *model.Lead
}

// RowsToLeads converts raw sheet rows (headers first) into leads.
// Rows with no usable identity are dropped; cell parsing is lenient
// and never fails a row.
func RowsToLeads(headers []string, rows [][]string) []Row {
	cols := Columns(headers)
	cell := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []Row
	for n, raw := range rows {
		lead := &model.Lead{
			Name:        cell(raw, FieldName),
			Handle:      strings.TrimPrefix(cell(raw, FieldHandle), "@"),
			Platform:    model.NormalizePlatform(strings.ToLower(cell(raw, FieldPlatform))),
			ProfileURL:  cell(raw, FieldProfileURL),
			Bio:         cell(raw, FieldBio),
			Email:       cell(raw, FieldEmail),
			LinkedInURL: cell(raw, FieldLinkedInURL),
			SearchQuery: cell(raw, FieldSearchQuery),
			Owner:       cell(raw, FieldOwner),
			Priority:    cell(raw, FieldPriority),
			Notes:       cell(raw, FieldNotes),
			Status:      model.Status(strings.ToLower(cell(raw, FieldStatus))),
		}

		if tags := cell(raw, FieldHashtags); tags != "" {
			lead.Hashtags = extract.Hashtags(tags)
		}
		if v, ok := extract.FollowerCount(cell(raw, FieldFollowerCount)); ok {
			lead.FollowerCount = v
		}
		if t, ok := extract.ParseDate(cell(raw, FieldOutreachDate)); ok {
			lead.OutreachDate = t
		}

		if !lead.Eligible() {
			continue
		}
		out = append(out, Row{Index: n + 2, Lead: lead})
	}
	return out
}

// Unprocessed filters to rows the batch surface should pick up:
// status empty or pending.
func Unprocessed(rows []Row) []Row {
	var out []Row
	for _, r := range rows {
		switch r.Lead.Status {
		case "", model.StatusPending:
			out = append(out, r)
		}
	}
	return out
}

// ResultFields builds the write-back map for one processed lead. The
// vibe score goes out on the 0-100 display scale.
func ResultFields(lead *model.Lead, result *model.PipelineResult) map[string]string {
	fields := map[string]string{
		FieldStatus: string(result.Status),
	}
	if lead.Email != "" {
		fields[FieldEmail] = lead.Email
	}
	if lead.VibeCheckScore > 0 {
		fields[FieldVibeScore] = strconv.Itoa(model.DisplayScore(lead.VibeCheckScore))
	}
	if lead.OutreachMethod != "" {
		fields[FieldOutreachMethod] = string(lead.OutreachMethod)
	}
	if !lead.OutreachDate.IsZero() {
		fields[FieldOutreachDate] = lead.OutreachDate.UTC().Format(time.RFC3339)
	}
	if result.Reason != "" {
		fields[FieldNotes] = result.Reason
	}
	return fields
}

// ApplyFields writes the field map into a copy of the raw row, sized
// to the header width, leaving unmapped cells untouched.
func ApplyFields(headers []string, row []string, fields map[string]string) []string {
	cols := Columns(headers)

	out := make([]string, len(headers))
	copy(out, row)
	for field, value := range fields {
		if i, ok := cols[field]; ok && i < len(out) {
			out[i] = value
		}
	}
	return out
}
