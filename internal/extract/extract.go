// Package extract turns messy free text and spreadsheet cells into typed
// lead fields. Every function is total: best-effort value plus an ok flag,
// never an error.
package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	emailRe   = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	hashtagRe = regexp.MustCompile(`#(\w+)`)
)

// nonActionableEmail matches role accounts and placeholder addresses that
// are never worth contacting.
var nonActionableEmail = []*regexp.Regexp{
	regexp.MustCompile(`@example\.com$`),
	regexp.MustCompile(`@test\.com$`),
	regexp.MustCompile(`noreply`),
	regexp.MustCompile(`no-reply`),
	regexp.MustCompile(`^support@`),
	regexp.MustCompile(`^info@`),
	regexp.MustCompile(`^contact@`),
	regexp.MustCompile(`^admin@`),
}

// Email returns the first actionable email address in text, lowercased.
// Role accounts (support@, info@, admin@, contact@) and placeholder
// domains are filtered out.
func Email(text string) (string, bool) {
	for _, match := range emailRe.FindAllString(text, -1) {
		email := strings.ToLower(match)
		spam := false
		for _, re := range nonActionableEmail {
			if re.MatchString(email) {
				spam = true
				break
			}
		}
		if !spam {
			return email, true
		}
	}
	return "", false
}

// Hashtags extracts #tags from text, case-preserving, deduplicated,
// in first-seen order, without the leading "#".
func Hashtags(text string) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		tag := m[1]
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// reservedPaths lists first path segments that never denote a username.
var reservedPaths = map[string]map[string]struct{}{
	"instagram": {"p": {}, "reel": {}, "reels": {}, "stories": {}, "explore": {}, "direct": {}, "accounts": {}},
	"twitter":   {"search": {}, "hashtag": {}, "i": {}, "intent": {}, "home": {}},
}

// UsernameFromURL extracts the profile username from a platform URL.
// Non-profile paths (posts, reels, search, channels) yield no username.
func UsernameFromURL(rawURL, platform string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", false
	}
	parts := strings.Split(path, "/")

	switch strings.ToLower(platform) {
	case "tiktok":
		// tiktok.com/@username or tiktok.com/@username/video/...
		if strings.HasPrefix(parts[0], "@") {
			return strings.TrimPrefix(parts[0], "@"), true
		}
	case "twitter", "x":
		if _, reserved := reservedPaths["twitter"][strings.ToLower(parts[0])]; !reserved {
			return parts[0], true
		}
	case "instagram":
		if _, reserved := reservedPaths["instagram"][strings.ToLower(parts[0])]; !reserved {
			return parts[0], true
		}
	case "youtube":
		// youtube.com/@handle or youtube.com/channel/UC...
		if strings.HasPrefix(parts[0], "@") {
			return strings.TrimPrefix(parts[0], "@"), true
		}
		if parts[0] == "channel" && len(parts) > 1 {
			return parts[1], true
		}
	}
	return "", false
}

// FollowerCount parses follower-count shorthand: "12.3K" -> 12300,
// "2M" -> 2000000, "1,234" -> 1234. Unparseable input yields false.
func FollowerCount(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}

	multiplier := float64(1)
	switch {
	case strings.HasSuffix(strings.ToUpper(s), "K"):
		multiplier = 1e3
		s = s[:len(s)-1]
	case strings.HasSuffix(strings.ToUpper(s), "M"):
		multiplier = 1e6
		s = s[:len(s)-1]
	case strings.HasSuffix(strings.ToUpper(s), "B"):
		multiplier = 1e9
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return int64(v * multiplier), true
}

// ParseBool parses a spreadsheet boolean cell. Unrecognized values are
// absent, not an error.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "checked":
		return true, true
	case "false", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}

// ParseInt parses a spreadsheet integer cell, stripping thousands
// separators and tolerating a trailing decimal ("1,234.0" -> 1234).
func ParseInt(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate parses a free-text date cell against a permissive layout
// list. Unparseable values are absent, never an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
