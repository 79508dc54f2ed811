package extract

import (
	"regexp"
	"strings"
)

var (
	igProfileRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?instagram\.com/([a-zA-Z0-9_.]+)/?(?:\?\S*)?$`)
	igStoriesRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?instagram\.com/stories/([a-zA-Z0-9_.]+)/`)
	mentionRe   = regexp.MustCompile(`@([a-zA-Z0-9_.]+)`)
	bareRe      = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
)

// igReserved lists instagram.com path segments that look like usernames
// in a profile URL but are not.
var igReserved = map[string]struct{}{
	"p": {}, "reel": {}, "reels": {}, "stories": {}, "explore": {}, "direct": {}, "accounts": {},
}

// InstagramHandle pulls an Instagram handle out of chat text. Accepts
// profile URLs (with or without scheme/query), stories URLs, @mentions,
// and bare handles up to 30 characters.
func InstagramHandle(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	if m := igProfileRe.FindStringSubmatch(text); m != nil {
		if _, reserved := igReserved[strings.ToLower(m[1])]; !reserved {
			return m[1], true
		}
	}

	if m := igStoriesRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}

	if m := mentionRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}

	if bareRe.MatchString(text) && len(text) <= 30 {
		return text, true
	}

	return "", false
}
