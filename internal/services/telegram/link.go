package telegram

import "regexp"

var (
	packNamePattern = regexp.MustCompile(`t\.me/addstickers/([a-zA-Z0-9_]+)`)
	packLinkPattern = regexp.MustCompile(`^https://t\.me/addstickers/[a-zA-Z0-9_]+/?$`)
)

// ParsePackName extracts the sticker set name from a link containing
// t.me/addstickers/<name>. Anything around the match is ignored.
func ParsePackName(link string) (string, bool) {
	m := packNamePattern.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsValidPackLink is the strict form accepted from users:
// https://t.me/addstickers/<name> with an optional trailing slash.
func IsValidPackLink(link string) bool {
	return packLinkPattern.MatchString(link)
}
