package server

import (
	"fmt"
	"time"
)

// truncateLimit is how many characters of post content show before the
// show-more control takes over.
const truncateLimit = 100

// TruncateContent returns the display form of content and whether it was
// truncated. Content at or under the limit passes through unchanged;
// longer content is cut to the first 100 characters plus an ellipsis.
func TruncateContent(content string) (string, bool) {
	runes := []rune(content)
	if len(runes) <= truncateLimit {
		return content, false
	}
	return string(runes[:truncateLimit]) + "...", true
}

// TimeAgo formats the elapsed time since t as a human-relative duration.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "less than a minute ago"
	case d < 2*time.Minute:
		return "1 minute ago"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 2*time.Hour:
		return "1 hour ago"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "1 day ago"
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	case d < 60*24*time.Hour:
		return "1 month ago"
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%d months ago", int(d.Hours()/(24*30)))
	case d < 2*365*24*time.Hour:
		return "1 year ago"
	default:
		return fmt.Sprintf("%d years ago", int(d.Hours()/(24*365)))
	}
}
