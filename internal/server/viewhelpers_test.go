package server

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateContent(t *testing.T) {
	t.Run("short content passes through", func(t *testing.T) {
		for _, content := range []string{"", "hi", strings.Repeat("x", 100)} {
			got, truncated := TruncateContent(content)
			assert.Equal(t, content, got)
			assert.False(t, truncated)
		}
	})

	t.Run("long content cuts at 100 characters", func(t *testing.T) {
		content := strings.Repeat("x", 150)
		got, truncated := TruncateContent(content)
		assert.True(t, truncated)
		assert.Equal(t, strings.Repeat("x", 100)+"...", got)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		content := strings.Repeat("é", 101)
		got, truncated := TruncateContent(content)
		assert.True(t, truncated)
		assert.Equal(t, strings.Repeat("é", 100)+"...", got)
	})
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"just now", 20 * time.Second, "less than a minute ago"},
		{"one minute", 90 * time.Second, "1 minute ago"},
		{"minutes", 25 * time.Minute, "25 minutes ago"},
		{"one hour", 90 * time.Minute, "1 hour ago"},
		{"hours", 7 * time.Hour, "7 hours ago"},
		{"one day", 30 * time.Hour, "1 day ago"},
		{"days", 5 * 24 * time.Hour, "5 days ago"},
		{"one month", 40 * 24 * time.Hour, "1 month ago"},
		{"months", 100 * 24 * time.Hour, "3 months ago"},
		{"one year", 400 * 24 * time.Hour, "1 year ago"},
		{"years", 3 * 365 * 24 * time.Hour, "3 years ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(now.Add(-tt.ago), now))
		})
	}
}
