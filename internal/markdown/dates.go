package markdown

import (
	"fmt"
	"strings"
	"time"
)

// dueLayouts are tried in order. Layouts without a clock component get
// 11:59pm appended, so a bare date means end of that day.
var dueLayouts = []struct {
	layout   string
	dateOnly bool
}{
	{"2006-01-02 3:04pm", false},
	{"2006-01-02 3:04 pm", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", true},
	{"Jan 2, 2006 3:04pm", false},
	{"Jan 2, 2006 3:04 pm", false},
	{"Jan 2, 2006", true},
	{"January 2, 2006 3:04pm", false},
	{"January 2, 2006", true},
	{"1/2/2006 3:04pm", false},
	{"1/2/2006", true},
}

var meridiemLower = strings.NewReplacer("AM", "am", "PM", "pm", "Am", "am", "Pm", "pm")

// ParseDueDate parses a human-entered due date in the course's local
// time zone.
func ParseDueDate(raw string) (time.Time, error) {
	s := meridiemLower.Replace(strings.TrimSpace(raw))
	for _, l := range dueLayouts {
		t, err := time.ParseInLocation(l.layout, s, time.Local)
		if err != nil {
			continue
		}
		if l.dateOnly {
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, time.Local)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// FormatDueDate renders a due date the way ParseDueDate reads it back.
func FormatDueDate(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02 3:04pm")
}
