package domain

import (
	"strings"
	"time"
)

// DateKind tells which branch ParseDisplayDate took.
type DateKind int

const (
	// DateRaw means the input did not match a known layout and is shown as is.
	DateRaw DateKind = iota
	// DateParsed means the input was parsed and is shown reformatted.
	DateParsed
)

// DisplayDate is the result of parsing the load date field.
type DisplayDate struct {
	Kind     DateKind
	Time     time.Time
	HasClock bool
	Raw      string
}

const (
	displayDate     = "02.01.2006"
	displayDateTime = "02.01.2006 15:04"
)

var dateOnlyLayouts = []string{
	"2006-01-02",
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDisplayDate accepts HTML date and datetime-local values. Anything else
// is kept verbatim (trimmed) so a format mismatch never fails a render.
func ParseDisplayDate(raw string) DisplayDate {
	s := strings.TrimSpace(raw)
	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DisplayDate{Kind: DateParsed, Time: t, Raw: s}
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DisplayDate{Kind: DateParsed, Time: t, HasClock: true, Raw: s}
		}
	}
	return DisplayDate{Kind: DateRaw, Raw: s}
}

// String returns the text printed on the document.
func (d DisplayDate) String() string {
	switch {
	case d.Kind == DateRaw:
		return d.Raw
	case d.HasClock:
		return d.Time.Format(displayDateTime)
	default:
		return d.Time.Format(displayDate)
	}
}

// FormatTimestamp renders t the way generation timestamps are printed.
func FormatTimestamp(t time.Time) string {
	return t.Format(displayDateTime)
}
