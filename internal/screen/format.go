package screen

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// ValidEmail reports whether email looks like an address. Matching is
// done on the lowercased input.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.ToLower(email))
}

// Initials returns the uppercased first letters of the first and last
// words of name. A single word yields one letter.
func Initials(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return firstUpper(words[0])
	default:
		return firstUpper(words[0]) + firstUpper(words[len(words)-1])
	}
}

func firstUpper(word string) string {
	r, _ := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Label colours for reservation categories.
const (
	ColorExamination  = "#E0FFFF"
	ColorConsultation = "#E6E6FA"
	ColorFollowUp     = "#FAF0E6"
	ColorProcedure    = "#FFD700"
	ColorOther        = "#ffa2a2"
	ColorDefault      = "#FAFAD2"
)

// LabelColor maps a reservation label to its display colour.
func LabelColor(label string) string {
	switch label {
	case "Examination":
		return ColorExamination
	case "Consultation":
		return ColorConsultation
	case "Follow-up":
		return ColorFollowUp
	case "Procedure":
		return ColorProcedure
	case "Other":
		return ColorOther
	default:
		return ColorDefault
	}
}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Layouts accepted for reservation datetimes. Zoned values are converted
// to the display location; the rest are read in it.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDatetime parses a server datetime in loc.
func ParseDatetime(value string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	value = strings.TrimSpace(value)
	for _, layout := range datetimeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// FormatTime renders a datetime as zero-padded HH:MM, or "" when unparseable.
func FormatTime(value string, loc *time.Location) string {
	t, ok := ParseDatetime(value, loc)
	if !ok {
		return ""
	}
	return t.Format("15:04")
}

// FormatDate renders a datetime as "2 Jan 2006", or "" when unparseable.
func FormatDate(value string, loc *time.Location) string {
	t, ok := ParseDatetime(value, loc)
	if !ok {
		return ""
	}
	return strconv.Itoa(t.Day()) + " " + monthNames[t.Month()-1] + " " + strconv.Itoa(t.Year())
}
