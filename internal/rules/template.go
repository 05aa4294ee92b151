package rules

import (
	"strings"
	"time"
)

// Characters that object storage and most filesystems reject in names.
var unsafeNameChars = []string{"/", "\\", "?", "%", "*", ":", "|", "\"", "<", ">"}

// Render produces an output file name from a rename template. An empty
// template returns originalName unchanged. Recognized tokens:
//
//	{original_name}  the attachment's original file name
//	{subject}        the message subject, unsafe characters replaced by "-"
//	{date}           the message send date as YYYY-MM-DD
//
// All occurrences are substituted; unknown tokens are left verbatim.
func Render(template, originalName, subject string, date time.Time) string {
	if template == "" {
		return originalName
	}

	out := strings.ReplaceAll(template, "{original_name}", originalName)
	out = strings.ReplaceAll(out, "{subject}", sanitizeName(subject))
	out = strings.ReplaceAll(out, "{date}", date.Format("2006-01-02"))
	return out
}

func sanitizeName(s string) string {
	for _, c := range unsafeNameChars {
		s = strings.ReplaceAll(s, c, "-")
	}
	return s
}
