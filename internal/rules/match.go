package rules

// Matches reports whether an attachment name satisfies an action's name
// filter. The filter "*" matches everything; anything else must be an
// exact, case-sensitive match. There is no partial or glob matching.
func Matches(attachmentName, filter string) bool {
	if filter == MatchAny {
		return true
	}
	return attachmentName == filter
}
