package planner

import "strings"

// NormalizeChannel folds free-text channel values into sms, call, email, or the lowercased input.
// Blank channels become "unknown".
func NormalizeChannel(channel string) string {
	value := strings.ToLower(strings.TrimSpace(channel))
	switch value {
	case "":
		return "unknown"
	case "sms", "text":
		return "sms"
	case "phone", "call":
		return "call"
	default:
		return value
	}
}

// NormalizeOwner trims an owner name and maps blanks to UnassignedOwner.
func NormalizeOwner(owner string) string {
	value := strings.TrimSpace(owner)
	if value == "" {
		return UnassignedOwner
	}
	return value
}

func cohortKey(cohort string) string {
	return NormalizeOwner(cohort)
}
