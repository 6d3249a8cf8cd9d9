package classify

// Severity is the danger tier assigned to a signal at creation.
type Severity string

const (
	// SeverityRed means high danger, respond first
	SeverityRed Severity = "red"

	// SeverityYellow means medium danger or unknown risk
	SeverityYellow Severity = "yellow"

	// SeverityGreen means low danger
	SeverityGreen Severity = "green"
)

// ParseSeverity validates a severity string from an API filter.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityRed, SeverityYellow, SeverityGreen:
		return Severity(s), true
	}
	return "", false
}
