package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"
)

// MaxImages caps how many report images are forwarded to the provider.
const MaxImages = 3

// Image is one report photo, base64-encoded as submitted.
type Image struct {
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data"`
}

// Assessment is the classification outcome for one report.
type Assessment struct {
	Severity  Severity
	Rationale string
}

// Provider is the external classification capability. Given a prompt and
// up to MaxImages images it returns free text expected (but not required)
// to contain a DANGER_LEVEL token.
type Provider interface {
	Assess(ctx context.Context, prompt string, images []Image) (string, error)
}

// Outcomes reported to the OnClassify hook.
const (
	OutcomeProvider       = "provider"
	OutcomeFallback       = "fallback"
	OutcomeProviderFailed = "provider_failed"
)

// danger keywords across the languages the original deployment served.
// A single hit forces red; the fallback never returns green.
var dangerKeywords = []string{
	"fire", "burn", "accident", "blood", "injured", "trapped", "emergency",
	"cháy", "nguy hiểm", "kêu cứu", "khẩn cấp", "tai nạn", "kẹt",
}

// Classifier maps a report to (severity, rationale). Stateless between
// calls: the same inputs produce the same result modulo live provider
// variance.
type Classifier struct {
	provider Provider
	logger   log.Logger
	hooks    Hooks
}

// New creates a Classifier. provider may be nil, in which case every
// classification uses the keyword fallback.
func New(provider Provider, logger log.Logger, hooks Hooks) *Classifier {
	if logger == nil {
		logger = log.Nop()
	}
	return &Classifier{
		provider: provider,
		logger:   logger,
		hooks:    hooks,
	}
}

// Classify assesses a report. It never returns an error: any provider
// failure is absorbed and the keyword fallback answers instead, with the
// rationale noting that automated analysis failed.
func (c *Classifier) Classify(ctx context.Context, description string, images []Image) Assessment {
	start := time.Now()

	if c.provider == nil {
		a := c.fallback(description, "automated analysis is not configured")
		c.observe(OutcomeFallback, a.Severity, start)
		return a
	}

	if len(images) > MaxImages {
		images = images[:MaxImages]
	}

	text, err := c.provider.Assess(ctx, buildPrompt(description), images)
	if err != nil {
		c.logger.Error(ctx, err, "classification provider failed, using keyword fallback")
		a := c.fallback(description, "automated analysis failed")
		c.observe(OutcomeProviderFailed, a.Severity, start)
		return a
	}

	a := Assessment{
		Severity:  parseSeverityToken(text),
		Rationale: text,
	}
	c.observe(OutcomeProvider, a.Severity, start)
	return a
}

func (c *Classifier) observe(outcome string, sev Severity, start time.Time) {
	if c.hooks.OnClassify != nil {
		c.hooks.OnClassify(outcome, sev, time.Since(start).Seconds())
	}
}

// fallback is the deterministic keyword rule. It biases toward caution:
// no keyword match means yellow, never green.
func (c *Classifier) fallback(description, reason string) Assessment {
	desc := strings.ToLower(description)
	for _, kw := range dangerKeywords {
		if strings.Contains(desc, kw) {
			return Assessment{
				Severity:  SeverityRed,
				Rationale: fmt.Sprintf("High danger based on keywords (%s).", reason),
			}
		}
	}
	return Assessment{
		Severity:  SeverityYellow,
		Rationale: fmt.Sprintf("Medium danger assumed (%s).", reason),
	}
}

func buildPrompt(description string) string {
	return fmt.Sprintf(`Analyze this emergency situation:

Description: %s

Based on the description and any images provided, assess:
1. Danger level (high/medium/low)
2. Brief assessment of the situation
3. Recommended immediate actions

Respond in this format:
DANGER_LEVEL: [high/medium/low]
ASSESSMENT: [your assessment]`, description)
}

// parseSeverityToken extracts the DANGER_LEVEL token from provider output.
// high maps to red, low to green; anything else (including a missing or
// garbled token) maps to yellow.
func parseSeverityToken(text string) Severity {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "DANGER_LEVEL:") {
			continue
		}
		_, after, _ := strings.Cut(line, "DANGER_LEVEL:")
		token := strings.ToLower(strings.Trim(strings.TrimSpace(after), "[]"))
		switch token {
		case "high":
			return SeverityRed
		case "low":
			return SeverityGreen
		default:
			return SeverityYellow
		}
	}
	return SeverityYellow
}
