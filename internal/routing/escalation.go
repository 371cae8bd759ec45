package routing

import (
	"fmt"
	"regexp"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/dustin/go-humanize"
)

// Decision is whether to try the quick path, and why. It depends only on the
// file size and the question text.
type Decision struct {
	Quick     bool   `json:"quick"`
	Rationale string `json:"rationale"`
}

// targetedPatterns are questions narrow enough to answer from a mid-sized
// file inside the quick path deadline.
var targetedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bpage\s*\d+`),
	regexp.MustCompile(`(?i)\b(first|last)\s+page\b`),
	regexp.MustCompile(`(?i)\bsignature`),
	regexp.MustCompile(`(?i)\b(parties|party|tenants?|landlords?)\b`),
	regexp.MustCompile(`(?i)\brent(al)?\s+amount\b`),
	regexp.MustCompile(`(?i)\baddress`),
	regexp.MustCompile(`(?i)\bdates?\b`),
	regexp.MustCompile(`(?i)\bsummary\b`),
}

func ShouldAttemptQuick(sizeBytes int64, question string) bool {
	return Decide(sizeBytes, question).Quick
}

func Decide(sizeBytes int64, question string) Decision {
	size := humanize.IBytes(uint64(max(sizeBytes, 0)))

	switch {
	case sizeBytes <= config.QuickPathAlwaysBytes:
		return Decision{Quick: true, Rationale: fmt.Sprintf("%s is small enough for the quick path", size)}
	case sizeBytes <= config.QuickPathTargetedBytes:
		if pattern := matchTargeted(question); pattern != "" {
			return Decision{Quick: true, Rationale: fmt.Sprintf("%s with a targeted question (%s)", size, pattern)}
		}
		return Decision{Quick: false, Rationale: fmt.Sprintf("%s with an open-ended question goes to background", size)}
	default:
		return Decision{Quick: false, Rationale: fmt.Sprintf("%s exceeds the quick path limit of %s", size, humanize.IBytes(uint64(config.QuickPathTargetedBytes)))}
	}
}

func IsTargeted(question string) bool {
	return matchTargeted(question) != ""
}

func matchTargeted(question string) string {
	for _, p := range targetedPatterns {
		if m := p.FindString(question); m != "" {
			return m
		}
	}
	return ""
}
