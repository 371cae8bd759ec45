package extraction

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
)

// PageTarget is the page a question points at. Page is 1-based; Last means
// the final page whatever the count.
type PageTarget struct {
	Page int
	Last bool
}

var (
	pageNumberPattern = regexp.MustCompile(`(?i)\bpage\s*(\d+)`)
	firstPagePattern  = regexp.MustCompile(`(?i)\bfirst\s+page\b`)
	lastPagePattern   = regexp.MustCompile(`(?i)\blast\s+page\b`)
)

func ParsePageTarget(question string) (PageTarget, bool) {
	if m := pageNumberPattern.FindStringSubmatch(question); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return PageTarget{Page: n}, true
		}
	}
	if firstPagePattern.MatchString(question) {
		return PageTarget{Page: 1}, true
	}
	if lastPagePattern.MatchString(question) {
		return PageTarget{Last: true}, true
	}
	return PageTarget{}, false
}

// PageRangeMethod narrows native PDF text to the page a question asks about.
// When the parser reports per-page text that page is used directly, otherwise
// the window is estimated at PageRangeCharsPerPage characters per page. If the
// window comes out too short the whole document text is returned instead.
type PageRangeMethod struct {
	Inner  StructuredExtractor
	Target PageTarget
}

func (m *PageRangeMethod) Name() string  { return MethodPageRange }
func (m *PageRangeMethod) MinChars() int { return minPDFChars }

func (m *PageRangeMethod) Extract(ctx context.Context, doc commonModels.UploadedDocument) (string, commonModels.ConfidenceLevel, error) {
	st, err := m.Inner.ExtractStructured(ctx, doc.Data)
	if err != nil {
		return "", commonModels.ConfidenceLow, err
	}
	window := PageWindow(st, m.Target)
	if len([]rune(strings.TrimSpace(window))) <= minPDFChars {
		logger.WithTrace(ctx).Debug("page window too short, using full text", "page", m.Target.Page, "last", m.Target.Last)
		return st.Text, commonModels.ConfidenceHigh, nil
	}
	return window, commonModels.ConfidenceHigh, nil
}

// PageWindow cuts the targeted page out of extracted text. Requests beyond
// the page count are clamped to the last page.
func PageWindow(st StructuredText, target PageTarget) string {
	pageCount := st.PageCount
	if len(st.Pages) > 0 {
		pageCount = len(st.Pages)
	}

	page := target.Page
	if target.Last || (pageCount > 0 && page > pageCount) {
		page = pageCount
	}

	if len(st.Pages) > 0 {
		if page < 1 {
			page = 1
		}
		return st.Pages[page-1]
	}

	runes := []rune(st.Text)
	per := config.PageRangeCharsPerPage
	if page < 1 {
		// unknown page count and "last page": take the tail
		if len(runes) <= per {
			return st.Text
		}
		return string(runes[len(runes)-per:])
	}
	start := (page - 1) * per
	if start >= len(runes) {
		start = max(len(runes)-per, 0)
	}
	end := min(start+per, len(runes))
	return string(runes[start:end])
}
