package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Legacy ATS pages ship their content URL-encoded inside JavaScript and
// use .ftl templates. Three template variants exist; they are tried in
// order and the first non-empty extraction wins.

const legacyFragmentMarker = "!|!!*!"

var (
	legacyJobDelim = regexp.MustCompile(`!\|!\d{6,8}!\|!`)
	msoNormalClass = regexp.MustCompile(`(?i)MsoNormal`)
	percentEscape  = regexp.MustCompile(`%[0-9a-fA-F]{2}`)
)

var legacyKeywordMarkers = []string{
	"organizational setting",
	"minimum requirements",
	"technical skills",
	"responsibilities",
	"duties and responsibilities",
	"selection criteria",
	"job purpose",
	"qualifications",
	"required skills",
}

var legacyNoiseMarkers = []string{
	"important notice",
	"how to apply",
	"additional information",
	"apply now",
}

// IsLegacyATSURL recognizes legacy ATS job detail pages by URL shape.
func IsLegacyATSURL(rawURL string) bool {
	lowered := strings.ToLower(rawURL)
	return strings.Contains(lowered, "/careersection/") && strings.Contains(lowered, "jobdetail.ftl")
}

// unquote decodes %XX escapes, leaving malformed sequences untouched the
// way a lenient decoder would.
func unquote(s string) string {
	return percentEscape.ReplaceAllStringFunc(s, func(esc string) string {
		b := hexByte(esc[1])<<4 | hexByte(esc[2])
		return string([]byte{b})
	})
}

// ExtractLegacyATS extracts the job description from a legacy ATS detail
// page. Layers, first non-empty wins: the div.singleview container, the
// requisitionDescription element, then scored payload fragments.
func ExtractLegacyATS(html string, maxChars int) string {
	decoded := unquote(html)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(decoded))
	if err != nil {
		return ""
	}

	// The singleview div carries the rendered description for both the
	// MsoNormal-based and plain-span template variants.
	if container := doc.Find("div.singleview").First(); container.Length() > 0 {
		container.Find("script, style").Remove()
		if text := CleanText(NodeText(container)); text != "" {
			return Truncate(text, maxChars)
		}
	}

	// Variant with content under a requisitionDescription element.
	if text := legacyRequisitionText(doc); text != "" {
		return Truncate(text, maxChars)
	}

	// Some variants embed sections in !|!!*!-delimited payload fragments;
	// score each and keep the best.
	if strings.Contains(decoded, legacyFragmentMarker) {
		if text := bestLegacyFragment(decoded); text != "" {
			return Truncate(text, maxChars)
		}
	}

	return ""
}

func legacyRequisitionText(doc *goquery.Document) string {
	var req *goquery.Selection
	doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		if strings.Contains(strings.ToLower(id), "requisitiondescription") {
			req = s
			return false
		}
		return true
	})
	if req == nil {
		return ""
	}

	var msoLines []string
	req.Find("[class]").Each(func(_ int, node *goquery.Selection) {
		class, _ := node.Attr("class")
		if !msoNormalClass.MatchString(class) {
			return
		}
		line := strings.Join(strings.Fields(node.Text()), " ")
		if len(line) > 15 {
			msoLines = append(msoLines, line)
		}
	})
	if len(msoLines) > 0 {
		return CleanText(strings.Join(msoLines, "\n"))
	}

	if raw := CleanText(NodeText(req)); len(raw) > 200 {
		return raw
	}
	return ""
}

func bestLegacyFragment(decoded string) string {
	bestText := ""
	bestScore := -1

	parts := strings.Split(decoded, legacyFragmentMarker)[1:]
	for _, part := range parts {
		fragmentHTML := part
		// End the fragment at the job-id delimiter if one follows.
		if loc := legacyJobDelim.FindStringIndex(part); loc != nil {
			fragmentHTML = part[:loc[0]]
		}

		fragmentText := StripHTML(fragmentHTML)
		if fragmentText == "" {
			continue
		}

		lowered := strings.ToLower(fragmentText)
		score := len(strings.Fields(fragmentText))
		for _, k := range legacyKeywordMarkers {
			if strings.Contains(lowered, k) {
				score += 400
			}
		}
		for _, k := range legacyNoiseMarkers {
			if strings.Contains(lowered, k) {
				score -= 120
			}
		}
		if score > bestScore {
			bestScore = score
			bestText = fragmentText
		}
	}
	return bestText
}

func hexByte(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
