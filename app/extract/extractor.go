package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/vkoselev/feedharvest/app/domain"
)

// Extractor applies the per-publisher rule table to raw page markup. It is a
// pure function of (url, html) with no persisted state.
type Extractor struct {
	rules         map[string]Rule
	unsupported   map[string]struct{}
	loggedDomains sync.Map
}

func NewExtractor() *Extractor {
	e := &Extractor{
		rules:       make(map[string]Rule, len(defaultRules)),
		unsupported: make(map[string]struct{}, len(defaultUnsupported)),
	}
	for dom, rule := range defaultRules {
		e.rules[dom] = rule
	}
	for dom := range defaultUnsupported {
		e.unsupported[dom] = struct{}{}
	}
	return e
}

// Register binds a rule to a registrable domain, replacing any existing rule.
func (e *Extractor) Register(dom string, rule Rule) {
	e.rules[dom] = rule
}

// MarkUnsupported records a domain as recognized but deliberately skipped.
func (e *Extractor) MarkUnsupported(dom string) {
	e.unsupported[dom] = struct{}{}
}

// Run extracts the article text for pageURL from html. ok reports whether an
// extraction rule applied; ("", false) means no rule or a deliberately
// unsupported domain. Malformed markup never fails, it degrades to an empty
// string. Unrecognized domains are logged once each for rule authoring.
func (e *Extractor) Run(pageURL string, html string) (text string, ok bool) {
	dom, err := domain.Registrable(pageURL)
	if err != nil {
		slog.Warn("Cannot determine extraction domain", "url", pageURL, "error", err)
		return "", false
	}

	if _, skip := e.unsupported[dom]; skip {
		slog.Debug("Domain marked unsupported, skipping extraction", "domain", dom)
		return "", false
	}

	rule, found := e.rules[dom]
	if !found {
		if _, logged := e.loggedDomains.LoadOrStore(dom, struct{}{}); !logged {
			slog.Warn("No extraction rule for domain", "domain", dom, "url", pageURL)
		}
		return "", false
	}

	return e.apply(rule, html), true
}

func (e *Extractor) apply(rule Rule, html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	selector := fmt.Sprintf(`%s[%s=%q]`, rule.ContainerTag, rule.MatchAttribute, rule.MatchValue)
	container := doc.Find(selector).First()
	if container.Length() == 0 {
		return ""
	}

	switch rule.Mode {
	case ModeSingle:
		return strings.ReplaceAll(container.Text(), "\r", "")
	case ModeMulti:
		return joinPlainParagraphs(container, rule.Trim)
	}

	return ""
}

// joinPlainParagraphs collects the text of paragraphs that carry no markup
// attributes of their own (styled paragraphs are ads, captions and other
// boilerplate) and joins them with spaces, after dropping |trim| paragraphs
// from the end.
func joinPlainParagraphs(container *goquery.Selection, trim int) string {
	var parts []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		if len(p.Nodes) > 0 && len(p.Nodes[0].Attr) == 0 {
			parts = append(parts, p.Text())
		}
	})

	if trim < 0 {
		trim = -trim
	}
	if trim >= len(parts) {
		if trim > 0 {
			return ""
		}
	} else if trim > 0 {
		parts = parts[:len(parts)-trim]
	}

	return strings.Join(parts, " ")
}
