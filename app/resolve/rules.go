package resolve

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// DirectRule marks a domain whose feed links already point at the article;
// nothing is fetched.
type DirectRule struct{}

func (DirectRule) Resolve(ctx context.Context, r *Resolver, link string) (string, error) {
	return link, nil
}

// AppetizerRule handles publishers whose feed links may land on a preview
// page. The page's content container is inspected: without a preview marker
// the link itself is the destination; with one, the marker's embedded numeric
// id is extracted, a redirect-lookup URL is synthesized from it, and the URL
// the server redirects to is the destination.
type AppetizerRule struct {
	ContainerSelector string
	MarkerSelector    string
	MarkerAttribute   string
	IDPattern         *regexp.Regexp
	RedirectFormat    string
}

func (a AppetizerRule) Resolve(ctx context.Context, r *Resolver, link string) (string, error) {
	body, err := r.fetchPage(ctx, link)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	container := doc.Find(a.ContainerSelector).First()
	if container.Length() == 0 {
		return "", fmt.Errorf("%w: container %q", ErrPageIncomplete, a.ContainerSelector)
	}

	marker := container.Find(a.MarkerSelector).First()
	if marker.Length() == 0 {
		// Full article served directly, the feed link is the destination.
		return link, nil
	}

	attr, ok := marker.Attr(a.MarkerAttribute)
	if !ok {
		return "", fmt.Errorf("%w: marker without %q attribute", ErrPageIncomplete, a.MarkerAttribute)
	}

	id := a.IDPattern.FindString(attr)
	if id == "" {
		return "", fmt.Errorf("%w: no id in marker attribute", ErrPageIncomplete)
	}

	return r.followRedirects(ctx, fmt.Sprintf(a.RedirectFormat, id))
}

var articleID = regexp.MustCompile(`\d{8}`)

// registerDefaultRules installs the known publisher rules. New publishers are
// added here as data rows.
func registerDefaultRules(r *Resolver) {
	r.Register("finanznachrichten.de", AppetizerRule{
		ContainerSelector: "#artikelTextPuffer",
		MarkerSelector:    "[onclick]",
		MarkerAttribute:   "onclick",
		IDPattern:         articleID,
		RedirectFormat:    "https://www.finanznachrichten.de/nachrichten-aktien/weiter-%s.htm",
	})

	for _, dom := range []string{
		"lukesmith.xyz",
		"deraktionaer.de",
		"start-trading.de",
		"wallstreet-online.de",
		"boerse-online.de",
		"godmode-trader.de",
		"finanzen.net",
		"aktiencheck.de",
		"dgap.de",
		"4investors.de",
		"onvista.de",
		"ariva.de",
	} {
		r.Register(dom, DirectRule{})
	}
}
