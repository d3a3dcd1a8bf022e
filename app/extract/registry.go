package extract

// Mode selects how text is pulled out of the matched container.
type Mode string

const (
	// ModeSingle returns the text content of the matched container, with
	// carriage returns stripped.
	ModeSingle Mode = "single"

	// ModeMulti joins the text of the container's plain paragraph children
	// (paragraphs carrying no markup attributes of their own) with spaces.
	ModeMulti Mode = "multi"
)

// Rule is one publisher's extraction descriptor. Adding a publisher means
// adding a row to the table in rules.go, never a code branch.
type Rule struct {
	ContainerTag   string
	MatchAttribute string
	MatchValue     string
	Mode           Mode
	// Trim drops paragraphs from the end of the paragraph sequence before
	// joining; negative values conventionally mean "drop this many from the
	// end". Only meaningful for ModeMulti.
	Trim int
}

var defaultRules = map[string]Rule{
	"finanznachrichten.de": {"div", "id", "artikelTextPuffer", ModeSingle, 0},
	"deraktionaer.de":      {"div", "class", "article-content", ModeMulti, 0},
	"start-trading.de":     {"div", "class", "entry-content", ModeMulti, -1},
	"wallstreet-online.de": {"div", "class", "articleText", ModeMulti, 0},
	"boerse-online.de":     {"div", "class", "article-body", ModeMulti, 0},
	"godmode-trader.de":    {"div", "class", "article__content", ModeMulti, -2},
	"finanzen.net":         {"div", "class", "article-text", ModeMulti, 0},
	"aktiencheck.de":       {"div", "id", "artikel_text", ModeSingle, 0},
	"dgap.de":              {"div", "class", "news_main", ModeSingle, 0},
	"4investors.de":        {"div", "id", "newstext", ModeMulti, 0},
	"ariva.de":             {"div", "class", "newsKomplett", ModeSingle, 0},
	"lukesmith.xyz":        {"div", "id", "content", ModeMulti, 0},
	"stock-world.de":       {"div", "class", "news-body", ModeMulti, -1},
	"boersennews.de":       {"div", "class", "newsContent", ModeMulti, 0},
}

// defaultUnsupported lists domains that are recognized but deliberately not
// extracted (video platforms, paywalled sites). They yield no content and are
// not reported as unrecognized.
var defaultUnsupported = map[string]struct{}{
	"youtube.com": {},
	"handelsblatt.com": {},
	"wiwo.de": {},
}
