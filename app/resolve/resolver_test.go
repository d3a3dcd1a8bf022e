package resolve

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"
)

const appetizerPage = `<!DOCTYPE html>
<html><body>
<div id="artikelTextPuffer">
  <p>Kurzer Anriss des Artikels ...</p>
  <a onclick="openArticle('52172551-chart-check')" href="#">Weiterlesen</a>
</div>
</body></html>`

const directPage = `<!DOCTYPE html>
<html><body>
<div id="artikelTextPuffer">
  <p>Der vollständige Artikeltext steht direkt auf der Seite.</p>
</div>
</body></html>`

func newTestResolver() *Resolver {
	return NewResolver(&http.Client{}, "test-agent", 5*time.Second)
}

// registerTestRule wires an appetizer rule for the httptest server's host,
// with the redirect lookup pointing back into the same server.
func registerTestRule(r *Resolver, serverURL string) {
	r.Register("127.0.0.1", AppetizerRule{
		ContainerSelector: "#artikelTextPuffer",
		MarkerSelector:    "[onclick]",
		MarkerAttribute:   "onclick",
		IDPattern:         regexp.MustCompile(`\d{8}`),
		RedirectFormat:    serverURL + "/weiter-%s.htm",
	})
}

func TestResolver_AppetizerLink(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/nachrichten-2021-03/52172551-chart-check.htm", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(appetizerPage))
	})
	mux.HandleFunc("/weiter-52172551.htm", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/artikel/chart-check-itm-power.html", http.StatusFound)
	})
	mux.HandleFunc("/artikel/chart-check-itm-power.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>article</body></html>"))
	})

	resolver := newTestResolver()
	registerTestRule(resolver, server.URL)

	dest, err := resolver.Resolve(context.Background(), server.URL+"/nachrichten-2021-03/52172551-chart-check.htm")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := server.URL + "/artikel/chart-check-itm-power.html"
	if dest != want {
		t.Errorf("Expected destination %q, got %q", want, dest)
	}
}

func TestResolver_DirectContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directPage))
	}))
	defer server.Close()

	resolver := newTestResolver()
	registerTestRule(resolver, server.URL)

	link := server.URL + "/nachrichten-2021-03/52158803-opening-bell.htm"
	dest, err := resolver.Resolve(context.Background(), link)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if dest != link {
		t.Errorf("Expected link to resolve to itself, got %q", dest)
	}
}

func TestResolver_Deterministic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directPage))
	}))
	defer server.Close()

	resolver := newTestResolver()
	registerTestRule(resolver, server.URL)

	link := server.URL + "/some-article.htm"
	first, err := resolver.Resolve(context.Background(), link)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := resolver.Resolve(context.Background(), link)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Errorf("Resolution not deterministic: %q then %q", first, again)
		}
	}
}

func TestResolver_UnsupportedDomain(t *testing.T) {
	resolver := newTestResolver()

	_, err := resolver.Resolve(context.Background(), "https://unknown-publisher.example/article/1")
	if !errors.Is(err, ErrUnsupportedDomain) {
		t.Errorf("Expected ErrUnsupportedDomain, got: %v", err)
	}
}

func TestResolver_MissingContainer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>no container here</p></body></html>"))
	}))
	defer server.Close()

	resolver := newTestResolver()
	registerTestRule(resolver, server.URL)

	_, err := resolver.Resolve(context.Background(), server.URL+"/whatever.htm")
	if !errors.Is(err, ErrPageIncomplete) {
		t.Errorf("Expected ErrPageIncomplete, got: %v", err)
	}
}

func TestResolver_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(directPage))
	}))
	defer server.Close()

	resolver := NewResolver(&http.Client{}, "test-agent", 50*time.Millisecond)
	registerTestRule(resolver, server.URL)

	_, err := resolver.Resolve(context.Background(), server.URL+"/slow.htm")
	if err == nil {
		t.Error("Expected timeout error for slow publisher")
	}
}

func TestDirectRule(t *testing.T) {
	resolver := newTestResolver()

	link := "https://lukesmith.xyz/articles/some-post/"
	dest, err := resolver.Resolve(context.Background(), link)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if dest != link {
		t.Errorf("Expected direct rule to return the link unchanged, got %q", dest)
	}
}
