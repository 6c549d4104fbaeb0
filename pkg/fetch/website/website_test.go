package website

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"
)

func TestScrapePage_TitleAndMetaDescription(t *testing.T) {
	body := []byte(`<html><head>
		<title>Acme Corp - Official Site</title>
		<meta name="description" content="Acme makes widgets.">
	</head><body><p>Welcome</p></body></html>`)

	info := scrapePage("Acme Corp", "https://acme.example", body)
	if info.Title != "Acme Corp - Official Site" {
		t.Fatalf("title = %q", info.Title)
	}
	if info.Description != "Acme makes widgets." {
		t.Fatalf("description = %q", info.Description)
	}
	if info.URL != "https://acme.example" {
		t.Fatalf("url = %q", info.URL)
	}
}

func TestScrapePage_OGDescriptionFallback(t *testing.T) {
	body := []byte(`<html><head>
		<meta property="og:description" content="From the social card.">
	</head><body></body></html>`)

	info := scrapePage("Acme Corp", "https://acme.example", body)
	if info.Description != "From the social card." {
		t.Fatalf("description = %q", info.Description)
	}
}

func TestScrapePage_JSONLDOrganization(t *testing.T) {
	body := []byte(`<html><head>
		<script type="application/ld+json">
		{"@type": "Organization", "name": "株式会社サンプル",
		 "description": "Structured description",
		 "address": {"addressLocality": "東京都渋谷区"},
		 "foundingDate": "2015-04-01",
		 "founder": {"name": "山田太郎"}}
		</script>
	</head><body></body></html>`)

	info := scrapePage("サンプル", "https://sample.example", body)
	if info.StructuredName != "株式会社サンプル" {
		t.Fatalf("structured name = %q", info.StructuredName)
	}
	if info.Description != "Structured description" {
		t.Fatalf("description = %q", info.Description)
	}
	if info.Location != "東京都渋谷区" {
		t.Fatalf("location = %q", info.Location)
	}
	if info.Established != "2015-04-01" {
		t.Fatalf("established = %q", info.Established)
	}
	if info.CEO != "山田太郎" {
		t.Fatalf("ceo = %q", info.CEO)
	}
}

func TestScrapePage_RepairsMalformedJSONLD(t *testing.T) {
	// trailing comma keeps this from parsing without repair
	body := []byte(`<html><head>
		<script type="application/ld+json">
		{'@type': 'Organization', 'name': 'Acme Corp',}
		</script>
	</head><body></body></html>`)

	info := scrapePage("Acme", "https://acme.example", body)
	if info.StructuredName != "Acme Corp" {
		t.Fatalf("structured name = %q, malformed JSON-LD not repaired", info.StructuredName)
	}
}

func TestScrapePage_HeuristicFields(t *testing.T) {
	body := []byte(`<html><body>
		<p>会社概要</p>
		<p>代表取締役社長 鈴木一郎</p>
		<p>本社: 東京都千代田区丸の内1-1-1ビル</p>
		<p>設立 2003年4月</p>
	</body></html>`)

	info := scrapePage("テスト", "https://test.example", body)
	if info.CEO != "鈴木一郎" {
		t.Fatalf("ceo = %q", info.CEO)
	}
	if info.Location == "" {
		t.Fatal("expected a matched address")
	}
	if !strings.HasPrefix(info.Established, "2003") {
		t.Fatalf("established = %q", info.Established)
	}
}

func TestScrapePage_ScriptTextExcludedFromHeuristics(t *testing.T) {
	body := []byte(`<html><body>
		<script>var x = "代表取締役 偽物データ";</script>
		<p>About us</p>
	</body></html>`)

	info := scrapePage("Acme", "https://acme.example", body)
	if info.CEO != "" {
		t.Fatalf("ceo = %q, script content should be ignored", info.CEO)
	}
}

func TestScrapePage_ReadabilityDescriptionFallback(t *testing.T) {
	var article strings.Builder
	article.WriteString(`<html><head><title>Acme</title></head><body><article>`)
	for i := 0; i < 30; i++ {
		article.WriteString(`<p>Acme Corp has been manufacturing precision widgets since the early days, serving customers worldwide with care.</p>`)
	}
	article.WriteString(`</article></body></html>`)

	info := scrapePage("Acme", "https://acme.example", []byte(article.String()))
	if info.Description == "" {
		t.Fatal("expected readability text fallback")
	}
	if len(info.Description) > maxDescriptionLen {
		t.Fatalf("description length = %d, want at most %d", len(info.Description), maxDescriptionLen)
	}
}

func TestScrapePage_TruncationKeepsValidUTF8(t *testing.T) {
	var article strings.Builder
	article.WriteString(`<html><head><title>サンプル</title></head><body><article>`)
	for i := 0; i < 40; i++ {
		article.WriteString(`<p>株式会社サンプルは精密部品の製造と販売を長年にわたり手がけてきた会社であり、国内外の取引先に製品を供給しています。</p>`)
	}
	article.WriteString(`</article></body></html>`)

	info := scrapePage("サンプル", "https://sample.example", []byte(article.String()))
	if info.Description == "" {
		t.Fatal("expected readability text fallback")
	}
	if len(info.Description) > maxDescriptionLen {
		t.Fatalf("description length = %d, want at most %d", len(info.Description), maxDescriptionLen)
	}
	if !utf8.ValidString(info.Description) {
		t.Fatalf("description is not valid UTF-8: %q", info.Description)
	}
}

func TestFetch_UsesCacheOnRepeat(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`<html><head><title>Acme Corp</title></head><body></body></html>`))
	}))
	defer srv.Close()

	fetcher := NewFetcher(FetcherParams{})
	for i := 0; i < 3; i++ {
		info, err := fetcher.Fetch(context.Background(), "Acme Corp", srv.URL)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if info.Title != "Acme Corp" {
			t.Fatalf("title = %q", info.Title)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hits = %d, want 1", got)
	}
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><head><title>ok</title></head></html>`))
	}))
	defer srv.Close()

	fetcher := NewFetcher(FetcherParams{UserAgent: "custom-agent/1.0"})
	if _, err := fetcher.Fetch(context.Background(), "Acme", srv.URL); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotUA != "custom-agent/1.0" {
		t.Fatalf("user agent = %q", gotUA)
	}
}
