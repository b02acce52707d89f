package news

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Item is one news article, normalised across providers
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Source   string `json:"source"`
	Date     string `json:"date"` // YYYY-MM-DD
	URL      string `json:"url,omitempty"`
	Image    string `json:"image,omitempty"`
	Category string `json:"category"`
	Excerpt  string `json:"excerpt,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

const summaryLength = 200

// plainText strips markup from provider excerpts, which sometimes carry
// HTML fragments
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(b.String()), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// isoDate reduces a provider timestamp to YYYY-MM-DD
func isoDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	if i := strings.IndexAny(raw, "T "); i > 0 {
		return raw[:i]
	}
	return raw
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Merge concatenates provider results in order, keeps the first item of
// every case-insensitive trimmed title and sorts by date, newest first
func Merge(results ...[]Item) []Item {
	seen := make(map[string]bool)
	merged := []Item{}
	for _, items := range results {
		for _, it := range items {
			key := titleKey(it.Title)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, it)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date > merged[j].Date
	})
	return merged
}
