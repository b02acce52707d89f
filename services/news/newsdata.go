package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const NewsDataBaseURL = "https://newsdata.io/api/1"

// NewsData searches newsdata.io restricted to Finnish publishers
type NewsData struct {
	apiKey  string
	baseURL string
	vocab   *Vocabulary
	client  *http.Client
}

func NewNewsData(apiKey, baseURL string, vocab *Vocabulary) *NewsData {
	if baseURL == "" {
		baseURL = NewsDataBaseURL
	}
	return &NewsData{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), vocab: vocab, client: newHTTPClient()}
}

func (p *NewsData) Name() string { return "newsdata" }

type newsDataResponse struct {
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		Link        string `json:"link"`
		ImageURL    string `json:"image_url"`
		PubDate     string `json:"pubDate"`
		SourceID    string `json:"source_id"`
	} `json:"results"`
}

func (p *NewsData) Fetch(ctx context.Context, region, category string) ([]Item, error) {
	if p.apiKey == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("apikey", p.apiKey)
	params.Set("country", "fi")
	params.Set("q", p.vocab.NewsDataQuery(category))
	params.Set("language", "fi,en")
	if c := p.vocab.NewsDataCategory(category); c != "" {
		params.Set("category", c)
	}

	var data newsDataResponse
	if err := getJSON(ctx, p.client, p.Name(), p.baseURL+"/news?"+params.Encode(), &data); err != nil {
		return nil, err
	}

	label := category
	if label == CategoryAll {
		label = "general"
	}

	items := make([]Item, 0, len(data.Results))
	for i, a := range data.Results {
		excerpt := plainText(a.Description)
		summary := excerpt
		if summary == "" {
			summary = truncate(plainText(a.Content), summaryLength)
		}
		items = append(items, Item{
			ID:       fmt.Sprintf("newsdata-%d", i),
			Title:    strings.TrimSpace(a.Title),
			Source:   a.SourceID,
			Date:     isoDate(a.PubDate),
			URL:      a.Link,
			Image:    a.ImageURL,
			Category: label,
			Excerpt:  excerpt,
			Summary:  summary,
		})
	}
	return items, nil
}
