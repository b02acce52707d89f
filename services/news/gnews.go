package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const GNewsBaseURL = "https://gnews.io/api/v4"

// GNews searches gnews.io. It only serves the Finland region.
type GNews struct {
	apiKey  string
	baseURL string
	vocab   *Vocabulary
	client  *http.Client
}

func NewGNews(apiKey, baseURL string, vocab *Vocabulary) *GNews {
	if baseURL == "" {
		baseURL = GNewsBaseURL
	}
	return &GNews{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), vocab: vocab, client: newHTTPClient()}
}

func (p *GNews) Name() string { return "gnews" }

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Image       string `json:"image"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (p *GNews) Fetch(ctx context.Context, region, category string) ([]Item, error) {
	if p.apiKey == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", p.vocab.FinlandQuery(category))
	params.Set("token", p.apiKey)
	params.Set("max", "10")
	params.Set("sortby", "publishedAt")

	var data gnewsResponse
	if err := getJSON(ctx, p.client, p.Name(), p.baseURL+"/search?"+params.Encode(), &data); err != nil {
		return nil, err
	}

	label := category
	if label == CategoryAll {
		label = "general"
	}

	items := make([]Item, 0, len(data.Articles))
	for i, a := range data.Articles {
		excerpt := plainText(a.Description)
		items = append(items, Item{
			ID:       fmt.Sprintf("gnews-%d", i),
			Title:    strings.TrimSpace(a.Title),
			Source:   a.Source.Name,
			Date:     isoDate(a.PublishedAt),
			URL:      a.URL,
			Image:    a.Image,
			Category: label,
			Excerpt:  excerpt,
			Summary:  excerpt,
		})
	}
	return items, nil
}
