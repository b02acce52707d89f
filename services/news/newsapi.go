package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const NewsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPI searches newsapi.org's /everything endpoint
type NewsAPI struct {
	apiKey  string
	baseURL string
	vocab   *Vocabulary
	client  *http.Client
}

func NewNewsAPI(apiKey, baseURL string, vocab *Vocabulary) *NewsAPI {
	if baseURL == "" {
		baseURL = NewsAPIBaseURL
	}
	return &NewsAPI{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), vocab: vocab, client: newHTTPClient()}
}

func (p *NewsAPI) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (p *NewsAPI) Fetch(ctx context.Context, region, category string) ([]Item, error) {
	if p.apiKey == "" {
		return nil, nil
	}

	query := p.vocab.GlobalQuery(category)
	if region == RegionFinland {
		query = p.vocab.FinlandQuery(category)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", p.apiKey)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", "15")
	params.Set("searchIn", "title,description")
	params.Set("excludeDomains", strings.Join(p.vocab.ExcludedDomains, ","))

	var data newsAPIResponse
	if err := getJSON(ctx, p.client, p.Name(), p.baseURL+"/everything?"+params.Encode(), &data); err != nil {
		return nil, err
	}
	if data.Status != "ok" {
		msg := data.Message
		if msg == "" {
			msg = "unexpected status " + data.Status
		}
		return nil, errors.New("newsapi: " + msg)
	}

	items := make([]Item, 0, len(data.Articles))
	for i, a := range data.Articles {
		excerpt := plainText(a.Description)
		summary := excerpt
		if content := plainText(a.Content); content != "" {
			summary = truncate(content, summaryLength)
		}
		items = append(items, Item{
			ID:       fmt.Sprintf("%s-%s-%d", region, category, i),
			Title:    strings.TrimSpace(a.Title),
			Source:   a.Source.Name,
			Date:     isoDate(a.PublishedAt),
			URL:      a.URL,
			Image:    a.URLToImage,
			Category: category,
			Excerpt:  excerpt,
			Summary:  summary,
		})
	}
	return items, nil
}
