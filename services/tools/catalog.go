package tools

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Tool struct {
	ID            string `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	Category      string `yaml:"category" json:"category"`
	Description   string `yaml:"description" json:"description"`
	URL           string `yaml:"url" json:"url"`
	Developer     string `yaml:"developer" json:"developer,omitempty"`
	ReasonPopular string `yaml:"reason_popular" json:"reason_popular,omitempty"`
	Popularity    int    `yaml:"popularity" json:"popularity,omitempty"`
}

type TrendingTopic struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description,omitempty"`
	URL         string `yaml:"url" json:"url,omitempty"`
}

// Catalog is the static tools feed
type Catalog struct {
	Hottest  []Tool          `yaml:"hottest" json:"hottest"`
	Newest   []Tool          `yaml:"newest" json:"newest"`
	Trending []TrendingTopic `yaml:"trending" json:"trending"`
}

// Load parses the embedded catalog. Hottest tools are ordered by popularity.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("failed to parse tools catalog: %w", err)
	}
	sort.SliceStable(c.Hottest, func(i, j int) bool {
		return c.Hottest[i].Popularity > c.Hottest[j].Popularity
	})
	return &c, nil
}

// Filter keeps the tools of one category (case-insensitive). Trending topics
// are not categorised and are always kept.
func (c *Catalog) Filter(category string) *Catalog {
	category = strings.TrimSpace(category)
	if category == "" {
		return c
	}
	match := func(list []Tool) []Tool {
		out := []Tool{}
		for _, t := range list {
			if strings.EqualFold(t.Category, category) {
				out = append(out, t)
			}
		}
		return out
	}
	return &Catalog{Hottest: match(c.Hottest), Newest: match(c.Newest), Trending: c.Trending}
}
