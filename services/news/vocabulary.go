package news

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var vocabularyYAML []byte

// CategoryVocabulary is one news category and the words that select it
type CategoryVocabulary struct {
	Key      string   `yaml:"key" json:"key"`
	Label    string   `yaml:"label" json:"label"`
	Global   string   `yaml:"global" json:"-"`
	NewsData string   `yaml:"newsdata" json:"-"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Vocabulary drives every provider query
type Vocabulary struct {
	AIKeywords      []string             `yaml:"ai_keywords"`
	GeoKeywords     []string             `yaml:"geo_keywords"`
	TrustedDomains  []string             `yaml:"trusted_domains"`
	ExcludedDomains []string             `yaml:"excluded_domains"`
	GlobalContext   string               `yaml:"global_context"`
	Categories      []CategoryVocabulary `yaml:"categories"`
}

// LoadVocabulary parses a YAML vocabulary document
func LoadVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse news vocabulary: %w", err)
	}
	if len(v.AIKeywords) == 0 || v.GlobalContext == "" {
		return nil, fmt.Errorf("news vocabulary needs ai_keywords and global_context")
	}
	return &v, nil
}

// DefaultVocabulary returns the embedded vocabulary
func DefaultVocabulary() *Vocabulary {
	v, err := LoadVocabulary(vocabularyYAML)
	if err != nil {
		panic(err)
	}
	return v
}

// Category looks up a category by key. "all" and "" are not categories.
func (v *Vocabulary) Category(key string) (CategoryVocabulary, bool) {
	for _, c := range v.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return CategoryVocabulary{}, false
}

func orGroup(words []string) string {
	return "(" + strings.Join(words, " OR ") + ")"
}

// FinlandQuery builds "(ai...) AND (geo...)", narrowed by the category
// keywords when a category is given
func (v *Vocabulary) FinlandQuery(category string) string {
	base := orGroup(v.AIKeywords) + " AND " + orGroup(v.GeoKeywords)
	if c, ok := v.Category(category); ok {
		return "(" + base + ") AND " + orGroup(c.Keywords)
	}
	return base
}

// GlobalQuery builds the worldwide AI query
func (v *Vocabulary) GlobalQuery(category string) string {
	if c, ok := v.Category(category); ok && c.Global != "" {
		return v.GlobalContext + " AND " + c.Global
	}
	return v.GlobalContext
}

// NewsDataQuery relies on the country filter, so it leaves out the geo terms
func (v *Vocabulary) NewsDataQuery(category string) string {
	q := orGroup(v.AIKeywords)
	if c, ok := v.Category(category); ok {
		q += " AND " + orGroup(c.Keywords)
	}
	return q
}

// NewsDataCategory maps a category onto NewsData's own category filter
func (v *Vocabulary) NewsDataCategory(category string) string {
	switch category {
	case "technology":
		return "technology,science"
	case "business":
		return "business"
	case "politics":
		return "politics"
	}
	if c, ok := v.Category(category); ok {
		return c.NewsData
	}
	return ""
}
