package syllabus

import (
	_ "embed"
	"strings"

	"github.com/sahilchouksey/skills-lab/model"
	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

type fallbackTopic struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Minutes     int    `yaml:"minutes"`
}

type fallbackCatalog struct {
	Beginner []fallbackTopic `yaml:"beginner"`
	Advanced []fallbackTopic `yaml:"advanced"`
}

var fallbackSets = mustLoadFallback()

func mustLoadFallback() fallbackCatalog {
	var c fallbackCatalog
	if err := yaml.Unmarshal(fallbackYAML, &c); err != nil {
		panic("syllabus: invalid fallback.yaml: " + err.Error())
	}
	return c
}

// FallbackTopics returns the canned curriculum: the foundation sequence for a
// first course in a category, the continuation sequence otherwise.
func FallbackTopics(category string, advanced bool) []model.Topic {
	set := fallbackSets.Beginner
	if advanced {
		set = fallbackSets.Advanced
	}

	topics := make([]model.Topic, len(set))
	for i, t := range set {
		topics[i] = model.Topic{
			Title:            strings.ReplaceAll(t.Title, "{category}", category),
			Description:      t.Description,
			EstimatedMinutes: t.Minutes,
			KeyPoints:        []string{},
			Projects:         []model.TopicProject{},
			Exercises:        []model.TopicExercise{},
			Resources:        []model.TopicResource{},
		}
	}
	return finalize(topics)
}
