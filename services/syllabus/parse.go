package syllabus

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/sahilchouksey/skills-lab/model"
)

var fencePattern = regexp.MustCompile("```json?\\s*|\\s*```")

// parseOutcome is either parsedTopics or parseFailure
type parseOutcome interface {
	isParseOutcome()
}

type parsedTopics struct {
	topics []model.Topic
}

type parseFailure struct {
	reason string
}

func (parsedTopics) isParseOutcome() {}
func (parseFailure) isParseOutcome() {}

type rawResource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

type rawTopic struct {
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	EstimatedMinutes float64               `json:"estimatedMinutes"`
	KeyPoints        []string              `json:"keyPoints"`
	Projects         []model.TopicProject  `json:"projects"`
	Exercises        []model.TopicExercise `json:"exercises"`
	Resources        []rawResource         `json:"resources"`
}

// stripFences removes markdown code fence markers around a model response
func stripFences(text string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
}

// parseTopics validates a model response against the topic schema. Anything
// short of a non-empty JSON array of titled topics is a failure.
func parseTopics(text string) parseOutcome {
	cleaned := stripFences(text)
	if cleaned == "" {
		return parseFailure{reason: "empty response"}
	}
	if !strings.HasPrefix(cleaned, "[") {
		return parseFailure{reason: "response is not a JSON array"}
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	var raw []rawTopic
	if err := dec.Decode(&raw); err != nil {
		return parseFailure{reason: "invalid JSON: " + err.Error()}
	}
	if dec.More() {
		return parseFailure{reason: "trailing data after JSON array"}
	}
	if len(raw) == 0 {
		return parseFailure{reason: "empty topic list"}
	}

	topics := make([]model.Topic, 0, len(raw))
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			return parseFailure{reason: "topic without title"}
		}
		topics = append(topics, model.Topic{
			Title:            title,
			Description:      strings.TrimSpace(r.Description),
			EstimatedMinutes: minutes(r.EstimatedMinutes),
			KeyPoints:        r.KeyPoints,
			Projects:         r.Projects,
			Exercises:        r.Exercises,
			Resources:        resources(r.Resources),
		})
	}
	return parsedTopics{topics: topics}
}

func minutes(v float64) int {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func resources(raw []rawResource) []model.TopicResource {
	if len(raw) == 0 {
		return nil
	}
	out := make([]model.TopicResource, 0, len(raw))
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		out = append(out, model.TopicResource{
			Title: title,
			URL:   strings.TrimSpace(r.URL),
			Type:  resourceType(r.Type),
		})
	}
	return out
}

func resourceType(v string) model.ResourceType {
	switch t := model.ResourceType(strings.ToLower(strings.TrimSpace(v))); t {
	case model.ResourceArticle, model.ResourceTutorial, model.ResourceVideo:
		return t
	}
	return model.ResourceArticle
}
