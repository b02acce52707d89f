package syllabus

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/validation"
)

// MaxTopics caps the number of topics kept from a model response
const MaxTopics = 8

// Source tells where a generated topic list came from
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Goals, levels, learning styles and course structures accepted by the generator
var (
	Goals      = []string{"Career Change", "Upskilling", "Building a Product", "Just Curious"}
	Levels     = []string{"Beginner", "Intermediate", "Expert"}
	Styles     = []string{"Visual", "Reading", "Hands-on", "Video"}
	Structures = []string{"Project-based", "Theory-first", "Balanced", "Fast-track"}
)

// TextGenerator is a one-shot prompt/response text model
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Request describes the course to generate
type Request struct {
	Category          string
	Goal              string
	Level             string
	PreviouslyLearned []string
	DetailedGoal      string
	LearningStyle     string
	CourseStructure   string
}

// Result always carries a usable topic list. Diagnostic is set when the
// model path was not taken or its output was discarded.
type Result struct {
	Topics     []model.Topic `json:"topics"`
	Source     Source        `json:"source"`
	Diagnostic string        `json:"diagnostic,omitempty"`
}

type Generator struct {
	model TextGenerator
	log   *logger.Logger
}

// NewGenerator creates a generator. A nil model means every request is
// served from the fallback curriculum.
func NewGenerator(m TextGenerator, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{model: m, log: log.With("component", "syllabus")}
}

// Enabled reports whether a text model is configured
func (g *Generator) Enabled() bool {
	return g.model != nil
}

// Generate produces an ordered topic list for req. It never fails: any
// problem with the model degrades to the fallback curriculum.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	advanced := len(req.PreviouslyLearned) > 0

	if g.model == nil {
		return g.fallback(req, advanced, "text generation is not configured")
	}

	text, err := g.model.Complete(ctx, buildPrompt(req))
	if err != nil {
		return g.fallback(req, advanced, fmt.Sprintf("model request failed: %v", err))
	}

	switch out := parseTopics(text).(type) {
	case parsedTopics:
		topics := finalize(out.topics)
		g.log.Info("syllabus generated", "category", req.Category, "topics", len(topics))
		return Result{Topics: topics, Source: SourceModel}
	case parseFailure:
		return g.fallback(req, advanced, "unusable model response: "+out.reason)
	}
	return g.fallback(req, advanced, "unusable model response")
}

func (g *Generator) fallback(req Request, advanced bool, diagnostic string) Result {
	g.log.Warn("using fallback syllabus", "category", req.Category, "advanced", advanced, "reason", diagnostic)
	return Result{
		Topics:     finalize(FallbackTopics(req.Category, advanced)),
		Source:     SourceFallback,
		Diagnostic: diagnostic,
	}
}

// finalize truncates to MaxTopics and renumbers ids topic-0 .. topic-(n-1)
func finalize(topics []model.Topic) []model.Topic {
	if len(topics) > MaxTopics {
		topics = topics[:MaxTopics]
	}
	out := make([]model.Topic, len(topics))
	for i, t := range topics {
		t.ID = fmt.Sprintf("topic-%d", i)
		out[i] = t
	}
	return out
}

// NewRequestValidator returns a validator that understands the
// syllabus_goal, syllabus_level, syllabus_style and syllabus_structure tags
func NewRequestValidator() *validation.Validator {
	return validation.NewValidator().
		RegisterEnum("syllabus_goal", Goals).
		RegisterEnum("syllabus_level", Levels).
		RegisterEnum("syllabus_style", Styles).
		RegisterEnum("syllabus_structure", Structures)
}
