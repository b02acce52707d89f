package syllabus

import (
	"fmt"
	"strings"
)

const topicFormat = `Generate 6-8 progressive topics. For each topic provide:
- title (short, clear)
- description (2-3 sentences)
- estimatedMinutes (number, 5-30)
- keyPoints (array of 3-5 short bullet points)
- projects (array of 0-2 items: { "title": "...", "description": "..." })
- exercises (array of 0-2 items: { "title": "...", "description": "..." })
- resources (array of 0-3 items with SEARCHABLE titles, no URLs needed)

Resources format:
Links go stale, so give resource titles a learner can search for instead of URLs:
- For YouTube: "Search YouTube: [specific search term]"
- For articles: "Search Google: [article topic + site name]"
- For docs: "Official [Technology] Documentation"
Each resource has a "type" of "article", "tutorial" or "video".

Respond with ONLY a valid JSON array, no markdown or extra text. Example format:
[{"title":"...","description":"...","estimatedMinutes":15,"keyPoints":["..."],"projects":[],"exercises":[],"resources":[{"title":"Search YouTube: ...","type":"video"}]}]`

func buildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a personalized learning curriculum for the category %q.\n", req.Category)
	fmt.Fprintf(&b, "User goal: %s. Experience level: %s.", req.Goal, req.Level)

	if len(req.PreviouslyLearned) > 0 {
		b.WriteString(" The user has already completed courses in this category covering these topics. ")
		b.WriteString("EXCLUDE them and only suggest NEW, more advanced topics: ")
		b.WriteString(strings.Join(req.PreviouslyLearned, ", "))
		b.WriteString(".")
	} else {
		b.WriteString(" This is their first course in this category, so provide a solid foundation")
		b.WriteString(" (beginner-friendly if level is Beginner).")
	}

	if req.DetailedGoal != "" || req.LearningStyle != "" || req.CourseStructure != "" {
		b.WriteString("\n\nUser Preferences:")
		if req.DetailedGoal != "" {
			fmt.Fprintf(&b, "\n- Specific goal: %s", req.DetailedGoal)
		}
		if req.LearningStyle != "" {
			fmt.Fprintf(&b, "\n- Learning style: %s", req.LearningStyle)
		}
		if req.CourseStructure != "" {
			fmt.Fprintf(&b, "\n- Course structure: %s", req.CourseStructure)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(topicFormat)
	return b.String()
}
