package interview

import (
	"fmt"
	"strings"
	"time"

	"github.com/hireloop/backend/internal/model/interview"
)

// introMessage builds the personalized introduction shown when the interview
// starts.
func introMessage(role string, seniority interview.Seniority, focusAreas []string, settings interview.Settings) string {
	minQuestions := settings.MaxQuestions - 2
	if minQuestions < 1 {
		minQuestions = 1
	}

	var bullets strings.Builder
	for _, area := range focusAreas {
		bullets.WriteString("- ")
		bullets.WriteString(area)
		bullets.WriteString("\n")
	}

	return fmt.Sprintf(`Welcome to your mock interview for the **%s** position!

Based on your resume, I've identified you as a **%s-level** candidate.

**How this interview works:**
- I'll ask you %d to %d technical questions
- Questions will focus on theory and system design (no coding)
- We have about %d minutes
- I might ask follow-up questions to understand your thinking
- Your scores will be visible throughout (full transparency!)

**Today's focus areas:**
%s
Feel free to ask me to clarify any question. This is a learning experience, so don't stress!

Ready to begin?`,
		role,
		capitalize(string(seniority)),
		minQuestions,
		settings.MaxQuestions,
		int(settings.Duration/time.Minute),
		bullets.String(),
	)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
