// Package intent maps raw command strings onto a fixed set of typed
// intents. Recognition is a prioritized rule table, not a grammar: rules
// are tried top to bottom and the first structural match wins, so a
// command containing keywords for several intents resolves to the
// earliest-listed one.
package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chattyhq/chatty/internal/timeparse"
	"github.com/chattyhq/chatty/models"
)

// Kind enumerates every intent the assistant understands.
type Kind string

const (
	Greet        Kind = "greet"
	Add          Kind = "add"
	Schedule     Kind = "schedule"
	SetPriority  Kind = "set_priority"
	Feedback     Kind = "feedback"
	GenerateBlog Kind = "generate_blog"
	Complete     Kind = "complete"
	Review       Kind = "review"
	List         Kind = "list"
	Clear        Kind = "clear"
	Exit         Kind = "exit"
	Unknown      Kind = "unknown"
)

// Intent is the structured result of parsing one command line. Only the
// fields relevant to Kind are populated.
type Intent struct {
	Kind        Kind
	Description string    // add, schedule
	FireAt      time.Time // schedule
	Recurring   bool      // schedule
	Priority    int       // schedule, set_priority
	Identifier  string    // complete, set_priority
	Feedback    int       // feedback: +1 or -1
	Text        string    // feedback: the suggestion being rated
	Message     string    // unknown: corrective message, if any
}

var (
	reGreet       = regexp.MustCompile(`^(hello|hi|hey)\b`)
	reAdd         = regexp.MustCompile(`^add task:(.*)$`)
	reSchedule    = regexp.MustCompile(`^(schedule task|schedule recurring):(.+?)( at | for | in )(.+)$`)
	reSetPriority = regexp.MustCompile(`^set priority:(.+?) to (-?\d+)$`)
	reFeedback    = regexp.MustCompile(`^feedback:(.+?) on (like|good|dislike|bad)$`)
	reBlog        = regexp.MustCompile(`^generate blog\b`)
	reComplete    = regexp.MustCompile(`^complete task:(.*)$`)
	reReview      = regexp.MustCompile(`^review completed\b`)
	reList        = regexp.MustCompile(`^list tasks\b`)
	reClear       = regexp.MustCompile(`^clear tasks\b`)
	reExit        = regexp.MustCompile(`^exit\b`)

	rePriorityTag = regexp.MustCompile(`\(priority:(-?\d+)\)`)
)

// Parse classifies raw. It is a pure function of its inputs: now is only
// consulted to resolve time phrases into absolute fire times.
func Parse(raw string, now time.Time) Intent {
	command := strings.ToLower(strings.TrimSpace(raw))

	if reGreet.MatchString(command) {
		return Intent{Kind: Greet}
	}

	if m := reAdd.FindStringSubmatch(command); m != nil {
		desc := strings.TrimSpace(m[1])
		if desc == "" {
			return Intent{Kind: Unknown, Message: "Please provide a task description after 'add task:'!"}
		}
		return Intent{Kind: Add, Description: desc}
	}

	if m := reSchedule.FindStringSubmatch(command); m != nil {
		return parseSchedule(command, m, now)
	}

	if m := reSetPriority.FindStringSubmatch(command); m != nil {
		p, err := strconv.Atoi(m[2])
		if err != nil {
			return Intent{Kind: Unknown}
		}
		return Intent{
			Kind:       SetPriority,
			Identifier: strings.TrimSpace(m[1]),
			Priority:   models.ClampPriority(p),
		}
	}

	if m := reFeedback.FindStringSubmatch(command); m != nil {
		score := 1
		if m[2] == "dislike" || m[2] == "bad" {
			score = -1
		}
		return Intent{Kind: Feedback, Text: strings.TrimSpace(m[1]), Feedback: score}
	}

	if reBlog.MatchString(command) {
		return Intent{Kind: GenerateBlog}
	}

	if m := reComplete.FindStringSubmatch(command); m != nil {
		ident := strings.TrimSpace(m[1])
		if ident == "" {
			return Intent{Kind: Unknown, Message: "Please say which task to complete, e.g. 'complete task:water plants'!"}
		}
		return Intent{Kind: Complete, Identifier: ident}
	}

	switch {
	case reReview.MatchString(command):
		return Intent{Kind: Review}
	case reList.MatchString(command):
		return Intent{Kind: List}
	case reClear.MatchString(command):
		return Intent{Kind: Clear}
	case reExit.MatchString(command):
		return Intent{Kind: Exit}
	}

	return Intent{Kind: Unknown}
}

func parseSchedule(command string, m []string, now time.Time) Intent {
	desc := strings.TrimSpace(m[2])
	phrase := strings.TrimSpace(m[4])

	priority := models.DefaultPriority
	if pm := rePriorityTag.FindStringSubmatch(desc); pm != nil {
		if p, err := strconv.Atoi(pm[1]); err == nil {
			priority = models.ClampPriority(p)
		}
		desc = strings.TrimSpace(strings.Replace(desc, pm[0], "", 1))
	}

	if desc == "" {
		return Intent{Kind: Unknown, Message: "Please provide a task description, e.g. 'schedule task:check desk at 1:15'!"}
	}

	fireAt, err := timeparse.Resolve(now, phrase)
	if err != nil {
		return Intent{Kind: Unknown, Message: fmt.Sprintf("Hmm, %v.", err)}
	}

	return Intent{
		Kind:        Schedule,
		Description: desc,
		FireAt:      fireAt,
		Recurring:   strings.Contains(command, "recurring"),
		Priority:    priority,
	}
}
