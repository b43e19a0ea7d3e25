// Package agent turns parsed intents into store mutations and the
// assistant's spoken replies. Every command produces exactly one reply
// string; external-service failures are folded into that string and
// never escape as errors.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/chattyhq/chatty/internal/intent"
	"github.com/chattyhq/chatty/internal/services"
	"github.com/chattyhq/chatty/internal/suggest"
	"github.com/chattyhq/chatty/models"
	"github.com/chattyhq/chatty/store"
)

const unknownHelp = "Oops! I'm puzzled. Try natural commands like 'hello', " +
	"'add task:desc', 'schedule task:desc at HH:MM', 'schedule recurring:desc at HH:MM', " +
	"'set priority:TIME to PRIORITY', 'feedback:SUGGESTION on LIKE/DISLIKE', " +
	"'generate blog', 'complete task:TIME_OR_DESC', 'review completed', " +
	"'list tasks', 'clear tasks', or 'exit'."

// Agent is the command dispatcher. Blogger and Mailer may be nil when the
// corresponding features are disabled in config.
type Agent struct {
	Store       *store.TaskStore
	Suggester   *suggest.Engine
	Blogger     services.BlogGenerator
	Mailer      services.Mailer
	Personality string
}

func New(s *store.TaskStore, personality string) *Agent {
	return &Agent{
		Store:       s,
		Suggester:   suggest.New(s),
		Personality: personality,
	}
}

// Reply carries one processed command: the text to show and the intent
// kind so the caller can react to exit and greeting states.
type Reply struct {
	Text string
	Kind intent.Kind
}

// Respond processes one raw command line against the store.
func (a *Agent) Respond(ctx context.Context, now time.Time, raw string) Reply {
	in := intent.Parse(raw, now)

	var text string
	switch in.Kind {
	case intent.Greet:
		text = fmt.Sprintf("Hey there! I'm your %s agent, ready to assist! %s",
			a.Personality, a.Suggester.Suggest(now))

	case intent.Add:
		task := a.Store.Add(in.Description, now)
		text = fmt.Sprintf("Yay! Added task: %s at %s!", task.Description, task.Timestamp())

	case intent.Schedule:
		st, err := a.Store.Schedule(in.Description, in.FireAt, in.Recurring, in.Priority)
		if err != nil {
			text = "Oops! Couldn't process the scheduled time. Please use a valid time format (e.g., '14:30' or '2:30 PM')."
			break
		}
		text = fmt.Sprintf("Woo-hoo! Scheduled '%s' (Priority: %d) for %s!",
			st.Description, st.Priority, st.FireAt.Format("2006-01-02 15:04"))

	case intent.SetPriority:
		st, ok := a.Store.SetPriority(in.Identifier, in.Priority)
		if !ok {
			text = fmt.Sprintf("No scheduled task found matching '%s'.", in.Identifier)
			break
		}
		text = fmt.Sprintf("Updated priority for '%s' at %s to %d!",
			st.Description, st.Timestamp(), st.Priority)

	case intent.Feedback:
		a.Store.RecordFeedback(in.Text, in.Feedback)
		polarity := "good"
		if in.Feedback < 0 {
			polarity = "bad"
		}
		text = fmt.Sprintf("Feedback recorded for '%s': %s", in.Text, polarity)

	case intent.GenerateBlog:
		text = a.generateBlog(ctx)

	case intent.Complete:
		done, ok := a.Store.Complete(in.Identifier)
		if !ok {
			text = fmt.Sprintf("Task '%s' not found in active or scheduled tasks.", in.Identifier)
			break
		}
		text = fmt.Sprintf("Great job! Marked '%s' (%s) as complete!", done.Description, done.Timestamp())

	case intent.Review:
		text = a.Store.CompletedReport()

	case intent.List:
		text = a.Store.ActiveReport()

	case intent.Clear:
		a.Store.Clear()
		text = "All tasks cleared! I'm all fresh now!"

	case intent.Exit:
		text = "Catch you later! Saving my notes..."

	default:
		text = in.Message
		if text == "" {
			text = unknownHelp
		}
	}

	return Reply{Text: text, Kind: in.Kind}
}

// GenerateBlog produces and mails one blog post. It is exported for the
// background ticker, which shares the same inline-error behavior as the
// interactive command.
func (a *Agent) GenerateBlog(ctx context.Context) string {
	return a.generateBlog(ctx)
}

func (a *Agent) generateBlog(ctx context.Context) string {
	if a.Blogger == nil {
		return "Blog generation is not configured. Set blog.enabled in the config to turn it on."
	}
	content, err := a.Blogger.Generate(ctx)
	if err != nil {
		return fmt.Sprintf("Couldn't generate the blog post: %v", err)
	}
	subject := "Chatty's Productivity Blog " + time.Now().Format(models.TimestampLayout)
	if a.Mailer != nil {
		if err := a.Mailer.Send(subject, content); err != nil {
			return fmt.Sprintf("Generated the blog post but couldn't email it: %v", err)
		}
		return "Blog generated and emailed!"
	}
	return "Blog generated!\n" + content
}
