package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chattyhq/chatty/internal/intent"
	"github.com/chattyhq/chatty/store"
)

var testNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	return New(store.NewTaskStore(), "cheerful")
}

type stubBlogger struct {
	content string
	err     error
}

func (s stubBlogger) Generate(context.Context) (string, error) { return s.content, s.err }

type recordingMailer struct {
	subject string
	body    string
	err     error
}

func (m *recordingMailer) Send(subject, body string) error {
	m.subject = subject
	m.body = body
	return m.err
}

func TestGreetIncludesSuggestion(t *testing.T) {
	a := newTestAgent(t)
	r := a.Respond(context.Background(), testNow, "hello")
	if r.Kind != intent.Greet {
		t.Fatalf("kind = %s, want greet", r.Kind)
	}
	if !strings.Contains(r.Text, "cheerful agent") {
		t.Errorf("greeting missing personality: %q", r.Text)
	}
	if !strings.Contains(r.Text, "Add your own task!") {
		t.Errorf("greeting with no history should fall back to the generic nudge: %q", r.Text)
	}
}

func TestAddAndList(t *testing.T) {
	a := newTestAgent(t)
	r := a.Respond(context.Background(), testNow, "add task:buy milk")
	if r.Kind != intent.Add {
		t.Fatalf("kind = %s, want add", r.Kind)
	}
	if !strings.Contains(r.Text, "Yay! Added task: buy milk at 2025-06-02 09:00:00!") {
		t.Errorf("unexpected add reply: %q", r.Text)
	}

	list := a.Respond(context.Background(), testNow, "list tasks")
	if !strings.Contains(list.Text, "buy milk") {
		t.Errorf("list missing added task: %q", list.Text)
	}
}

func TestScheduleReply(t *testing.T) {
	a := newTestAgent(t)
	r := a.Respond(context.Background(), testNow, "schedule task:water plants at 14:30")
	if r.Kind != intent.Schedule {
		t.Fatalf("kind = %s, want schedule", r.Kind)
	}
	want := "Woo-hoo! Scheduled 'water plants' (Priority: 1) for 2025-06-02 14:30!"
	if r.Text != want {
		t.Errorf("reply = %q, want %q", r.Text, want)
	}
}

func TestScheduleBadTimeSurfacesMessage(t *testing.T) {
	a := newTestAgent(t)
	r := a.Respond(context.Background(), testNow, "schedule task:stretch at purple")
	if r.Kind != intent.Unknown {
		t.Fatalf("kind = %s, want unknown", r.Kind)
	}
	if !strings.Contains(r.Text, "purple") {
		t.Errorf("reply should echo the unparseable phrase: %q", r.Text)
	}
}

func TestCompleteRoundTrip(t *testing.T) {
	a := newTestAgent(t)
	a.Respond(context.Background(), testNow, "add task:file taxes")
	r := a.Respond(context.Background(), testNow, "complete task:taxes")
	if !strings.HasPrefix(r.Text, "Great job! Marked 'file taxes'") {
		t.Errorf("unexpected complete reply: %q", r.Text)
	}

	miss := a.Respond(context.Background(), testNow, "complete task:taxes")
	if miss.Text != "Task 'taxes' not found in active or scheduled tasks." {
		t.Errorf("unexpected miss reply: %q", miss.Text)
	}
}

func TestSetPriorityReplies(t *testing.T) {
	a := newTestAgent(t)
	a.Respond(context.Background(), testNow, "schedule task:review notes at 18:00")
	r := a.Respond(context.Background(), testNow, "set priority:review notes to 4")
	if !strings.Contains(r.Text, "to 4!") {
		t.Errorf("unexpected set-priority reply: %q", r.Text)
	}

	miss := a.Respond(context.Background(), testNow, "set priority:nothing here to 2")
	if miss.Text != "No scheduled task found matching 'nothing here'." {
		t.Errorf("unexpected miss reply: %q", miss.Text)
	}
}

func TestFeedbackPolarity(t *testing.T) {
	a := newTestAgent(t)
	good := a.Respond(context.Background(), testNow, "feedback:morning run on like")
	if good.Text != "Feedback recorded for 'morning run': good" {
		t.Errorf("unexpected reply: %q", good.Text)
	}
	bad := a.Respond(context.Background(), testNow, "feedback:morning run on dislike")
	if bad.Text != "Feedback recorded for 'morning run': bad" {
		t.Errorf("unexpected reply: %q", bad.Text)
	}
}

func TestClearAndExit(t *testing.T) {
	a := newTestAgent(t)
	a.Respond(context.Background(), testNow, "add task:anything")
	r := a.Respond(context.Background(), testNow, "clear tasks")
	if r.Text != "All tasks cleared! I'm all fresh now!" {
		t.Errorf("unexpected clear reply: %q", r.Text)
	}
	if got := len(a.Store.Tasks()); got != 0 {
		t.Errorf("store still has %d tasks after clear", got)
	}

	exit := a.Respond(context.Background(), testNow, "exit")
	if exit.Kind != intent.Exit {
		t.Fatalf("kind = %s, want exit", exit.Kind)
	}
	if exit.Text != "Catch you later! Saving my notes..." {
		t.Errorf("unexpected exit reply: %q", exit.Text)
	}
}

func TestUnknownFallsBackToHelp(t *testing.T) {
	a := newTestAgent(t)
	r := a.Respond(context.Background(), testNow, "do a barrel roll")
	if r.Kind != intent.Unknown {
		t.Fatalf("kind = %s, want unknown", r.Kind)
	}
	if !strings.Contains(r.Text, "Try natural commands") {
		t.Errorf("unknown reply should carry usage help: %q", r.Text)
	}
}

func TestGenerateBlogMailsContent(t *testing.T) {
	a := newTestAgent(t)
	mailer := &recordingMailer{}
	a.Blogger = stubBlogger{content: "Five focus tips."}
	a.Mailer = mailer

	r := a.Respond(context.Background(), testNow, "generate blog")
	if r.Text != "Blog generated and emailed!" {
		t.Errorf("unexpected reply: %q", r.Text)
	}
	if mailer.body != "Five focus tips." {
		t.Errorf("mailer got body %q", mailer.body)
	}
	if !strings.HasPrefix(mailer.subject, "Chatty's Productivity Blog") {
		t.Errorf("unexpected subject %q", mailer.subject)
	}
}

func TestGenerateBlogErrorsAreInline(t *testing.T) {
	a := newTestAgent(t)

	r := a.Respond(context.Background(), testNow, "generate blog")
	if !strings.Contains(r.Text, "not configured") {
		t.Errorf("unconfigured blogger reply: %q", r.Text)
	}

	a.Blogger = stubBlogger{err: errors.New("connection refused")}
	r = a.Respond(context.Background(), testNow, "generate blog")
	if !strings.Contains(r.Text, "connection refused") {
		t.Errorf("generation failure should be inline: %q", r.Text)
	}

	a.Blogger = stubBlogger{content: "post"}
	a.Mailer = &recordingMailer{err: errors.New("smtp down")}
	r = a.Respond(context.Background(), testNow, "generate blog")
	if !strings.Contains(r.Text, "smtp down") {
		t.Errorf("mail failure should be inline: %q", r.Text)
	}
}
