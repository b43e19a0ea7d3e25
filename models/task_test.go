package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestClampPriority(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 1},
		{-3, 1},
		{1, 1},
		{3, 3},
		{5, 5},
		{9, 5},
		{100, 5},
	}
	for _, c := range cases {
		if got := ClampPriority(c.in); got != c.want {
			t.Errorf("ClampPriority(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestTimestampFormat(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 0, 5, 0, time.Local)
	task := Task{ID: uuid.NewString(), Description: "water plants", CreatedAt: at}
	if got, want := task.Timestamp(), "2025-03-09 14:00:05"; got != want {
		t.Errorf("Timestamp() = %q, want %q", got, want)
	}
}

func TestValidateScheduledTask(t *testing.T) {
	good := ScheduledTask{
		ID:          uuid.NewString(),
		Description: "standup",
		FireAt:      time.Now().Add(time.Hour),
		Priority:    3,
	}
	if err := ValidateStruct(good); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	bad := good
	bad.Priority = 7
	if err := ValidateStruct(bad); err == nil {
		t.Error("expected validation error for priority 7")
	}

	bad = good
	bad.ID = "not-a-uuid"
	if err := ValidateStruct(bad); err == nil {
		t.Error("expected validation error for malformed ID")
	}
}
