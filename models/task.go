package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TimestampLayout is the wall-clock format used everywhere a timestamp is
// shown to the user or written to the snapshot file. Lexicographic order on
// formatted values equals chronological order.
const TimestampLayout = "2006-01-02 15:04:05"

// Priority bounds for scheduled tasks. Values outside the range are clamped,
// never rejected.
const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 1
)

// Task is an ad-hoc, undated reminder. It is never mutated after creation;
// completing it moves it into a CompletedTask.
type Task struct {
	ID          string    `json:"id" validate:"required,uuid4"`
	Description string    `json:"desc" validate:"required"`
	CreatedAt   time.Time `json:"createdAt" validate:"required"`
}

// Timestamp returns the creation time in the canonical display format.
func (t Task) Timestamp() string {
	return t.CreatedAt.Format(TimestampLayout)
}

// ScheduledTask is a reminder bound to an absolute fire time, optionally
// recurring daily. The ID is an opaque surrogate; the fire time is an
// attribute, so two tasks scheduled for the same second do not collide.
type ScheduledTask struct {
	ID          string    `json:"id" validate:"required,uuid4"`
	Description string    `json:"desc" validate:"required"`
	FireAt      time.Time `json:"fireAt" validate:"required"`
	Recurring   bool      `json:"recurring"`
	Priority    int       `json:"priority" validate:"min=1,max=5"`
}

// Timestamp returns the fire time in the canonical display format.
func (t ScheduledTask) Timestamp() string {
	return t.FireAt.Format(TimestampLayout)
}

// CompletedTask is the append-only record left behind when an ad-hoc or
// scheduled task is completed. CompletedAt carries the source task's
// creation or fire time, so completed reports stay in the original order.
type CompletedTask struct {
	ID          string    `json:"id" validate:"required,uuid4"`
	Description string    `json:"desc" validate:"required"`
	CompletedAt time.Time `json:"completedAt" validate:"required"`
}

// Timestamp returns the original creation/fire time in display format.
func (t CompletedTask) Timestamp() string {
	return t.CompletedAt.Format(TimestampLayout)
}

// ClampPriority forces p into [MinPriority, MaxPriority].
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
