package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the closed set of labels a todo can carry. Values outside the
// set are rejected at the API boundary, before any store I/O.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryStudy    Category = "Study"
	CategoryPersonal Category = "Personal"
	CategoryOther    Category = "Other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryStudy, CategoryPersonal, CategoryOther:
		return true
	}
	return false
}

type Todo struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Text      string             `json:"text" bson:"text"`
	Completed bool               `json:"completed" bson:"completed"`
	DueDate   time.Time          `json:"dueDate" bson:"dueDate"`
	Category  Category           `json:"category" bson:"category"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type CreateTodoRequest struct {
	Text     string   `json:"text"`
	DueDate  string   `json:"dueDate"`
	Category Category `json:"category"`
}

// UpdateTodoRequest carries a partial patch. Pointer fields distinguish
// "key absent, leave unchanged" from an explicit overwrite, so an explicit
// completed=false survives the trip.
type UpdateTodoRequest struct {
	Text      *string   `json:"text"`
	Completed *bool     `json:"completed"`
	DueDate   *string   `json:"dueDate"`
	Category  *Category `json:"category"`
}

// TodoPatch is the store-level shape of a partial update: only non-nil
// fields are written.
type TodoPatch struct {
	Text      *string
	Completed *bool
	DueDate   *time.Time
	Category  *Category
}

var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// ParseDueDate accepts a date ("2006-01-02", stored as start of day UTC) or
// an RFC3339 datetime.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("due date is required")
	}
	for _, layout := range dueDateLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("due date must be YYYY-MM-DD or an RFC3339 datetime: %q", s)
}
