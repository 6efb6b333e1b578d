package dto

import (
	"fmt"
	"time"
)

// Column width limits mirrored from the relational schema.
const (
	maxNameLen  = 255
	maxEmailLen = 320
	maxPhoneLen = 15
)

// DateLayout is the calendar date format accepted and emitted by the API.
const DateLayout = "2006-01-02"

const msgRequired = "missing required field"

func requireString(problems map[string]any, field string, value *string, maxLen int) {
	if value == nil || *value == "" {
		problems[field] = msgRequired
		return
	}
	if maxLen > 0 && len(*value) > maxLen {
		problems[field] = fmt.Sprintf("must be at most %d characters", maxLen)
	}
}

func requireID(problems map[string]any, field string, value *int64) {
	if value == nil {
		problems[field] = msgRequired
		return
	}
	if *value <= 0 {
		problems[field] = "must be a positive id"
	}
}

func requireDate(problems map[string]any, field string, value *string) {
	if value == nil || *value == "" {
		problems[field] = msgRequired
		return
	}
	if _, err := time.Parse(DateLayout, *value); err != nil {
		problems[field] = "must be a valid date (YYYY-MM-DD)"
	}
}
