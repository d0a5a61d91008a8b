package models

import "strings"

// StatusRecord is the backend's per-user view of a course exam.
type StatusRecord struct {
	Attempted bool `json:"attempted"`
	Passed    bool `json:"passed"`
}

// Status is the closed set of progress states a course can be in for a user.
type Status int

const (
	NotAttempted Status = iota
	InProgress
	Completed
)

func StatusOf(r StatusRecord) Status {
	switch {
	case !r.Attempted:
		return NotAttempted
	case r.Passed:
		return Completed
	default:
		return InProgress
	}
}

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	default:
		return "not_attempted"
	}
}

// Label is the catalog call-to-action for the status.
func (s Status) Label() string {
	switch s {
	case InProgress:
		return "Continue Course"
	case Completed:
		return "Already Completed"
	default:
		return "Get Start"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StatusFilter selects courses by status. Use AnyStatus to match every course.
type StatusFilter struct {
	All    bool
	Status Status
}

var AnyStatus = StatusFilter{All: true}

func OnlyStatus(s Status) StatusFilter {
	return StatusFilter{Status: s}
}

func (f StatusFilter) Matches(s Status) bool {
	return f.All || f.Status == s
}

func (f StatusFilter) String() string {
	if f.All {
		return "all"
	}
	return f.Status.String()
}

// ParseStatusFilter accepts both the short query names and the labels
// shown in the catalog dropdown. Unknown values select everything.
func ParseStatusFilter(raw string) StatusFilter {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "new", "new course", "not_attempted":
		return OnlyStatus(NotAttempted)
	case "continue", "continue course", "in_progress":
		return OnlyStatus(InProgress)
	case "completed", "completed course":
		return OnlyStatus(Completed)
	default:
		return AnyStatus
	}
}
