package launch

import "fmt"

// Priority is the scheduling class requested for the launched process.
// The execution layer maps it onto the platform scheduler.
type Priority int

const (
	// PriorityIdle runs only when the system is otherwise idle.
	PriorityIdle Priority = iota
	// PriorityBelowNormal is scheduled below the default class.
	PriorityBelowNormal
	// PriorityNormal is the default scheduling class.
	PriorityNormal
	// PriorityAboveNormal is scheduled above the default class.
	PriorityAboveNormal
	// PriorityHigh is for time-sensitive processes.
	PriorityHigh
	// PriorityRealTime preempts all lower classes; use with care.
	PriorityRealTime
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityIdle:
		return "idle"
	case PriorityBelowNormal:
		return "below-normal"
	case PriorityNormal:
		return "normal"
	case PriorityAboveNormal:
		return "above-normal"
	case PriorityHigh:
		return "high"
	case PriorityRealTime:
		return "realtime"
	default:
		return "unknown"
	}
}

// ParsePriority parses the textual form used in configuration files.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "idle":
		return PriorityIdle, nil
	case "below-normal":
		return PriorityBelowNormal, nil
	case "normal", "":
		return PriorityNormal, nil
	case "above-normal":
		return PriorityAboveNormal, nil
	case "high":
		return PriorityHigh, nil
	case "realtime":
		return PriorityRealTime, nil
	default:
		return PriorityNormal, fmt.Errorf("unknown priority %q", s)
	}
}
