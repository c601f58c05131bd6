package tasks

import "fmt"

// ProgressUpdate represents a progress event during a multi-step plan.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Plan phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Task    string // Task name
	Message string // Human-readable message for display
	Err     error  // Set when the step failed
}

// Plan phase enumeration
type Phase int

const (
	ResolveIdentity Phase = iota
	DeepSearch
	FetchGenres
	FetchQueries
	CategorizePlaylists
)

func (p Phase) String() string {
	switch p {
	case ResolveIdentity:
		return "resolve_identity"
	case DeepSearch:
		return "deep_search"
	case FetchGenres:
		return "fetch_genres"
	case FetchQueries:
		return "fetch_queries"
	case CategorizePlaylists:
		return "categorize_playlists"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func startedUpdate(phase Phase, step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Task:    name,
		Message: fmt.Sprintf("[%d/%d] %s...", step, total, name),
	}
}

func failedUpdate(phase Phase, step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Task:    name,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
		Err:     err,
	}
}

func stoppedUpdate(phase Phase, step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Task:    name,
		Message: fmt.Sprintf("[%d/%d] ✓ %s, skipping %d remaining", step, total, name, total-step),
	}
}
