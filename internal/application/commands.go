package application

// ExecuteCommand is one user request through the full engine:
// admission, selection, dispatch, recording.
type ExecuteCommand struct {
	UserID    string
	Prompt    string
	Objective string
}
