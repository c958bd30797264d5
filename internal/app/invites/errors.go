package invites

// Error carries the HTTP status and stable machine code for a failed
// invite operation. Handlers surface it verbatim in the error envelope.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}
