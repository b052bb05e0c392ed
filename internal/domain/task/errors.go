package task

// ConflictError reports a stale write: the server's copy of the task moved
// past what the client last observed. It carries both sides so the caller
// can show the user what happened; the mutation itself was fully aborted.
type ConflictError struct {
	CurrentTask *Task
	Attempted   UpdateTaskInput
}

func (e *ConflictError) Error() string {
	return "task was modified by another user"
}
