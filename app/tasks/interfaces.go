package tasks

// TaskSchedulerInterface defines the interface for background task scheduling.
// Used by server mode to run the three pipeline stages periodically.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
