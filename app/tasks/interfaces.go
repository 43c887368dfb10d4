package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API to manage background processing.
// Example usage:
//
//	scheduler := NewScheduler(configCache, sourceRepo, articleRepo, fetcher, renderer, ...)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewScrapeSourceTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
