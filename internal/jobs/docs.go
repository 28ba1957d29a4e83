// Package jobs provides scheduled background tasks for the delivery board.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. NotificationSweepJob - Periodically re-fires the scheduling
// notification for pending delivery jobs whose sent flag is still unset.
// The sweep is a redelivery source: it may race with a concurrent create
// trigger, and the dispatcher's transactional flag decides the winner.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(sweepHandler, "@every 1m", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Sweep failures are logged and retried on the next tick; individual
// dispatch races inside a sweep pass are expected and not treated as
// errors.
package jobs
