// Package jobs provides scheduled background tasks of the order service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds precision) and are
// started and stopped together through JobManager.
//
// # Available Jobs
//
//  1. OutboxRelayJob - runs every second and publishes pending outbox messages
//  2. OrderStatusGaugeJob - refreshes the orders-by-status gauge every 15 seconds
//  3. DedupPurgeJob - removes expired processed-message keys every 5 minutes,
//     only scheduled when deduplication uses PostgreSQL
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewOutboxRelayJob(relayHandler, batchSize, m, logger),
//		jobs.NewOrderStatusGaugeJob(countHandler, m, logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// A run that is still in progress when the next tick arrives is skipped.
package jobs
