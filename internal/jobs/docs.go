// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the order lifecycle.
//
// # Available Jobs
//
// 1. StaleClaimJob - Runs every 30 seconds to report, and optionally reopen, claims older than STALE_CLAIM_AFTER
// 2. AutoDeliveryJob - Runs every minute to mark long-Retrieved orders delivered as the system principal
// 3. OutboxRelayJob - Runs every second to publish order status changes to the broker
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(logger, staleClaimJob, autoDeliveryJob, outboxRelayJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Orders that moved on between listing and update are skipped silently
// - Every other failure is logged; the next tick retries
// - Failed job starts will stop any already running jobs
package jobs
