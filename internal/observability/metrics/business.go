package metrics

import (
	"time"
)

// RecordFeedLinks records how many links a source feed yielded.
func RecordFeedLinks(source string, count int) {
	FeedLinksFetched.WithLabelValues(source).Add(float64(count))
}

// RecordFeedFailure records a source whose feed could not be read.
func RecordFeedFailure(source string) {
	FeedFetchFailures.WithLabelValues(source).Inc()
}

// RecordScrape records the outcome of a single page scrape.
func RecordScrape(outcome string) {
	ScrapeOutcomes.WithLabelValues(outcome).Inc()
}

// RecordDraftGenerated records whether the generator produced a real draft.
func RecordDraftGenerated(success bool) {
	outcome := "ok"
	if !success {
		outcome = "sentinel"
	}
	DraftsGenerated.WithLabelValues(outcome).Inc()
}

// RecordDraftSaved records a persisted draft in category.
func RecordDraftSaved(category string) {
	DraftsSaved.WithLabelValues(category).Inc()
}

// RecordDraftRun records the duration of an orchestrator run.
func RecordDraftRun(duration time.Duration) {
	DraftRunDuration.Observe(duration.Seconds())
}

// RecordOTPSend records an OTP send request result.
func RecordOTPSend(result string) {
	OTPSent.WithLabelValues(result).Inc()
}

// RecordOTPVerify records an OTP verification outcome.
func RecordOTPVerify(outcome string) {
	OTPVerified.WithLabelValues(outcome).Inc()
}

// RecordMailDelivery records an outbox delivery attempt.
func RecordMailDelivery(result string) {
	MailDeliveries.WithLabelValues(result).Inc()
}

// RecordDBQuery records the duration of a database query.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates the database connection pool gauges.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
