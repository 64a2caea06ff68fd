// Package resilience groups the fault-tolerance helpers used around every
// outbound call of the newsroom: feed fetches, page scrapes, LLM requests and
// SMTP delivery.
//
//	cb := circuitbreaker.New(circuitbreaker.FeedConfig())
//	err := retry.WithBackoff(ctx, retry.FromAttempts(3), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) { return fetch(ctx) })
//	    return err
//	})
package resilience
