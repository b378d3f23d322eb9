/*
Package resilience provides the circuit breaker that sits in front of the
remote generation service.

When the service keeps failing, panels get an immediate ErrCircuitOpen
instead of waiting on a request that will time out. Caller cancellation is
not counted as a failure.

# Usage

	breaker := resilience.New("gemini", resilience.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 3 },
	})

	text, err := resilience.Execute(ctx, breaker, func(ctx context.Context) (string, error) {
		return client.generate(ctx, prompt)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
