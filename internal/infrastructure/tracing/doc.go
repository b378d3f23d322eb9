/*
Package tracing provides lightweight request tracing.

Every HTTP request gets a span. The trace id is taken from X-Trace-ID when the
caller sends one and echoed back in the response. Calls made on behalf of the
request (the generation service, terminal commands) open child spans from the
request context and forward the same headers.

Spans are buffered (1000) and logged asynchronously; a full buffer drops.

	tracer := tracing.New("deskd", logger)
	router.Use(tracing.HTTPMiddleware(tracer))

	err := tracer.Trace(ctx, "gemini.generate", func(ctx context.Context) error {
		return call(ctx)
	})
*/
package tracing
