// Package gemini implements the desktop's generation collaborator over the
// generative language REST API.
//
// Every call passes through a token-bucket limiter and a circuit breaker,
// and the underlying transport retries 429 and 5xx responses with
// exponential backoff. Chat replies stream over server-sent events; images
// and downloaded videos come back as data URLs ready to embed.
//
//	client, err := gemini.New(cfg.AI, gemini.WithLogger(log), gemini.WithMetrics(m))
//	answer, err := client.SearchWeb(ctx, "latest Go release")
package gemini
