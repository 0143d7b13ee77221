// Package sender provides HTTP transmission of trace payloads.
//
// This package POSTs joined trace payloads to a collector's traces
// endpoint, setting the payload's content type and trace count headers.
// Transient failures (network errors and 5xx responses) are retried with
// exponential backoff; other failures are returned to the caller.
//
// # Usage
//
// Create an HTTP trace sender:
//
//	s := sender.NewTraceSender(sender.Config{
//	    CollectorURL: "https://collector.example.com",
//	    AuthKey:      "api-key",
//	}, httpClient, logger)
//
//	err := s.Send(ctx, sender.Payload{
//	    Body:        payload,
//	    ContentType: format.ContentType(),
//	    TraceCount:  n,
//	})
//
// # Custom Senders
//
// Implement the Sender interface to send to alternative destinations
// (e.g., Kafka, S3, local files).
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package sender
