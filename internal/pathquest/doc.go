// Package pathquest provides an HTTP client for the PathQuest peak API.
//
// # Overview
//
// This package defines the API client PathQuest uses to load peaks and to
// persist favorite state. It handles HTTP communication, JSON serialization,
// and validation of the peak records it receives.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the PathQuest API schema
//
// # Client Usage
//
//	client, err := pathquest.NewClient("https://api.pathquest.app", token, logger)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	peaks, err := client.SearchPeaks(ctx, pathquest.SearchQuery{Bounds: box})
//	if err != nil {
//		log.Printf("search failed: %v", err)
//	}
//
//	if err := client.ToggleFavorite(ctx, peaks[0].ID, true); err != nil {
//		log.Printf("favorite failed: %v", err)
//	}
//
// # API Endpoints
//
//   - GET /api/peaks/search: peaks by bounding box and/or free text
//   - GET /api/peaks/{id}: a single peak
//   - POST /api/peaks/{id}/favorite: set the favorite flag for the current user
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: pathquest/0.1
//   - Carry an X-Request-ID so server logs can be correlated
//   - Send Authorization: Bearer <token> when a token is configured
//   - Have a 5-second timeout
//
// # Error Handling
//
// Errors are wrapped with context using fmt.Errorf:
//
//   - "execute request: dial tcp: connection refused"
//   - "api /api/peaks/search returned status 500"
//   - "decode response: unexpected end of JSON input"
//
// A favorite toggle answered with success=false yields ErrToggleRejected.
// Callers deciding between success and rollback only need err != nil; the
// distinct messages exist for logs.
//
// Search results are validated record by record. A malformed record (empty
// id, out-of-range coordinate) is dropped and logged rather than failing the
// whole search.
//
// # Thread Safety
//
// The Client is safe for concurrent use.
//
// # Design Rationale
//
// The client does no caching and no retries. Retry policy for searches lives
// in the app loader; favorite toggles are never retried automatically.
package pathquest
