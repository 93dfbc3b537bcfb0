// Package provider – error taxonomy
//
// This file defines the typed errors the gateway reports. Callers branch on
// the concrete type (errors.As) to pick the right compensating action:
//
//   - *TransportError:         network failure, timeout, or 5xx after all
//     retry attempts were spent. The order may or may not exist upstream.
//   - *ProtocolError:          the panel answered, but the body did not match
//     any known response shape. Never retried.
//   - *RejectionError:         a well-formed response in which the panel
//     itself declined the request. Never retried.
//   - *AmbiguousResponseError: the panel accepted the HTTP exchange and the
//     body parsed as an object, but no order id could be extracted. Distinct
//     from rejection so the orchestrator can refund and flag the order for
//     reconciliation.
package provider

import "fmt"

// maxRawSnippet bounds how much of a raw provider body is carried inside an
// error for diagnostics.
const maxRawSnippet = 512

// truncateRaw clips a raw response body to maxRawSnippet bytes.
func truncateRaw(b []byte) string {
	if len(b) > maxRawSnippet {
		return string(b[:maxRawSnippet])
	}
	return string(b)
}

// TransportError wraps a network-level failure that survived the retry
// budget. Err holds the last underlying error.
type TransportError struct {
	Action string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("provider %s: transport failure: %v", e.Action, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a response whose shape the gateway does not
// recognize. Raw holds the offending body, truncated to maxRawSnippet.
type ProtocolError struct {
	Action string
	Raw    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("provider %s: unrecognized response shape: %q", e.Action, e.Raw)
}

// RejectionError reports that the panel explicitly declined the request.
// Message is the panel's own wording when one was present.
type RejectionError struct {
	Action  string
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider %s: rejected by panel", e.Action)
	}
	return fmt.Sprintf("provider %s: rejected by panel: %s", e.Action, e.Message)
}

// AmbiguousResponseError reports an order submission the panel neither
// clearly accepted nor clearly rejected: the exchange succeeded and the body
// parsed, but no order id was found under any known key.
type AmbiguousResponseError struct {
	Action string
	Raw    string
}

func (e *AmbiguousResponseError) Error() string {
	return fmt.Sprintf("provider %s: accepted by transport but no order id in response: %q", e.Action, e.Raw)
}
