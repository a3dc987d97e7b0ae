// Package catalog implements the HTTP adapter for the external catalog search
// provider and the cart service.
//
// The adapter exposes one "next page" operation with a continuation token and
// an end-of-stream flag. It performs no retries: a failed fetch is surfaced
// verbatim and the feed queue decides when to try again.
package catalog
