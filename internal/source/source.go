// Package source contains the adapters for the two external listing
// datasets. Each adapter owns one dataset, interprets its own filter
// vocabulary, and returns a fully materialized record slice so callers
// can count and bulk-insert the result.
package source

import "errors"

// ErrSourceUnavailable is returned when an adapter's underlying dataset
// cannot be read or parsed. An adapter never returns partial results
// alongside this error.
var ErrSourceUnavailable = errors.New("source dataset unavailable")
