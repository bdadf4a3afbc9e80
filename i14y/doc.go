// Package i14y talks to the Swiss interoperability platform's public
// catalog APIs: concept and dataset search, concept details and
// codelist exports. Lookups are rate limited and retried; search
// failures degrade to empty results so the editor keeps working when
// the catalog is unreachable.
package i14y
