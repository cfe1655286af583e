// Package processor contains the translation pipeline. It splits a
// document into units, answers what it can from the cache, sends the rest to
// the provider with a bounded number of requests in flight, and reassembles
// the results in document order. A failed provider call keeps the original
// text for that unit only; the rest of the document is still translated.
package processor
