// Package translation provides the translation providers used by the
// pipeline: a local Ollama model, the OpenAI chat API, Google Gemini and a
// deterministic stub. Network providers are wrapped in Resilient, which adds
// retries, an optional circuit breaker and client-side pacing. Every provider
// reports an identity string that becomes part of the cache key.
package translation
