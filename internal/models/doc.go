// Package models lists the models a translation provider offers, so users
// can pick a value for --model. OpenAI and Gemini are queried through
// their SDKs, Ollama through its /api/tags endpoint.
package models
