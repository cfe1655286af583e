// Package server exposes the translation pipeline over HTTP. Responses
// use the JSend envelope; request bodies are checked against an embedded
// JSON schema before they reach the pipeline.
package server
