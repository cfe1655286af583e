// Package watch translates Markdown files in a directory as they are
// created or modified. Bursts of events for the same file are collapsed
// into one translation.
package watch
