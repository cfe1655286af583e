// Package app wires configuration, cache, provider and pipeline together
// and implements the mdtranslate subcommands.
package app
