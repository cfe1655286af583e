// Package archive moves a file cache directory aside under a timestamped
// name, keeping old translations around while the next run starts empty.
package archive
