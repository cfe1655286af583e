// Package batch reads batch files listing the documents to translate.
package batch
