// Package hanzi holds the data model shared by the resolution pipeline:
// character queries, resolved character information, mnemonic requests
// and results, radical entries and provider status records.
package hanzi
