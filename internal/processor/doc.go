// Package processor contains the card-building logic for Chinese
// characters. It drives the resolver for lookups and mnemonics, prints
// progress for the CLI and hands finished cards to the Anki exporters.
package processor
