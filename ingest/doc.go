// Package ingest turns LAQ documents into embedded, searchable records.
//
// The pipeline runs one document at a time: convert the file to plain text,
// extract a structured record with the language model, embed every Q&A pair
// as a batch, and persist the pairs that embedded successfully. Conversion
// and extraction failures abort the document; a failed embedding skips only
// its own pair.
package ingest
