// Package newsgrab extracts structured article data (title, keywords,
// description, summary, body) from news pages and stores it idempotently,
// skipping items that have already been processed.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, goquery/).
package newsgrab
