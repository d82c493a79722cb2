// Package storage keeps the results of the most recent search on disk.
//
// A search overwrites last_results.json in the data directory (~/.wevity-contests by default).
// The list, export and send commands read it back so a user can pick records by their
// 1-based position, e.g. "1,3,5-7". No history is kept across searches.
package storage
