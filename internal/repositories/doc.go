// Package repositories implements SQLite persistence for cached catalog data.
//
// Nothing stored here is authoritative: every row carries an expiry and may be
// dropped at any time without changing observable results.
//
// Key Implementations:
//   - [ResponseCache] : persistent tier of the catalog response cache, keyed by operation + arguments
//   - [AudioURLRepository] : resolved audio URLs keyed by video id
package repositories
