// Package testutil provides record generators for tests, benchmarks and the
// gen command.
//
// # Random Records
//
//	rng := testutil.NewRNG(seed)
//	recs := rng.Records(1000, record.TeraGen)     // printable random keys
//	dups := rng.DuplicateRecords(1000, 3, record.TeraGen)
//
// # Input Files
//
//	err := testutil.WriteFile(path, recs, record.TeraGen)
//	n, err := testutil.Generate(w, 1_000_000, record.TeraGen, seed)
package testutil
