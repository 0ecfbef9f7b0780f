// Package hash provides the record checksums used for data integrity.
//
// Multiset sums xxh3 hashes of records. Because addition commutes, an input
// file and its sorted output produce the same checksum, which is how the
// validator proves the output is a permutation of the input:
//
//	var in, out hash.Multiset
//	for _, r := range input {
//		in.Add(r)
//	}
//	for _, r := range output {
//		out.Add(r)
//	}
//	in.Sum() == out.Sum()
package hash
