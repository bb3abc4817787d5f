// Package cryptoalg defines the vocabulary of the cryptographic façade: the
// supported key and digest algorithms, the sentinel errors every backend
// operation reports, and the contracts of digests, keys, signatures and the
// key factory.
package cryptoalg
