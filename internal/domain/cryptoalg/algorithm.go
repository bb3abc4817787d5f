package cryptoalg

import "fmt"

// KeyAlgorithm names an asymmetric key family.
type KeyAlgorithm string

// Supported key algorithms. Names are case-sensitive.
const (
	KeyAlgorithmDSA     KeyAlgorithm = "DSA"
	KeyAlgorithmRSA     KeyAlgorithm = "RSA"
	KeyAlgorithmECDSA   KeyAlgorithm = "ECDSA"
	KeyAlgorithmEd25519 KeyAlgorithm = "Ed25519"
)

// KeyAlgorithms lists every supported key algorithm in a stable order.
var KeyAlgorithms = []KeyAlgorithm{
	KeyAlgorithmDSA,
	KeyAlgorithmRSA,
	KeyAlgorithmECDSA,
	KeyAlgorithmEd25519,
}

// ParseKeyAlgorithm maps a name to a KeyAlgorithm.
func ParseKeyAlgorithm(name string) (KeyAlgorithm, error) {
	for _, a := range KeyAlgorithms {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("key algorithm %q: %w", name, ErrUnsupportedAlgorithm)
}

func (a KeyAlgorithm) String() string {
	return string(a)
}

// DigestAlgorithm names a message digest function.
type DigestAlgorithm string

// Supported digest algorithms. Names are case-sensitive.
const (
	DigestMD5        DigestAlgorithm = "MD5"
	DigestSHA1       DigestAlgorithm = "SHA1"
	DigestSHA224     DigestAlgorithm = "SHA224"
	DigestSHA256     DigestAlgorithm = "SHA256"
	DigestSHA384     DigestAlgorithm = "SHA384"
	DigestSHA512     DigestAlgorithm = "SHA512"
	DigestSHA3_256   DigestAlgorithm = "SHA3-256"
	DigestSHA3_512   DigestAlgorithm = "SHA3-512"
	DigestBLAKE2b256 DigestAlgorithm = "BLAKE2b-256"
	DigestBLAKE2b512 DigestAlgorithm = "BLAKE2b-512"
)

var digestSizes = map[DigestAlgorithm]int{
	DigestMD5:        16,
	DigestSHA1:       20,
	DigestSHA224:     28,
	DigestSHA256:     32,
	DigestSHA384:     48,
	DigestSHA512:     64,
	DigestSHA3_256:   32,
	DigestSHA3_512:   64,
	DigestBLAKE2b256: 32,
	DigestBLAKE2b512: 64,
}

// DigestAlgorithms lists every supported digest algorithm in a stable order.
var DigestAlgorithms = []DigestAlgorithm{
	DigestMD5,
	DigestSHA1,
	DigestSHA224,
	DigestSHA256,
	DigestSHA384,
	DigestSHA512,
	DigestSHA3_256,
	DigestSHA3_512,
	DigestBLAKE2b256,
	DigestBLAKE2b512,
}

// ParseDigestAlgorithm maps a name to a DigestAlgorithm.
func ParseDigestAlgorithm(name string) (DigestAlgorithm, error) {
	a := DigestAlgorithm(name)
	if _, ok := digestSizes[a]; !ok {
		return "", fmt.Errorf("digest algorithm %q: %w", name, ErrUnsupportedAlgorithm)
	}
	return a, nil
}

// Size returns the native output length in bytes, or 0 for unknown names.
func (a DigestAlgorithm) Size() int {
	return digestSizes[a]
}

func (a DigestAlgorithm) String() string {
	return string(a)
}
