package cryptography

import "math/big"

func zeroBytes(b []byte) {
	clear(b)
}

// zeroBigInt overwrites the limbs backing n before resetting it.
func zeroBigInt(n *big.Int) {
	if n == nil {
		return
	}
	clear(n.Bits())
	n.SetInt64(0)
}
