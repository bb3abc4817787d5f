package cryptography

import (
	"crypto/dsa"
	encasn1 "encoding/asn1"
	"errors"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// crypto/x509 neither marshals DSA keys nor parses DSA PKCS#8, so those
// structures are assembled here.

var oidPublicKeyDSA = encasn1.ObjectIdentifier{1, 2, 840, 10040, 4, 1}

var errMalformedDSAKey = errors.New("malformed DSA key")

// addDSAAlgorithmIdentifier appends AlgorithmIdentifier { id-dsa, Dss-Parms }.
func addDSAAlgorithmIdentifier(b *cryptobyte.Builder, p dsa.Parameters) {
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(oidPublicKeyDSA)
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1BigInt(p.P)
			b.AddASN1BigInt(p.Q)
			b.AddASN1BigInt(p.G)
		})
	})
}

// marshalDSAPKCS8 encodes a DSA private key as an unencrypted PrivateKeyInfo.
func marshalDSAPKCS8(k *dsa.PrivateKey) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		addDSAAlgorithmIdentifier(b, k.Parameters)
		b.AddASN1(asn1.OCTET_STRING, func(b *cryptobyte.Builder) {
			b.AddASN1BigInt(k.X)
		})
	})
	return b.Bytes()
}

// marshalDSAPKIX encodes a DSA public key as SubjectPublicKeyInfo.
func marshalDSAPKIX(k *dsa.PublicKey) ([]byte, error) {
	var y cryptobyte.Builder
	y.AddASN1BigInt(k.Y)
	yDER, err := y.Bytes()
	if err != nil {
		return nil, err
	}

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addDSAAlgorithmIdentifier(b, k.Parameters)
		b.AddASN1BitString(yDER)
	})
	return b.Bytes()
}

func readDSAParameters(s *cryptobyte.String, p *dsa.Parameters) bool {
	var params cryptobyte.String
	p.P, p.Q, p.G = new(big.Int), new(big.Int), new(big.Int)
	return s.ReadASN1(&params, asn1.SEQUENCE) &&
		params.ReadASN1Integer(p.P) &&
		params.ReadASN1Integer(p.Q) &&
		params.ReadASN1Integer(p.G) &&
		params.Empty()
}

// pkcs8AlgorithmOID returns the key algorithm OID of a PrivateKeyInfo.
func pkcs8AlgorithmOID(der []byte) (encasn1.ObjectIdentifier, bool) {
	var seq, algID cryptobyte.String
	var version int
	var oid encasn1.ObjectIdentifier
	input := cryptobyte.String(der)
	if !input.ReadASN1(&seq, asn1.SEQUENCE) ||
		!seq.ReadASN1Integer(&version) ||
		!seq.ReadASN1(&algID, asn1.SEQUENCE) ||
		!algID.ReadASN1ObjectIdentifier(&oid) {
		return nil, false
	}
	return oid, true
}

// parseDSAPKCS8 decodes a DSA PrivateKeyInfo and recomputes the public value.
func parseDSAPKCS8(der []byte) (*dsa.PrivateKey, error) {
	var seq, algID, privKey cryptobyte.String
	var version int
	var oid encasn1.ObjectIdentifier
	k := &dsa.PrivateKey{X: new(big.Int)}

	input := cryptobyte.String(der)
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() ||
		!seq.ReadASN1Integer(&version) || version != 0 ||
		!seq.ReadASN1(&algID, asn1.SEQUENCE) ||
		!algID.ReadASN1ObjectIdentifier(&oid) || !oid.Equal(oidPublicKeyDSA) ||
		!readDSAParameters(&algID, &k.Parameters) ||
		!seq.ReadASN1(&privKey, asn1.OCTET_STRING) ||
		!privKey.ReadASN1Integer(k.X) || !privKey.Empty() {
		return nil, errMalformedDSAKey
	}

	if err := completeDSAPrivateKey(k); err != nil {
		return nil, err
	}
	return k, nil
}

// parseOpenSSLDSAPrivateKey decodes the legacy "DSA PRIVATE KEY" structure
// SEQUENCE { version, p, q, g, y, x }.
func parseOpenSSLDSAPrivateKey(der []byte) (*dsa.PrivateKey, error) {
	var seq cryptobyte.String
	var version int
	k := &dsa.PrivateKey{
		PublicKey: dsa.PublicKey{
			Parameters: dsa.Parameters{P: new(big.Int), Q: new(big.Int), G: new(big.Int)},
			Y:          new(big.Int),
		},
		X: new(big.Int),
	}

	input := cryptobyte.String(der)
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() ||
		!seq.ReadASN1Integer(&version) || version != 0 ||
		!seq.ReadASN1Integer(k.P) || !seq.ReadASN1Integer(k.Q) || !seq.ReadASN1Integer(k.G) ||
		!seq.ReadASN1Integer(k.Y) || !seq.ReadASN1Integer(k.X) || !seq.Empty() {
		return nil, errMalformedDSAKey
	}

	y := new(big.Int).Set(k.Y)
	if err := completeDSAPrivateKey(k); err != nil {
		return nil, err
	}
	if y.Cmp(k.Y) != 0 {
		zeroBigInt(k.X)
		return nil, errMalformedDSAKey
	}
	return k, nil
}

// completeDSAPrivateKey checks the domain parameters and sets Y = G^X mod P.
func completeDSAPrivateKey(k *dsa.PrivateKey) error {
	p, q, g, x := k.P, k.Q, k.G, k.X
	if p.Sign() <= 0 || q.Sign() <= 0 || g.Cmp(big.NewInt(1)) <= 0 || g.Cmp(p) >= 0 ||
		x.Sign() <= 0 || x.Cmp(q) >= 0 {
		zeroBigInt(x)
		return errMalformedDSAKey
	}
	k.Y = new(big.Int).Exp(g, x, p)
	return nil
}
