package cryptography

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des" //nolint:gosec // des-ede3-cbc is decrypt-only
	"crypto/sha1" //nolint:gosec // hmacWithSHA1 is the PBKDF2 default PRF of older encoders
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	encasn1 "encoding/asn1"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/pkg/config"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
	"golang.org/x/crypto/pbkdf2"
)

// PKCS#5 v2.1 (RFC 8018) identifiers.
var (
	oidPBES2          = encasn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 13}
	oidPBKDF2         = encasn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 12}
	oidHMACWithSHA1   = encasn1.ObjectIdentifier{1, 2, 840, 113549, 2, 7}
	oidHMACWithSHA256 = encasn1.ObjectIdentifier{1, 2, 840, 113549, 2, 9}
	oidHMACWithSHA512 = encasn1.ObjectIdentifier{1, 2, 840, 113549, 2, 11}
	oidAES128CBC      = encasn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 2}
	oidAES192CBC      = encasn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 22}
	oidAES256CBC      = encasn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 42}
	oidDESEDE3CBC     = encasn1.ObjectIdentifier{1, 2, 840, 113549, 3, 7}
)

// maxPBKDF2Iterations bounds the work an imported blob can demand.
const maxPBKDF2Iterations = 10_000_000

var errPBES2 = errors.New("pbes2: cannot decrypt")

type pbes2Cipher struct {
	oid       encasn1.ObjectIdentifier
	keySize   int
	blockSize int
	newBlock  func(key []byte) (cipher.Block, error)
}

// pbes2Ciphers are the schemes offered for export.
var pbes2Ciphers = map[string]pbes2Cipher{
	config.PEMCipherAES128CBC: {oidAES128CBC, 16, aes.BlockSize, aes.NewCipher},
	config.PEMCipherAES192CBC: {oidAES192CBC, 24, aes.BlockSize, aes.NewCipher},
	config.PEMCipherAES256CBC: {oidAES256CBC, 32, aes.BlockSize, aes.NewCipher},
}

// importOnlyCiphers are accepted when decrypting but never written.
var importOnlyCiphers = []pbes2Cipher{
	{oidDESEDE3CBC, 24, des.BlockSize, des.NewTripleDESCipher},
}

func pbes2CipherByOID(oid encasn1.ObjectIdentifier) (pbes2Cipher, bool) {
	for _, c := range pbes2Ciphers {
		if c.oid.Equal(oid) {
			return c, true
		}
	}
	for _, c := range importOnlyCiphers {
		if c.oid.Equal(oid) {
			return c, true
		}
	}
	return pbes2Cipher{}, false
}

func prfByOID(oid encasn1.ObjectIdentifier) (func() hash.Hash, bool) {
	switch {
	case oid.Equal(oidHMACWithSHA1):
		return sha1.New, true
	case oid.Equal(oidHMACWithSHA256):
		return sha256.New, true
	case oid.Equal(oidHMACWithSHA512):
		return sha512.New, true
	default:
		return nil, false
	}
}

// encryptPKCS8 wraps a PrivateKeyInfo into an EncryptedPrivateKeyInfo using
// PBES2 with PBKDF2-HMAC-SHA256 and the configured AES-CBC scheme.
func encryptPKCS8(plain, password []byte, s config.BackendSettings, random io.Reader) ([]byte, error) {
	c, ok := pbes2Ciphers[s.PEMCipher]
	if !ok {
		return nil, fmt.Errorf("pem cipher %q: %w", s.PEMCipher, cryptoalg.ErrUnsupportedAlgorithm)
	}

	salt := make([]byte, s.PBKDF2SaltSize)
	if _, err := io.ReadFull(random, salt); err != nil {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}
	iv := make([]byte, c.blockSize)
	if _, err := io.ReadFull(random, iv); err != nil {
		return nil, fmt.Errorf("failed to read iv: %w", err)
	}

	key := pbkdf2.Key(password, salt, s.PBKDF2Iterations, c.keySize, sha256.New)
	defer zeroBytes(key)

	block, err := c.newBlock(key)
	if err != nil {
		return nil, err
	}
	padded := pkcs7Pad(plain, c.blockSize)
	defer zeroBytes(padded)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidPBES2)
			b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1ObjectIdentifier(oidPBKDF2)
					b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
						b.AddASN1OctetString(salt)
						b.AddASN1Int64(int64(s.PBKDF2Iterations))
						b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
							b.AddASN1ObjectIdentifier(oidHMACWithSHA256)
							b.AddASN1NULL()
						})
					})
				})
				b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1ObjectIdentifier(c.oid)
					b.AddASN1OctetString(iv)
				})
			})
		})
		b.AddASN1OctetString(ciphertext)
	})
	return b.Bytes()
}

type pbes2Params struct {
	salt       []byte
	iterations int
	keyLength  int
	prf        func() hash.Hash
	cipher     pbes2Cipher
	iv         []byte
	ciphertext []byte
}

func parseEncryptedPrivateKeyInfo(der []byte) (*pbes2Params, bool) {
	var outer, encAlg, params, kdf, kdfParams, scheme cryptobyte.String
	var oid, kdfOID, schemeOID encasn1.ObjectIdentifier
	p := &pbes2Params{prf: sha1.New}

	input := cryptobyte.String(der)
	if !input.ReadASN1(&outer, asn1.SEQUENCE) || !input.Empty() ||
		!outer.ReadASN1(&encAlg, asn1.SEQUENCE) ||
		!encAlg.ReadASN1ObjectIdentifier(&oid) || !oid.Equal(oidPBES2) ||
		!encAlg.ReadASN1(&params, asn1.SEQUENCE) ||
		!params.ReadASN1(&kdf, asn1.SEQUENCE) ||
		!kdf.ReadASN1ObjectIdentifier(&kdfOID) || !kdfOID.Equal(oidPBKDF2) ||
		!kdf.ReadASN1(&kdfParams, asn1.SEQUENCE) ||
		!kdfParams.ReadASN1Bytes(&p.salt, asn1.OCTET_STRING) ||
		!kdfParams.ReadASN1Integer(&p.iterations) {
		return nil, false
	}

	if kdfParams.PeekASN1Tag(asn1.INTEGER) && !kdfParams.ReadASN1Integer(&p.keyLength) {
		return nil, false
	}
	if kdfParams.PeekASN1Tag(asn1.SEQUENCE) {
		var prf cryptobyte.String
		var prfOID encasn1.ObjectIdentifier
		if !kdfParams.ReadASN1(&prf, asn1.SEQUENCE) ||
			!prf.ReadASN1ObjectIdentifier(&prfOID) ||
			!prf.SkipOptionalASN1(asn1.NULL) {
			return nil, false
		}
		h, ok := prfByOID(prfOID)
		if !ok {
			return nil, false
		}
		p.prf = h
	}

	var ok bool
	if !params.ReadASN1(&scheme, asn1.SEQUENCE) ||
		!scheme.ReadASN1ObjectIdentifier(&schemeOID) ||
		!scheme.ReadASN1Bytes(&p.iv, asn1.OCTET_STRING) ||
		!outer.ReadASN1Bytes(&p.ciphertext, asn1.OCTET_STRING) {
		return nil, false
	}
	if p.cipher, ok = pbes2CipherByOID(schemeOID); !ok {
		return nil, false
	}
	return p, true
}

// decryptPKCS8 unwraps an EncryptedPrivateKeyInfo. Every failure, including
// a wrong password, yields errPBES2.
func decryptPKCS8(der, password []byte) ([]byte, error) {
	p, ok := parseEncryptedPrivateKeyInfo(der)
	if !ok {
		return nil, errPBES2
	}
	if p.iterations < 1 || p.iterations > maxPBKDF2Iterations ||
		(p.keyLength != 0 && p.keyLength != p.cipher.keySize) ||
		len(p.iv) != p.cipher.blockSize ||
		len(p.ciphertext) == 0 || len(p.ciphertext)%p.cipher.blockSize != 0 {
		return nil, errPBES2
	}

	key := pbkdf2.Key(password, p.salt, p.iterations, p.cipher.keySize, p.prf)
	defer zeroBytes(key)

	block, err := p.cipher.newBlock(key)
	if err != nil {
		return nil, errPBES2
	}
	plain := make([]byte, len(p.ciphertext))
	cipher.NewCBCDecrypter(block, p.iv).CryptBlocks(plain, p.ciphertext)

	unpadded, ok := pkcs7Unpad(plain, p.cipher.blockSize)
	if !ok {
		zeroBytes(plain)
		return nil, errPBES2
	}
	return unpadded, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// pkcs7Unpad checks every padding byte without branching on their values.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}
	good := 1
	for i := len(data) - blockSize; i < len(data); i++ {
		inPad := subtle.ConstantTimeLessOrEq(len(data)-n, i)
		match := subtle.ConstantTimeByteEq(data[i], byte(n))
		good &= subtle.ConstantTimeSelect(inPad, match, 1)
	}
	if good != 1 {
		return nil, false
	}
	return data[:len(data)-n], true
}
