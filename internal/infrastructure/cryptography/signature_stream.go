package cryptography

import (
	"io"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
)

// SignatureReader feeds every byte read from the underlying reader into a signature.
type SignatureReader struct {
	sig cryptoalg.Signature
	r   io.Reader
}

// NewSignatureReader wraps r so that reads also update sig.
func NewSignatureReader(sig cryptoalg.Signature, r io.Reader) *SignatureReader {
	return &SignatureReader{sig: sig, r: r}
}

func (s *SignatureReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if n > 0 {
		if uerr := s.sig.Update(p[:n]); uerr != nil {
			return n, uerr
		}
	}
	return n, err
}

// Signature returns the wrapped signature.
func (s *SignatureReader) Signature() cryptoalg.Signature {
	return s.sig
}

// SignatureWriter feeds every byte written through it into a signature.
// A nil underlying writer makes it a pure signature sink.
type SignatureWriter struct {
	sig cryptoalg.Signature
	w   io.Writer
}

// NewSignatureWriter wraps w so that writes also update sig.
func NewSignatureWriter(sig cryptoalg.Signature, w io.Writer) *SignatureWriter {
	return &SignatureWriter{sig: sig, w: w}
}

func (s *SignatureWriter) Write(p []byte) (int, error) {
	n := len(p)
	var err error
	if s.w != nil {
		n, err = s.w.Write(p)
	}
	if n > 0 {
		if uerr := s.sig.Update(p[:n]); uerr != nil {
			return n, uerr
		}
	}
	return n, err
}

// Signature returns the wrapped signature.
func (s *SignatureWriter) Signature() cryptoalg.Signature {
	return s.sig
}
