package keypair

import (
	"encoding"

	"github.com/inconshreveable/log15"
)

var log log15.Logger = log15.New("module", "keypair")

func Log() log15.Logger {
	return log
}

type PublicKey interface {
	encoding.TextMarshaler
	Equal(PublicKey) bool
	Verify([]byte, Signature) error
	String() string
}

type PrivateKey interface {
	encoding.TextMarshaler
	Equal(PrivateKey) bool
	Sign([]byte) (Signature, error)
	PublicKey() PublicKey
	String() string
}
