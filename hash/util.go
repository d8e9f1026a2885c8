package hash

import (
	"encoding"

	"github.com/ethereum/go-ethereum/rlp"
)

type Hashable interface {
	Hash() (Hash, error)
}

// MakeInstanceHash hashes i with the default algorithm of hashes. i is
// serialized by its MarshalBinary, or by rlp.
func MakeInstanceHash(hashes *Hashes, hint string, i interface{}) (Hash, error) {
	if hashable, ok := i.(Hashable); ok {
		return hashable.Hash()
	}

	var err error
	var b []byte
	if bm, ok := i.(encoding.BinaryMarshaler); ok {
		b, err = bm.MarshalBinary()
	} else {
		b, err = rlp.EncodeToBytes(i)
	}

	if err != nil {
		return Hash{}, HashFailedError.New(err)
	}

	return hashes.NewHash(hint, b)
}
