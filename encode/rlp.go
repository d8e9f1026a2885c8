package encode

import (
	"github.com/ethereum/go-ethereum/rlp"
)

var (
	RLPEncoderType EncoderType = NewEncoderType(1, "rlp")
)

type RLP struct {
}

func (r RLP) Type() EncoderType {
	return RLPEncoderType
}

func (r RLP) Encode(i interface{}) ([]byte, error) {
	encoded, err := rlp.EncodeToBytes(i)
	if err != nil {
		return nil, err
	}

	return encodeWithType(RLPEncoderType, encoded)
}

func (r RLP) Decode(b []byte, i interface{}) error {
	body, err := decodeWithType(RLPEncoderType, b)
	if err != nil {
		return err
	}

	if err := rlp.DecodeBytes(body, i); err != nil {
		return DecodeFailedError.New(err)
	}

	return nil
}
