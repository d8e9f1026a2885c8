package encode

import (
	"encoding/binary"
	"encoding/json"
)

type EncoderType struct {
	id   uint
	name string
}

func NewEncoderType(id uint, name string) EncoderType {
	return EncoderType{id: id, name: name}
}

func (e EncoderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e EncoderType) ID() uint {
	return e.id
}

func (e EncoderType) Equal(b EncoderType) bool {
	return e.id == b.id
}

func (e EncoderType) MarshalBinary() ([]byte, error) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(e.id))

	return b, nil
}

func (e *EncoderType) UnmarshalBinary(b []byte) error {
	if len(b) != 4 {
		return DecodeFailedError.Newf("encoder type should be 4 bytes; length=%d", len(b))
	}

	e.id = uint(binary.LittleEndian.Uint32(b))

	return nil
}

func (e EncoderType) Empty() bool {
	return e.id < 1
}

func (e EncoderType) String() string {
	return e.name
}
