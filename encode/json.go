package encode

import (
	"encoding/json"
)

var (
	JSONEncoderType EncoderType = NewEncoderType(2, "json")
)

type JSON struct {
}

func (j JSON) Type() EncoderType {
	return JSONEncoderType
}

func (j JSON) Encode(i interface{}) ([]byte, error) {
	encoded, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}

	return encodeWithType(JSONEncoderType, encoded)
}

func (j JSON) Decode(b []byte, i interface{}) error {
	body, err := decodeWithType(JSONEncoderType, b)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, i); err != nil {
		return DecodeFailedError.New(err)
	}

	return nil
}
