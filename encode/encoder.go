package encode

import (
	"sync"

	"github.com/inconshreveable/log15"

	"github.com/spikeekips/partivotes/common"
)

var log log15.Logger = log15.New("module", "encode")

func Log() log15.Logger {
	return log
}

// Encoder output is prefixed by its EncoderType, so Encoders can pick the
// decoder from the encoded bytes.
type Encoder interface {
	Type() EncoderType
	Encode(interface{}) ([]byte, error)
	Decode([]byte, interface{}) error
}

type Encoders struct {
	sync.RWMutex
	encoders    map[ /*EncoderType*/ uint]Encoder
	defaultType EncoderType
}

func NewEncoders() *Encoders {
	return &Encoders{
		encoders: map[uint]Encoder{},
	}
}

func (e *Encoders) Register(encoder Encoder) error {
	e.Lock()
	defer e.Unlock()

	if _, found := e.encoders[encoder.Type().ID()]; found {
		return EncoderAlreadyRegisteredError.Newf("type=%q", encoder.Type().String())
	}

	e.encoders[encoder.Type().ID()] = encoder

	if e.defaultType.Empty() {
		e.defaultType = encoder.Type()
	}

	return nil
}

func (e *Encoders) SetDefault(encoderType EncoderType) error {
	encoder, err := e.Encoder(encoderType)
	if err != nil {
		return err
	}

	e.Lock()
	defer e.Unlock()

	e.defaultType = encoder.Type()

	return nil
}

func (e *Encoders) Encoder(encoderType EncoderType) (Encoder, error) {
	e.RLock()
	defer e.RUnlock()

	encoder, found := e.encoders[encoderType.ID()]
	if !found {
		return nil, EncoderNotRegisteredError.Newf("type=%q", encoderType.String())
	}

	return encoder, nil
}

func (e *Encoders) Encode(i interface{}) ([]byte, error) {
	e.RLock()
	t := e.defaultType
	e.RUnlock()

	return e.EncodeByType(t, i)
}

func (e *Encoders) EncodeByType(encoderType EncoderType, i interface{}) ([]byte, error) {
	encoder, err := e.Encoder(encoderType)
	if err != nil {
		return nil, err
	}

	return encoder.Encode(i)
}

func (e *Encoders) Decode(b []byte, i interface{}) error {
	a, o := common.ExtractBinary(b)
	if o < 0 {
		return DecodeFailedError.Newf("not enough data; length=%d", len(b))
	}

	var t EncoderType
	if err := t.UnmarshalBinary(a); err != nil {
		return DecodeFailedError.New(err)
	}

	decoder, err := e.Encoder(t)
	if err != nil {
		return err
	}

	return decoder.Decode(b, i)
}

func encodeWithType(t EncoderType, encoded []byte) ([]byte, error) {
	tb, err := t.MarshalBinary()
	if err != nil {
		return nil, err
	}

	b := common.AppendBinary(tb)
	b = append(b, common.AppendBinary(encoded)...)

	return b, nil
}

func decodeWithType(t EncoderType, b []byte) ([]byte, error) {
	e, o := common.ExtractBinary(b)
	if o < 0 {
		return nil, DecodeFailedError.Newf("not enough data; length=%d", len(b))
	}

	var et EncoderType
	if err := et.UnmarshalBinary(e); err != nil {
		return nil, DecodeFailedError.New(err)
	} else if !et.Equal(t) {
		return nil, DecodeFailedError.Newf("not %s encoded; type=%q", t.String(), et.String())
	}

	body, n := common.ExtractBinary(b[o:])
	if n < 0 {
		return nil, DecodeFailedError.Newf("not enough data; length=%d", len(b))
	}

	return body, nil
}
