package encode

import "github.com/spikeekips/partivotes/common"

const (
	_ common.ErrorCode = iota
	EncoderAlreadyRegisteredErrorCode
	EncoderNotRegisteredErrorCode
	DecodeFailedErrorCode
)

var (
	EncoderAlreadyRegisteredError = common.NewError(
		"encode",
		EncoderAlreadyRegisteredErrorCode,
		"Encoder is already registered in Encoders",
	)
	EncoderNotRegisteredError = common.NewError(
		"encode",
		EncoderNotRegisteredErrorCode,
		"Encoder is not registered in Encoders",
	)
	DecodeFailedError = common.NewError("encode", DecodeFailedErrorCode, "failed to decode")
)
