package keypair

import "github.com/spikeekips/partivotes/common"

const (
	_ common.ErrorCode = iota
	FailedToUnmarshalKeypairErrorCode
	SignatureVerificationFailedErrorCode
	InvalidSignatureErrorCode
)

var (
	FailedToUnmarshalKeypairError = common.NewError(
		"keypair",
		FailedToUnmarshalKeypairErrorCode,
		"failed to unmarshal keypair",
	)
	SignatureVerificationFailedError = common.NewError(
		"keypair",
		SignatureVerificationFailedErrorCode,
		"signature verification failed",
	)
	InvalidSignatureError = common.NewError(
		"keypair",
		InvalidSignatureErrorCode,
		"invalid signature",
	)
)
