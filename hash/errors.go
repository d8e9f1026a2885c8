package hash

import "github.com/spikeekips/partivotes/common"

const (
	_ common.ErrorCode = iota
	HashFailedErrorCode
	EmptyHashErrorCode
	InvalidHashInputErrorCode
	HashAlgorithmAlreadyRegisteredErrorCode
	HashAlgorithmNotRegisteredErrorCode
)

var (
	HashFailedError                     = common.NewError("hash", HashFailedErrorCode, "failed to make hash")
	EmptyHashError                      = common.NewError("hash", EmptyHashErrorCode, "hash is empty")
	InvalidHashInputError               = common.NewError("hash", InvalidHashInputErrorCode, "invalid hash input value")
	HashAlgorithmAlreadyRegisteredError = common.NewError(
		"hash",
		HashAlgorithmAlreadyRegisteredErrorCode,
		"hash algorithm is already registered",
	)
	HashAlgorithmNotRegisteredError = common.NewError(
		"hash",
		HashAlgorithmNotRegisteredErrorCode,
		"hash algorithm is not registered",
	)
)
