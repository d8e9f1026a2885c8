package storage

import "github.com/spikeekips/partivotes/common"

const (
	_ common.ErrorCode = iota
	RecordNotFoundErrorCode
	RecordAlreadyExistsErrorCode
)

var (
	RecordNotFoundError      = common.NewError("storage", RecordNotFoundErrorCode, "record not found")
	RecordAlreadyExistsError = common.NewError("storage", RecordAlreadyExistsErrorCode, "record already exists")
)
