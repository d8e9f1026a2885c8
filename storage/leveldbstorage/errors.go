package leveldbstorage

import "github.com/spikeekips/partivotes/common"

const (
	_ common.ErrorCode = iota
	LevelDBErrorCode
	DBNotClosedErrorCode
	DBClosedErrorCode
	WrongBatchErrorCode
)

var (
	LevelDBError     = common.NewError("leveldb", LevelDBErrorCode, "leveldb error")
	DBNotClosedError = common.NewError("leveldb", DBNotClosedErrorCode, "db not closed")
	DBClosedError    = common.NewError("leveldb", DBClosedErrorCode, "db closed")
	WrongBatchError  = common.NewError("leveldb", WrongBatchErrorCode, "wrong batch")
)
