package ledger

import "github.com/spikeekips/partivotes/common"

const (
	_ common.ErrorCode = iota
	InvalidInvocationErrorCode
	UnauthenticatedErrorCode
	NotInitializedErrorCode
	AlreadyInitializedErrorCode
	JournalErrorCode
	RootMismatchErrorCode
	SubmitterClosedErrorCode
)

var (
	InvalidInvocationError  = common.NewError("ledger", InvalidInvocationErrorCode, "invalid invocation")
	UnauthenticatedError    = common.NewError("ledger", UnauthenticatedErrorCode, "unauthenticated invocation")
	NotInitializedError     = common.NewError("ledger", NotInitializedErrorCode, "ledger not initialized")
	AlreadyInitializedError = common.NewError("ledger", AlreadyInitializedErrorCode, "ledger already initialized")
	JournalError            = common.NewError("ledger", JournalErrorCode, "journal error")
	RootMismatchError       = common.NewError("ledger", RootMismatchErrorCode, "state root mismatch")
	SubmitterClosedError    = common.NewError("ledger", SubmitterClosedErrorCode, "submitter closed")
)
