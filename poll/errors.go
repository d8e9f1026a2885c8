package poll

import "github.com/spikeekips/partivotes/common"

const (
	_ common.ErrorCode = iota
	InsufficientPaymentErrorCode
	ValidationErrorCode
	NotFoundErrorCode
	UnauthorizedErrorCode
	AlreadyVotedErrorCode
	PollExpiredErrorCode
	PollInactiveErrorCode
	UnknownOperationErrorCode
)

var (
	InsufficientPaymentError = common.NewError("poll", InsufficientPaymentErrorCode, "insufficient payment")
	ValidationError          = common.NewError("poll", ValidationErrorCode, "validation failed")
	NotFoundError            = common.NewError("poll", NotFoundErrorCode, "poll not found")
	UnauthorizedError        = common.NewError("poll", UnauthorizedErrorCode, "unauthorized")
	AlreadyVotedError        = common.NewError("poll", AlreadyVotedErrorCode, "already voted in this poll")
	PollExpiredError         = common.NewError("poll", PollExpiredErrorCode, "poll has expired")
	UnknownOperationError    = common.NewError("poll", UnknownOperationErrorCode, "unknown operation")
)

// PollInactiveError is also a ValidationError.
var PollInactiveError = common.NewError("poll", PollInactiveErrorCode, "poll is not active").Under(ValidationError)
