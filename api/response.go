package api

import (
	"encoding/json"
	"net/http"

	"golang.org/x/xerrors"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/keypair"
	"github.com/spikeekips/partivotes/ledger"
	"github.com/spikeekips/partivotes/poll"
	"github.com/spikeekips/partivotes/storage"
)

// statusByError is checked in order; sub kinds come before their parents.
var statusByError = []struct {
	err    common.Error
	status int
}{
	{err: poll.PollInactiveError, status: http.StatusConflict},
	{err: poll.AlreadyVotedError, status: http.StatusConflict},
	{err: poll.InsufficientPaymentError, status: http.StatusPaymentRequired},
	{err: poll.UnauthorizedError, status: http.StatusForbidden},
	{err: poll.NotFoundError, status: http.StatusNotFound},
	{err: poll.PollExpiredError, status: http.StatusGone},
	{err: poll.ValidationError, status: http.StatusBadRequest},
	{err: poll.UnknownOperationError, status: http.StatusBadRequest},
	{err: account.InvalidAddressError, status: http.StatusBadRequest},
	{err: ledger.InvalidInvocationError, status: http.StatusBadRequest},
	{err: ledger.UnauthenticatedError, status: http.StatusUnauthorized},
	{err: keypair.SignatureVerificationFailedError, status: http.StatusUnauthorized},
	{err: keypair.InvalidSignatureError, status: http.StatusUnauthorized},
	{err: ledger.NotInitializedError, status: http.StatusServiceUnavailable},
	{err: storage.RecordNotFoundError, status: http.StatusNotFound},
}

func statusCode(err error) int {
	for _, s := range statusByError {
		if xerrors.Is(err, s.err) {
			return s.status
		}
	}

	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to marshal response", "error", err)
		status = http.StatusInternalServerError
		b = []byte(`{"error":{"message":"failed to encode response"}}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, err error) {
	var body interface{} = map[string]interface{}{"message": err.Error()}

	var e common.Error
	if xerrors.As(err, &e) {
		body = e
	}

	writeJSON(w, statusCode(err), map[string]interface{}{"error": body})
}
