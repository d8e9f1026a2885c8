package ledger

import (
	"fmt"

	"github.com/spikeekips/partivotes/keypair"
	"github.com/spikeekips/partivotes/poll"
)

// SignatureVerifier checks the signature of the public vote before the vote
// reaches the state.
type SignatureVerifier interface {
	VerifyVote(Invocation, poll.VoteWithSignatureParams) error
}

// VoteMessage is the message the voter signs for the public vote.
func VoteMessage(pollID uint64, option uint32) []byte {
	return []byte(fmt.Sprintf("partivotes-vote:%d:%d", pollID, option))
}

// SignVote signs the VoteMessage.
func SignVote(pk keypair.PrivateKey, pollID uint64, option uint32) (keypair.Signature, error) {
	return pk.Sign(VoteMessage(pollID, option))
}

// StellarVerifier verifies the vote signature with the public key of the
// invocation.
type StellarVerifier struct{}

func (StellarVerifier) VerifyVote(iv Invocation, params poll.VoteWithSignatureParams) error {
	if len(params.Signature) < 1 {
		return keypair.InvalidSignatureError.Newf("empty vote signature; poll_id=%d", params.PollID)
	}

	if iv.PublicKey.IsEmpty() {
		return UnauthenticatedError.Newf("public key is missing for vote signature")
	}

	return iv.PublicKey.Verify(VoteMessage(params.PollID, params.Option), params.Signature)
}
