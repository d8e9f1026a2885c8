package poll

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operation is the action of the state machine, identified by the shortname.
type Operation uint8

const (
	OperationInitialize        Operation = 0x00
	OperationCreatePoll        Operation = 0x01
	OperationVoteWithSignature Operation = 0x02
	OperationVoteWithMPC       Operation = 0x03
	OperationEndPoll           Operation = 0x04
	OperationGetPolls          Operation = 0x05
	OperationGetPoll           Operation = 0x06
	OperationGetPollResults    Operation = 0x07
	OperationHasVoted          Operation = 0x08
)

var operationNames = map[Operation]string{
	OperationInitialize:        "initialize",
	OperationCreatePoll:        "create_poll",
	OperationVoteWithSignature: "vote_with_signature",
	OperationVoteWithMPC:       "vote_with_mpc",
	OperationEndPoll:           "end_poll",
	OperationGetPolls:          "get_polls",
	OperationGetPoll:           "get_poll",
	OperationGetPollResults:    "get_poll_results",
	OperationHasVoted:          "has_voted",
}

func ParseOperation(s string) (Operation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for o, n := range operationNames {
		if n == s || fmt.Sprintf("0x%02x", uint8(o)) == s {
			return o, nil
		}
	}

	return 0, UnknownOperationError.Newf("%q", s)
}

func (o Operation) IsValid() error {
	if _, found := operationNames[o]; !found {
		return UnknownOperationError.Newf("0x%02x", uint8(o))
	}

	return nil
}

// IsQuery is true for the read only operations.
func (o Operation) IsQuery() bool {
	switch o {
	case OperationGetPolls, OperationGetPoll, OperationGetPollResults, OperationHasVoted:
		return true
	default:
		return false
	}
}

func (o Operation) String() string {
	if n, found := operationNames[o]; found {
		return n
	}

	return fmt.Sprintf("unknown(0x%02x)", uint8(o))
}

func (o Operation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Operation) UnmarshalText(b []byte) error {
	n, err := ParseOperation(string(b))
	if err != nil {
		return err
	}

	*o = n

	return nil
}

// NewParams returns the empty parameter of the operation.
func (o Operation) NewParams() (interface{}, error) {
	switch o {
	case OperationCreatePoll:
		return &CreatePollParams{}, nil
	case OperationVoteWithSignature:
		return &VoteWithSignatureParams{}, nil
	case OperationVoteWithMPC:
		return &VoteWithMPCParams{}, nil
	case OperationEndPoll, OperationGetPoll, OperationGetPollResults, OperationHasVoted:
		return &PollIDParams{}, nil
	case OperationGetPolls:
		return &GetPollsParams{}, nil
	default:
		return nil, UnknownOperationError.Newf("operation %q has no parameter", o)
	}
}

// DecodeParams decodes the json parameter of the operation.
func (o Operation) DecodeParams(b []byte) (interface{}, error) {
	params, err := o.NewParams()
	if err != nil {
		return nil, err
	}

	if len(b) > 0 && string(b) != "null" {
		if err := json.Unmarshal(b, params); err != nil {
			return nil, ValidationError.New(err)
		}
	}

	switch p := params.(type) {
	case *CreatePollParams:
		return *p, nil
	case *VoteWithSignatureParams:
		return *p, nil
	case *VoteWithMPCParams:
		return *p, nil
	case *PollIDParams:
		return *p, nil
	case *GetPollsParams:
		return *p, nil
	default:
		return params, nil
	}
}
