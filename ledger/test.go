//go:build test
// +build test

package ledger

import "github.com/spikeekips/partivotes/common"

func init() {
	common.SetTestLogger(Log())
}
