//go:build test
// +build test

package api

import "github.com/spikeekips/partivotes/common"

func init() {
	common.SetTestLogger(Log())
}
