//go:build test
// +build test

package common

import (
	"github.com/inconshreveable/log15"
)

func SetTestLogger(logger log15.Logger) {
	handler, _ := LogHandler(LogFormatter("terminal"), "")
	logger.SetHandler(log15.LvlFilterHandler(log15.LvlDebug, handler))
}

func init() {
	InTest = true
}
