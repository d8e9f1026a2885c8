package main

import (
	"github.com/inconshreveable/log15"

	"github.com/spikeekips/partivotes/common"
)

var log log15.Logger = log15.New("module", "main")

func init() {
	handler, _ := common.LogHandler(common.LogFormatter("terminal"), "")
	log.SetHandler(log15.LvlFilterHandler(log15.LvlCrit, handler))
}
