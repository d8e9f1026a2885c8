package hash

import (
	"github.com/inconshreveable/log15"
)

var log log15.Logger = log15.New("module", "hash")

var (
	DefaultHashes *Hashes
)

func init() {
	DefaultHashes = NewHashes()
	_ = DefaultHashes.Register(NewDoubleSHA256Hash())
	_ = DefaultHashes.Register(NewArgon2Hash())
}

func Log() log15.Logger {
	return log
}
