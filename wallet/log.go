package wallet

import "github.com/btcsuite/btclog"

// log is the package wide logger, silenced by default.
var log = btclog.Disabled

// UseLogger installs a logger for the package. Callers
// embedding the wallet can route its output through their
// own backend.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog silences the package logger again.
func DisableLog() {
	log = btclog.Disabled
}
