package txscript

import "github.com/kaspanet/kaspa-tx-sdk/logger"

var log = logger.SCRP
