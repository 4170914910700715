package satisfactory

import (
	"github.com/sirupsen/logrus"

	"satisfactory-save/config"
)

var log = logrus.New()

func init() {
	if config.DEBUG {
		log.SetLevel(logrus.DebugLevel)
	}
	if config.DEBUG_TRACE_BYTES {
		log.SetLevel(logrus.TraceLevel)
	}
}
