package cccolutils

import (
	"io"

	"github.com/sirupsen/logrus"
)

// log receives debug records for every boundary crossing. It discards
// everything until SetLogger is called.
var log logrus.FieldLogger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger routes the package's log records to l. A nil l discards them
// again. It is not safe to call concurrently with other functions of the
// package.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		log = newDiscardLogger()
		return
	}
	log = l
}
