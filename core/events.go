package core

import (
	"sync"

	"github.com/josephlewis42/smallsh/core/logger"
)

// eventLog records session events and reports the first failed write. Later
// failures are dropped so a broken log doesn't drown the session in errors.
type eventLog struct {
	session *logger.SessionLogger
	onError func(err error)

	once sync.Once
}

func newEventLog(session *logger.SessionLogger, onError func(err error)) *eventLog {
	if session == nil {
		session = logger.Discard().Sessionless()
	}
	return &eventLog{session: session, onError: onError}
}

func (e *eventLog) Record(event logger.LogType) {
	if e == nil {
		return
	}
	if err := e.session.Record(event); err != nil {
		e.once.Do(func() { e.onError(err) })
	}
}
