package exception

import "errors"

var (
	ErrCoreAlreadyRunning = errors.New("core: orchestrator already running")
)
