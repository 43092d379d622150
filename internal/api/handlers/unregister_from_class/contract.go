package unregister_from_class

import "context"

type RegistrationCoordinator interface {
	Unregister(ctx context.Context, sessionID, memberID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
