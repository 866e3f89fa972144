package publishers

import "github.com/totoapp/expenses-client/pkg/httpclient"

// Logger is the structured logging surface shared with the transport.
type Logger = httpclient.Logger

// discardLogger drops publisher diagnostics when no logger is wired.
type discardLogger struct{}

func (discardLogger) InfoObj(string, string, interface{})  {}
func (discardLogger) DebugObj(string, string, interface{}) {}
func (discardLogger) WarnObj(string, string, interface{})  {}
func (discardLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return discardLogger{}
	}
	return log
}
