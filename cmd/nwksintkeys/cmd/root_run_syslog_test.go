//go:build !windows
// +build !windows

package cmd

import (
	"log/syslog"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSyslogPriority(t *testing.T) {
	tests := []struct {
		level    log.Level
		expected syslog.Priority
	}{
		{log.PanicLevel, syslog.LOG_USER | syslog.LOG_CRIT},
		{log.FatalLevel, syslog.LOG_USER | syslog.LOG_CRIT},
		{log.ErrorLevel, syslog.LOG_USER | syslog.LOG_ERR},
		{log.WarnLevel, syslog.LOG_USER | syslog.LOG_WARNING},
		{log.InfoLevel, syslog.LOG_USER | syslog.LOG_INFO},
		{log.DebugLevel, syslog.LOG_USER | syslog.LOG_DEBUG},
		{log.TraceLevel, syslog.LOG_USER | syslog.LOG_DEBUG},
	}

	for _, tst := range tests {
		t.Run(tst.level.String(), func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(tst.expected, syslogPriority(tst.level))
		})
	}
}
