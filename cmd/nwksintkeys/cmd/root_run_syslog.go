//go:build !windows
// +build !windows

package cmd

import (
	"log/syslog"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	lsyslog "github.com/sirupsen/logrus/hooks/syslog"

	"github.com/lorawan-tools/nwksintkeys/internal/config"
)

// syslogPriorities maps the log level to the syslog priority. Levels above
// info (debug, trace) are logged as debug.
var syslogPriorities = map[log.Level]syslog.Priority{
	log.PanicLevel: syslog.LOG_CRIT,
	log.FatalLevel: syslog.LOG_CRIT,
	log.ErrorLevel: syslog.LOG_ERR,
	log.WarnLevel:  syslog.LOG_WARNING,
	log.InfoLevel:  syslog.LOG_INFO,
}

func syslogPriority(l log.Level) syslog.Priority {
	prio, ok := syslogPriorities[l]
	if !ok {
		prio = syslog.LOG_DEBUG
	}
	return syslog.LOG_USER | prio
}

func setSyslog() error {
	if !config.C.General.LogToSyslog {
		return nil
	}

	hook, err := lsyslog.NewSyslogHook("", "", syslogPriority(log.StandardLogger().Level), "nwksintkeys")
	if err != nil {
		return errors.Wrap(err, "get syslog hook error")
	}

	log.AddHook(hook)
	return nil
}
