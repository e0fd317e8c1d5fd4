package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lorawan-tools/nwksintkeys/internal/config"
	"github.com/lorawan-tools/nwksintkeys/internal/keywrap"
	"github.com/lorawan-tools/nwksintkeys/internal/metrics"
	"github.com/lorawan-tools/nwksintkeys/internal/sessionkeys"
)

func run(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	defer writeMetrics()

	kek, err := loadKEK(config.C)
	if err != nil {
		return err
	}

	w, err := newOutputWriter(cmd.OutOrStdout(), config.C.Output.Format)
	if err != nil {
		return err
	}

	d := sessionkeys.New(sessionkeys.Config{
		SelfTest: config.C.Derivation.SelfTest,
	})

	keys, err := d.DeriveKeysFromHex(args[0], args[1], args[2], args[3])
	if err != nil {
		return errors.Wrap(err, "derive session keys error")
	}

	out, err := newKeyOutput(keys, config.C.KEK.Label, kek)
	if err != nil {
		return err
	}

	return w.Write(out)
}

// loadKEK returns the configured KEK. A KEK requires a label, as an
// envelope without KEKLabel is read as a plain key.
func loadKEK(c config.Config) ([]byte, error) {
	kek, err := keywrap.ParseKEK(c.KEK.KEK)
	if err != nil {
		return nil, err
	}
	if kek != nil && c.KEK.Label == "" {
		return nil, errors.Wrap(keywrap.ErrInvalidKEK, "kek_label must be set when a kek is configured")
	}
	return kek, nil
}

func setup() error {
	tasks := []func() error{
		setLogLevel,
		setLogFormat,
		setSyslog,
		printStartMessage,
	}

	for _, t := range tasks {
		if err := t(); err != nil {
			return err
		}
	}

	return nil
}

func setLogLevel() error {
	log.SetLevel(log.Level(uint8(config.C.General.LogLevel)))
	return nil
}

func setLogFormat() error {
	if config.C.General.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return nil
}

func printStartMessage() error {
	log.WithFields(log.Fields{
		"version":   version,
		"self_test": config.C.Derivation.SelfTest,
		"format":    config.C.Output.Format,
		"kek_label": config.C.KEK.Label,
	}).Debug("starting nwksintkeys")
	return nil
}

func writeMetrics() {
	if err := metrics.Write(config.C); err != nil {
		log.WithError(err).Error("write metrics error")
	}
}
