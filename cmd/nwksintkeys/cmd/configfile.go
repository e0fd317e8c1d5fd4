package cmd

import (
	"os"
	"text/template"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lorawan-tools/nwksintkeys/internal/config"
)

// when updating this template, don't forget to update config.Config!
const configTemplate = `[general]
# Log level
#
# debug=5, info=4, warning=3, error=2, fatal=1, panic=0
log_level={{ .General.LogLevel }}

# Log to syslog.
#
# When set to true, log messages are being written to syslog.
log_to_syslog={{ .General.LogToSyslog }}

# Log in JSON format.
log_json={{ .General.LogJSON }}


# Key derivation settings.
[derivation]
# Self-test.
#
# When enabled, every derived key is decrypted again with the NwkKey and
# compared with the block it was derived from. The decrypted blocks are
# printed as FNwkSIntKey_DataPayload and SNwkSIntKey_DataPayload.
self_test={{ .Derivation.SelfTest }}

# Number of concurrent derivations in batch mode.
workers={{ .Derivation.Workers }}

# Batch timeout.
#
# When set (e.g. 30s), a batch is cancelled when it takes longer than the
# given duration. 0s disables the timeout.
timeout="{{ .Derivation.Timeout }}"


# Output settings.
[output]
# Output format.
#
# Valid values are:
# * text
# * json
format="{{ .Output.Format }}"


# Key-encryption key (KEK).
#
# When a KEK is configured, the derived keys are printed as RFC 3394 wrapped
# keys (KeyEnvelope) instead of plain keys. A KEK requires a label, as an
# envelope without label is read as a plain key.
[kek]
# KEK label (e.g. the NetID of the receiving network-server).
label="{{ .KEK.Label }}"

# KEK (HEX encoded, 16, 24 or 32 bytes).
kek="{{ .KEK.KEK }}"


# Metrics settings.
[metrics]

  # Prometheus metrics settings.
  [metrics.prometheus]
  # Textfile.
  #
  # When set, the derivation counters are written to this file on exit, in
  # the format of the node-exporter textfile collector.
  textfile="{{ .Metrics.Prometheus.Textfile }}"
`

var configCmd = &cobra.Command{
	Use:   "configfile",
	Short: "Print the nwksintkeys configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := template.Must(template.New("config").Parse(configTemplate))
		err := t.Execute(os.Stdout, &config.C)
		if err != nil {
			return errors.Wrap(err, "execute config template error")
		}
		return nil
	},
}
