package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lorawan-tools/nwksintkeys/internal/batch"
	"github.com/lorawan-tools/nwksintkeys/internal/config"
	"github.com/lorawan-tools/nwksintkeys/internal/sessionkeys"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Derive the session keys for every line of the given file (or stdin)",
	Long: `Derive the session keys for every line of the given file, or stdin when
no file or '-' is given. Each line holds the NwkKey, JoinNonce, JoinEUI and
DevNonce separated by whitespace or commas. Blank lines and lines starting
with '#' are ignored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Int("workers", 4, "number of concurrent derivations")
	batchCmd.Flags().Duration("timeout", 0, "cancel the batch after the given duration (0 disables the timeout)")
	viper.BindPFlag("derivation.workers", batchCmd.Flags().Lookup("workers"))
	viper.BindPFlag("derivation.timeout", batchCmd.Flags().Lookup("timeout"))
}

func runBatch(cmd *cobra.Command, args []string) error {
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

	r := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open batch file error")
		}
		defer f.Close()
		r = f
	}

	reqs, err := batch.Parse(r)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if t := config.C.Derivation.Timeout; t > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, t)
		defer timeoutCancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case s := <-sigChan:
			log.WithField("signal", s).Warning("signal received, stopping batch")
			cancel()
		case <-ctx.Done():
		}
	}()

	d := sessionkeys.New(sessionkeys.Config{
		SelfTest: config.C.Derivation.SelfTest,
	})

	results, err := batch.Run(ctx, d, reqs, config.C.Derivation.Workers)
	if err != nil {
		return errors.Wrap(err, "run batch error")
	}

	var failed int
	for _, res := range results {
		out := keyOutput{
			Line: res.Request.Line,
		}

		if res.Err != nil {
			failed++
			out.Error = res.Err.Error()
		} else {
			out, err = newKeyOutput(res.Keys, config.C.KEK.Label, kek)
			if err != nil {
				return err
			}
			out.Line = res.Request.Line
		}

		if err := w.Write(out); err != nil {
			return err
		}
	}

	log.WithFields(log.Fields{
		"requests": len(results),
		"failed":   failed,
	}).Info("batch completed")

	if failed != 0 {
		return errors.Errorf("%d of %d derivations failed", failed, len(results))
	}

	return nil
}
