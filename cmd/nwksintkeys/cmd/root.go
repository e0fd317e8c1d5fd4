package cmd

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lorawan-tools/nwksintkeys/internal/config"
	"github.com/lorawan-tools/nwksintkeys/internal/hexcodec"
)

var (
	cfgFile string
	version string
)

// expected argument sizes in hex characters
var argSizes = []struct {
	name string
	size int
}{
	{"NwkKey", 32},
	{"JoinNonce", 6},
	{"JoinEUI", 16},
	{"DevNonce", 4},
}

const inputSizes = `Expected input argument size:
  <NwkKey>       : 16 BYTES
  <JoinNonce>    : 3 BYTES
  <JoinEUI>      : 8 BYTES
  <DevNonce>     : 2 BYTES
`

var rootCmd = &cobra.Command{
	Use:   "nwksintkeys <NwkKey> <JoinNonce> <JoinEUI> <DevNonce>",
	Short: "Derive the LoRaWAN 1.1 FNwkSIntKey and SNwkSIntKey",
	Long: `nwksintkeys derives the LoRaWAN 1.1 network session integrity keys:

  FNwkSIntKey = aes128_encrypt(NwkKey, 0x01 | JoinNonce | JoinEUI | DevNonce | pad16)
  SNwkSIntKey = aes128_encrypt(NwkKey, 0x03 | JoinNonce | JoinEUI | DevNonce | pad16)`,
	Example:      "  nwksintkeys 01020304050607080102030405060708 010203 0102030405060708 0102",
	Args:         validateArgs,
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")
	rootCmd.PersistentFlags().Int("log-level", 4, "debug=5, info=4, error=2, fatal=1, panic=0")
	rootCmd.PersistentFlags().Bool("self-test", false, "decrypt the derived keys and verify they reproduce the input blocks")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text or json)")
	rootCmd.PersistentFlags().String("kek-label", "", "label of the key-encryption key")
	rootCmd.PersistentFlags().String("kek", "", "key-encryption key (HEX) used to wrap the derived keys, requires --kek-label (optional)")

	viper.BindPFlag("general.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("derivation.self_test", rootCmd.PersistentFlags().Lookup("self-test"))
	viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("kek.label", rootCmd.PersistentFlags().Lookup("kek-label"))
	viper.BindPFlag("kek.kek", rootCmd.PersistentFlags().Lookup("kek"))

	// default values
	viper.SetDefault("general.log_level", 4)
	viper.SetDefault("derivation.workers", 4)
	viper.SetDefault("output.format", "text")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(batchCmd)
}

// Execute executes the root command.
func Execute(v string) {
	version = v

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != len(argSizes) {
		return errors.Errorf("expected %d arguments, got %d\n\nUsage:\n  %s\n\nExample:\n%s", len(argSizes), len(args), cmd.Use, cmd.Example)
	}

	for i, a := range argSizes {
		l, err := hexcodec.ValidateHex(args[i])
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("%s accepts only HEX arguments (0-9,A-F,a-f)", a.name))
		}
		if l != a.size {
			return errors.Errorf("wrong size for <%s>: %d hex characters, expected %d\n\n%s", a.name, l, a.size, inputSizes)
		}
	}

	return nil
}

func initConfig() {
	config.Version = version

	if cfgFile != "" {
		b, err := ioutil.ReadFile(cfgFile)
		if err != nil {
			log.WithError(err).WithField("config", cfgFile).Fatal("error loading config file")
		}
		viper.SetConfigType("toml")
		if err := viper.ReadConfig(bytes.NewBuffer(b)); err != nil {
			log.WithError(err).WithField("config", cfgFile).Fatal("error loading config file")
		}
	} else {
		viper.SetConfigName("nwksintkeys")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/nwksintkeys")
		viper.AddConfigPath("/etc/nwksintkeys")
		if err := viper.ReadInConfig(); err != nil {
			switch err.(type) {
			case viper.ConfigFileNotFoundError:
				log.Debug("no configuration file found, using defaults")
			default:
				log.WithError(err).Fatal("read configuration file error")
			}
		}
	}

	viperBindEnvs(config.C)

	if err := viper.Unmarshal(&config.C, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())); err != nil {
		log.WithError(err).Fatal("unmarshal config error")
	}
}

func viperBindEnvs(iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			tv = strings.ToLower(t.Name)
		}
		if tv == "-" {
			continue
		}

		switch v.Kind() {
		case reflect.Struct:
			viperBindEnvs(v.Interface(), append(parts, tv)...)
		default:
			// Bash doesn't allow env variable names with a dot so
			// bind the double underscore version.
			keyDot := strings.Join(append(parts, tv), ".")
			keyUnderscore := strings.Join(append(parts, tv), "__")
			viper.BindEnv(keyDot, strings.ToUpper(keyUnderscore))
		}
	}
}
