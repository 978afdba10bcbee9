package conf

import (
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/spf13/viper"
)

const defaultDataDirname = ".skeincoin"

// Cfg is the running configuration. Consensus constants never live here;
// they are threaded explicitly as *chainparams.Params so one process can
// validate against several networks at once.
var Cfg = Default()

type Opts struct {
	DataDir  string `short:"b" long:"datadir" description:"Directory to store data"`
	LogLevel string `short:"d" long:"loglevel" description:"Logging level {debug, info, warn, error}"`

	TestNet bool `long:"testnet" description:"Use the test network"`
	RegTest bool `long:"regtest" description:"Use the regression test network"`

	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
}

type Configuration struct {
	DataDir  string
	LogLevel string

	TestNet bool
	RegTest bool

	// UtxoCacheSize sizes the leveldb cache of the coins store, in bytes.
	UtxoCacheSize int
}

func Default() *Configuration {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Configuration{
		DataDir:       filepath.Join(home, defaultDataDirname),
		LogLevel:      "info",
		UtxoCacheSize: 8 << 20,
	}
}

// Load parses command-line arguments and, when present, a viper config file,
// the flags taking precedence.
func Load(args []string) (*Configuration, error) {
	var opts Opts
	remaining, err := flags.ParseArgs(&opts, args)
	if err != nil {
		return nil, err
	}
	_ = remaining

	cfg := Default()

	viper.Reset()
	if opts.ConfigFile != "" {
		viper.SetConfigFile(opts.ConfigFile)
	} else {
		viper.SetConfigName("skeincoin")
		viper.AddConfigPath(cfg.DataDir)
		viper.AddConfigPath(".")
	}
	viper.SetDefault("datadir", cfg.DataDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("utxocachesize", cfg.UtxoCacheSize)
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	cfg.DataDir = viper.GetString("datadir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.UtxoCacheSize = viper.GetInt("utxocachesize")
	cfg.TestNet = viper.GetBool("testnet")
	cfg.RegTest = viper.GetBool("regtest")

	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.TestNet {
		cfg.TestNet = true
	}
	if opts.RegTest {
		cfg.RegTest = true
	}

	Cfg = cfg
	return cfg, nil
}
