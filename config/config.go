package config

import (
	"log"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Config struct {
	Endpoint string       `mapstructure:"endpoint"`
	Wallet   WalletConfig `mapstructure:"wallet"`
	Send     SendConfig   `mapstructure:"send"`

	LogLevel string `mapstructure:"log_level"`
}

// WalletConfig identifies the merchant wallet account. All three fields are
// required for any authenticated request.
type WalletConfig struct {
	GUID        string `mapstructure:"guid"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address"`
}

type SendConfig struct {
	// Timeout is the wall-clock budget of one whole send attempt: baseline
	// capture, submissions and reconciliation polls all count against it.
	Timeout time.Duration `mapstructure:"timeout"`
	// PollInterval is the sleep between reconciliation polls.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// ConfirmWindow is how long one reconciliation round waits for the
	// payment to surface before the payment request is submitted again.
	ConfirmWindow time.Duration `mapstructure:"confirm_window"`
	// PageLimit is the transaction history page size used when polling.
	PageLimit int `mapstructure:"page_limit"`
}

const (
	defaultEndpoint = "https://blockchain.info/merchant/"
	defaultLogLevel = "info"

	defaultSendTimeout   = 90 * time.Second
	defaultPollInterval  = 10 * time.Second
	defaultConfirmWindow = 30 * time.Second
	defaultPageLimit     = 50
)

func InitConfig() {
	// Set default values
	// Find home directory.
	home, err := homedir.Dir()
	if err != nil {
		log.Fatalf("failed to get home directory: %v", err)
	}
	defaultHomeDir := home + "/.wallet-client"

	viper.SetDefault("endpoint", defaultEndpoint)
	viper.SetDefault("log_level", defaultLogLevel)

	viper.SetDefault("wallet.guid", "")
	viper.SetDefault("wallet.password", "")
	viper.SetDefault("wallet.from_address", "")

	viper.SetDefault("send.timeout", defaultSendTimeout)
	viper.SetDefault("send.poll_interval", defaultPollInterval)
	viper.SetDefault("send.confirm_window", defaultConfirmWindow)
	viper.SetDefault("send.page_limit", defaultPageLimit)

	viper.SetConfigType("yaml")
	if CfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(CfgFile)
	} else {
		CfgFile = defaultHomeDir + "/config.yaml"
		viper.AddConfigPath(defaultHomeDir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}
}

var CfgFile string
