package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kioskpay/wallet-client/config"
	utils "github.com/kioskpay/wallet-client/utils/viper"
	"github.com/kioskpay/wallet-client/version"
	"github.com/kioskpay/wallet-client/wallet"
)

var RootCmd = &cobra.Command{
	Use:   "wallet-client",
	Short: "Merchant wallet client for payment kiosks",
	Long:  `Client for a remote merchant wallet API that sends payments, reconciles their outcome and reports the spendable balance.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no arguments are provided, print usage information
		if len(args) == 0 {
			if err := cmd.Usage(); err != nil {
				log.Fatalf("Error printing usage: %v", err)
			}
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the wallet client",
	Long:  `Initialize the wallet client by generating a config file with default values.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := viper.WriteConfigAs(config.CfgFile); err != nil {
			log.Fatalf("failed to write config file: %v", err)
		}

		fmt.Printf("Config file created: %s\n", config.CfgFile)
		fmt.Println()
		fmt.Println("Edit the config file to set the wallet guid, password and source address.")
	},
}

var sendCmd = &cobra.Command{
	Use:   "send [address] [satoshis]",
	Short: "Send a payment",
	Long:  `Send the given amount of satoshis to the address and wait until the payment is confirmed by the remote ledger.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		satoshis, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			log.Fatalf("invalid amount: %v", err)
		}

		w, logger := buildWallet()
		defer logger.Sync() // nolint: errcheck

		txID, err := w.SendCoins(cmd.Context(), args[0], satoshis)
		if err != nil {
			log.Fatalf("failed to send payment: %v", err)
		}

		fmt.Printf("Payment confirmed: %s\n", txID)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the spendable balance",
	Long:  `Show the wallet's spendable balance, excluding deposits with zero confirmations.`,
	Run: func(cmd *cobra.Command, args []string) {
		w, logger := buildWallet()
		defer logger.Sync() // nolint: errcheck

		snapshot, err := w.Balance(cmd.Context())
		if err != nil {
			log.Fatalf("failed to get balance: %v", err)
		}

		printBalance(snapshot)
	},
}

var configCmd = &cobra.Command{
	Use:   "config set [key] [value]",
	Short: "Update a config value",
	Long:  `Update a single key in the config file, e.g. "config set send.timeout 2m".`,
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		if args[0] != "set" {
			log.Fatalf("unknown config subcommand: %s", args[0])
		}

		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("failed to read config file: %v", err)
		}

		if err := utils.UpdateViperConfig(args[1], args[2], viper.ConfigFileUsed()); err != nil {
			log.Fatalf("failed to update config: %v", err)
		}

		fmt.Printf("%s set to %s\n", args[1], args[2])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of wallet-client",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.BuildVersion)
	},
}

func buildWallet() (*wallet.Wallet, *zap.Logger) {
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	cfg := config.Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	w, err := wallet.New(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create wallet client: %v", err)
	}

	return w, logger
}

func buildLogger(logLevel string) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.Set(logLevel); err != nil {
		return nil, fmt.Errorf("failed to set log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		level,
	))

	return logger, nil
}

func printBalance(snapshot wallet.BalanceSnapshot) {
	fmt.Printf("%20s | Satoshis\n", "")
	fmt.Printf("%20s | --------\n", "")
	fmt.Printf("%20s | %s\n", "Spendable", snapshot.Spendable.String())
	fmt.Printf("%20s | %s\n", "Received (0-conf)", snapshot.TotalReceivedUnconfirmed.String())
	fmt.Printf("%20s | %s\n", "Received (1-conf)", snapshot.TotalReceivedConfirmed.String())
}

func init() {
	RootCmd.CompletionOptions.DisableDefaultCmd = true
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(sendCmd)
	RootCmd.AddCommand(balanceCmd)
	RootCmd.AddCommand(configCmd)

	RootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(config.InitConfig)

	RootCmd.PersistentFlags().StringVar(&config.CfgFile, "config", "", "config file")
}
