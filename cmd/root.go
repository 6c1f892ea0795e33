package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecomwatch/restock/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "restock",
	Short: "Watches a single product page and pings you when it comes back in stock.",
	Long: `restock polls one e-commerce product page, optionally selecting a color
and size first, and sends a one-time notification when the item flips
from out-of-stock to in-stock. State is kept in a local JSON file so a
sustained restock never pages you twice.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.restock.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("url", "u", "", "Product page URL to watch (overrides product.url from config)")
	rootCmd.PersistentFlags().String("color", "", "Desired color name, e.g. 'cloud white' (overrides product.color)")
	rootCmd.PersistentFlags().String("size", "", "Desired size label, e.g. 'M' (overrides product.size)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".restock")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.restock.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("product.url", "")
	viper.SetDefault("product.color", "")
	viper.SetDefault("product.size", "")
	viper.SetDefault("watch.interval", 180)
	viper.SetDefault("watch.statefile", ".restock_state.json")
	viper.SetDefault("browser.headless", true)
	viper.SetDefault("browser.chromepath", "")
	viper.SetDefault("browser.navtimeout", 45)
	viper.SetDefault("discord.webhookurl", "")
	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.host", "")
	viper.SetDefault("email.port", 587)
	viper.SetDefault("email.username", "")
	viper.SetDefault("email.password", "")
	viper.SetDefault("email.from", "")
	viper.SetDefault("email.to", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
