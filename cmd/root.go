/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bankcli",
	Short: "Client for program owned bank accounts",
	Long:  `Creates bank accounts on the ledger, lists them, deposits into them and withdraws everything above the rent reserve`,
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

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to settings.yaml file(default is $HOME/settings.yaml)")

	rootCmd.PersistentFlags().StringP("endpoint", "e", viper.GetString("rpc.endpoint"), "Ledger JSON-RPC endpoint")
	rootCmd.PersistentFlags().StringP("commitment", "c", viper.GetString("rpc.commitment"), "Commitment level to wait for: processed, confirmed or finalized")
	rootCmd.PersistentFlags().StringP("wallet", "w", viper.GetString("wallet.path"), "Path to the keypair file")
	rootCmd.PersistentFlags().StringP("program", "p", viper.GetString("program.address"), "Program address, defaults to the schema's metadata address")

	if err := viper.BindPFlag("Rpc.Endpoint", rootCmd.PersistentFlags().Lookup("endpoint")); err != nil {
		println(err.Error())
	}
	if err := viper.BindEnv("Rpc.Endpoint", "BANK_ENDPOINT"); err != nil {
		println(err.Error())
	}
	if err := viper.BindPFlag("Rpc.Commitment", rootCmd.PersistentFlags().Lookup("commitment")); err != nil {
		println(err.Error())
	}
	if err := viper.BindEnv("Rpc.Commitment", "BANK_COMMITMENT"); err != nil {
		println(err.Error())
	}
	if err := viper.BindPFlag("Wallet.Path", rootCmd.PersistentFlags().Lookup("wallet")); err != nil {
		println(err.Error())
	}
	if err := viper.BindPFlag("Program.Address", rootCmd.PersistentFlags().Lookup("program")); err != nil {
		println(err.Error())
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	envCfg, envFound := os.LookupEnv("BANK_SETTINGS")
	home, err := homedir.Dir()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else if envFound {
		viper.SetConfigFile(envCfg)
	} else {
		viper.AddConfigPath(home)
		viper.SetConfigName("settings.yaml")
	}

	viper.SetDefault("Rpc.Endpoint", "http://127.0.0.1:8899")
	viper.SetDefault("Rpc.Commitment", "confirmed")
	viper.SetDefault("Rpc.TimeoutSeconds", 30)
	viper.SetDefault("Program.Schema", "static/solanapdas.json")
	viper.SetDefault("Wallet.Path", path.Join(home, ".bankcli", "keypair.json"))
	viper.SetDefault("Storage.Dir", path.Join(home, ".bankcli"))

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func settings() (*common.Settings, error) {
	s := &common.Settings{}
	if err := viper.Unmarshal(s); err != nil {
		return nil, err
	}
	return s, nil
}
