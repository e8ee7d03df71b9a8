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

	"github.com/El-Merovingio/dapp-bank-ackee/run"
	"github.com/spf13/cobra"
)

var (
	depositBank   string
	depositAmount uint64
)

// depositCmd represents the deposit command
var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit lamports into a bank",
	Long:  "Moves the given amount from your keypair into the bank account. Without --bank your own bank address is derived",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := settings()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := run.Deposit(s, depositBank, depositAmount); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(depositCmd)
	depositCmd.PersistentFlags().StringVar(&depositBank, "bank", "", "Bank account address")
	depositCmd.PersistentFlags().Uint64Var(&depositAmount, "amount", 100000000, "Amount in lamports")
}
