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

var withdrawBank string

// withdrawCmd represents the withdraw command
var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw everything above the rent reserve",
	Long:  "Queries the current reserve floor and withdraws the rest. Without --bank your own bank address is derived",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := settings()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := run.Withdraw(s, withdrawBank); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(withdrawCmd)
	withdrawCmd.PersistentFlags().StringVar(&withdrawBank, "bank", "", "Bank account address")
}
