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

var label string

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create your bank account",
	Long:  "Derives the bank address for your keypair and submits the create instruction",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := settings()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := run.Create(s, label); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.PersistentFlags().StringVar(&label, "label", "Julio Bank", "Human readable bank label")
}
