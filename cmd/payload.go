package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zingerfi/zingerfi-server/e2ee"
)

func init() {
	payloadCmd.AddCommand(payloadParseCmd)
	rootCmd.AddCommand(payloadCmd)
}

var payloadCmd = &cobra.Command{
	Use:   "payload",
	Short: "Inspect FEID payloads",
}

var payloadParseCmd = &cobra.Command{
	Use:   "parse <payload>",
	Short: "Print the fields of a FEID payload",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parsed, ok := e2ee.ParsePayload(args[0])
		if !ok {
			fmt.Println("not a FEID payload")
			os.Exit(1)
		}
		out, err := json.MarshalIndent(parsed, "", "  ")
		check(err)
		fmt.Println(string(out))
	},
}
