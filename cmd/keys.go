package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zingerfi/zingerfi-server/types"
	"github.com/zingerfi/zingerfi-server/util"
)

var outputFile string

func init() {
	keysCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default is stdout)")
	rootCmd.AddCommand(keysCmd)
}

// keysCmd generates the ed25519 keys the server signs and verifies bearer tokens with
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate ed25519 keys",
	Long:  "Generate ed25519 token signing keys for use with ZingerFi Server (auth.serverKeysPath)",
	Run: func(cmd *cobra.Command, args []string) {
		public, private, err := util.GenerateEd25519KeyPair()
		check(err)
		keys := types.ServerKeys{
			Type:       "zingerfi_server_keys_ed25519",
			PublicKey:  *public,
			PrivateKey: *private,
			Created:    time.Now().UnixMilli(),
		}
		fileBytes, err := json.MarshalIndent(keys, "", "  ")
		check(err)
		if outputFile != "" {
			// fail if file already exists
			if _, err := os.Stat(outputFile); !errors.Is(err, os.ErrNotExist) {
				fmt.Printf("File already exists: %s\n", outputFile)
				os.Exit(1)
			}
			check(os.WriteFile(outputFile, fileBytes, 0600))
			fmt.Printf("Output file: %s\n", outputFile)
		} else {
			fmt.Printf("\n%s\n", string(fileBytes))
		}
	},
}
