package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zingerfi/zingerfi-server/client"
)

var (
	serverURL   string
	token       string
	keystoreDir string
)

func check(e error) {
	if e != nil {
		fmt.Printf("%v\n", e.Error())
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "zingerfi",
	Short:   "ZingerFi end-to-end encryption tools",
	Long:    `ZingerFi end-to-end encryption tools. Generate server keys and tokens, manage Confide keys and send or open FastEncrypt messages.`,
	Version: "0.1.0",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	defaultKeystore := ".zingerfi/keys"
	if home, err := os.UserHomeDir(); err == nil {
		defaultKeystore = home + "/.zingerfi/keys"
	}
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("ZINGERFI_SERVER", "http://localhost:8080"), "ZingerFi server URL")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", os.Getenv("ZINGERFI_TOKEN"), "bearer token")
	rootCmd.PersistentFlags().StringVar(&keystoreDir, "keystore", envOr("ZINGERFI_KEYSTORE", defaultKeystore), "local key store directory")
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func newClient() *client.Client {
	if token == "" {
		fmt.Println("missing bearer token (--token or ZINGERFI_TOKEN)")
		os.Exit(1)
	}
	return client.New(serverURL, token)
}

func main() {
	Execute()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
