package main

import (
	"fmt"
	"time"

	cfg "github.com/mailio/go-web3-kit/config"
	"github.com/spf13/cobra"
	"github.com/zingerfi/zingerfi-server/api/interceptors"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/util"
)

var (
	tokenKeysFile   string
	tokenConfigFile string
	tokenAudience   string
	tokenIssuer     string
	tokenSubject    string
	tokenEmail      string
	tokenTTL        time.Duration
)

func init() {
	tokenCmd.Flags().StringVarP(&tokenKeysFile, "keys", "k", "", "server keys file (default auth.serverKeysPath from --config)")
	tokenCmd.Flags().StringVarP(&tokenConfigFile, "config", "c", "", "server configuration file (issuer, audience, keys path)")
	tokenCmd.Flags().StringVar(&tokenAudience, "aud", "", "token audience (overrides auth.tokenAudience)")
	tokenCmd.Flags().StringVar(&tokenIssuer, "iss", "", "token issuer (overrides auth.tokenIssuer)")
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "user id")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "user email")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	tokenCmd.MarkFlagRequired("sub")
	tokenCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(tokenCmd)
}

// issueToken signs a bearer token the way a server with the same auth settings expects it
func issueToken(keysFile, configFile, audience, issuer, subject, email string, ttl time.Duration) (string, error) {
	if configFile != "" {
		if err := cfg.NewYamlConfig(configFile, &global.Conf); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", configFile, err)
		}
		if keysFile == "" {
			keysFile = global.Conf.Auth.ServerKeysPath
		}
	}
	if keysFile == "" {
		return "", fmt.Errorf("no server keys file (use --keys or --config)")
	}
	if audience != "" {
		global.Conf.Auth.TokenAudience = audience
	}
	if issuer != "" {
		global.Conf.Auth.TokenIssuer = issuer
	}
	_, privateKey, err := util.LoadServerKeys(keysFile)
	if err != nil {
		return "", err
	}
	return interceptors.GenerateJWSToken(privateKey, subject, email, ttl)
}

// tokenCmd issues a bearer token for development and testing
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token",
	Long:  "Issue a bearer token signed with the server keys. Intended for development and testing.",
	Run: func(cmd *cobra.Command, args []string) {
		jws, err := issueToken(tokenKeysFile, tokenConfigFile, tokenAudience, tokenIssuer, tokenSubject, tokenEmail, tokenTTL)
		check(err)
		fmt.Println(jws)
	},
}
