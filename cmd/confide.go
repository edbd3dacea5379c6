package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zingerfi/zingerfi-server/e2ee"
	"github.com/zingerfi/zingerfi-server/keystore"
	"github.com/zingerfi/zingerfi-server/types"
)

var (
	confideUser       string
	confideEmail      string
	confidePassphrase string
	confidePeer       string
	confideForce      bool
)

func init() {
	confideCmd.PersistentFlags().StringVarP(&confideUser, "user", "u", "", "own user id (token subject)")
	confideCmd.MarkPersistentFlagRequired("user")

	confideInitCmd.Flags().StringVar(&confideEmail, "email", "", "own email")
	confideInitCmd.Flags().BoolVar(&confideForce, "force", false, "replace an existing local key")
	confidePublishCmd.Flags().StringVar(&confidePassphrase, "passphrase", os.Getenv("ZINGERFI_PASSPHRASE"), "seal and mirror the private key with this passphrase")
	confideRestoreCmd.Flags().StringVar(&confidePassphrase, "passphrase", os.Getenv("ZINGERFI_PASSPHRASE"), "passphrase the mirrored private key was sealed with")
	confideEncryptCmd.Flags().StringVar(&confidePeer, "to", "", "recipient user id")
	confideEncryptCmd.MarkFlagRequired("to")
	confideDecryptCmd.Flags().StringVar(&confidePeer, "from", "", "sender user id")
	confideDecryptCmd.MarkFlagRequired("from")

	confideCmd.AddCommand(confideInitCmd, confidePublishCmd, confideRestoreCmd, confideEncryptCmd, confideDecryptCmd)
	rootCmd.AddCommand(confideCmd)
}

func openKeystore() *keystore.Store {
	store, err := keystore.Open(keystoreDir)
	check(err)
	return store
}

func loadOwnKey(store *keystore.Store) *keystore.Entry {
	entry, err := store.Load(confideUser)
	if errors.Is(err, types.ErrNotFound) {
		fmt.Printf("no local Confide key for %s, run `zingerfi confide init` or `zingerfi confide restore`\n", confideUser)
		os.Exit(1)
	}
	check(err)
	return entry
}

var confideCmd = &cobra.Command{
	Use:   "confide",
	Short: "Confide static key messaging",
}

var confideInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a Confide key pair into the local key store",
	Run: func(cmd *cobra.Command, args []string) {
		store := openKeystore()
		if _, err := store.Load(confideUser); err == nil && !confideForce {
			fmt.Printf("a Confide key for %s already exists (use --force to replace it)\n", confideUser)
			os.Exit(1)
		}
		privateKey, err := e2ee.GenerateKeyPair()
		check(err)
		publicKey, err := e2ee.ExportPublicKey(privateKey.PublicKey())
		check(err)
		exportedPrivate, err := e2ee.ExportPrivateKey(privateKey)
		check(err)
		check(store.Save(&keystore.Entry{
			UserID:     confideUser,
			Email:      confideEmail,
			PublicKey:  publicKey,
			PrivateKey: exportedPrivate,
		}))
		fmt.Println(publicKey)
	},
}

var confidePublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the local public key (and the sealed private key with --passphrase)",
	Run: func(cmd *cobra.Command, args []string) {
		entry := loadOwnKey(openKeystore())
		sealed := ""
		if confidePassphrase != "" {
			var err error
			sealed, err = e2ee.SealPrivateKey(confidePassphrase, entry.PrivateKey)
			check(err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		key, err := newClient().PublishConfideKey(ctx, entry.PublicKey, sealed)
		check(err)
		fmt.Printf("published Confide key for %s\n", key.UserID)
	},
}

var confideRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the mirrored private key onto this device",
	Run: func(cmd *cobra.Command, args []string) {
		if confidePassphrase == "" {
			fmt.Println("missing --passphrase")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		key, err := newClient().GetOwnConfideKey(ctx)
		check(err)
		if key.EncryptedPrivateKey == "" {
			fmt.Println("no mirrored private key on the server")
			os.Exit(1)
		}
		privateKey, err := e2ee.OpenPrivateKey(confidePassphrase, key.EncryptedPrivateKey)
		check(err)
		check(openKeystore().Save(&keystore.Entry{
			UserID:     confideUser,
			Email:      key.Email,
			PublicKey:  key.PublicKey,
			PrivateKey: privateKey,
		}))
		fmt.Printf("restored Confide key for %s\n", confideUser)
	},
}

var confideEncryptCmd = &cobra.Command{
	Use:   "encrypt <message>",
	Short: "Encrypt a message for another user's published key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entry := loadOwnKey(openKeystore())
		ownKey, err := e2ee.ImportPrivateKey(entry.PrivateKey)
		check(err)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		peer, err := newClient().GetConfidePublicKey(ctx, confidePeer)
		check(err)
		peerKey, err := e2ee.ImportPublicKey(peer.PublicKey)
		check(err)

		ciphertext, err := e2ee.EncryptMessage(args[0], peerKey, ownKey)
		check(err)
		fmt.Println(ciphertext)
	},
}

var confideDecryptCmd = &cobra.Command{
	Use:   "decrypt <ciphertext>",
	Short: "Decrypt a message from another user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entry := loadOwnKey(openKeystore())
		ownKey, err := e2ee.ImportPrivateKey(entry.PrivateKey)
		check(err)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		peer, err := newClient().GetConfidePublicKey(ctx, confidePeer)
		check(err)
		peerKey, err := e2ee.ImportPublicKey(peer.PublicKey)
		check(err)

		plaintext, err := e2ee.DecryptMessage(args[0], peerKey, ownKey)
		check(err)
		fmt.Println(plaintext)
	},
}
