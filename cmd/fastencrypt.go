package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zingerfi/zingerfi-server/client"
	"github.com/zingerfi/zingerfi-server/types"
)

var recipientEmail string

func init() {
	fastEncryptSendCmd.Flags().StringVar(&recipientEmail, "to", "", "recipient email")
	fastEncryptSendCmd.MarkFlagRequired("to")
	fastEncryptCmd.AddCommand(fastEncryptSendCmd)
	fastEncryptCmd.AddCommand(fastEncryptOpenCmd)
	fastEncryptCmd.AddCommand(fastEncryptSentCmd)
	fastEncryptCmd.AddCommand(fastEncryptReceivedCmd)
	rootCmd.AddCommand(fastEncryptCmd)
}

var fastEncryptCmd = &cobra.Command{
	Use:   "fastencrypt",
	Short: "Send and open one-time FastEncrypt messages",
}

var fastEncryptSendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Encrypt a message for a recipient and print the FEID payload",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		payload, err := newClient().SendFastEncrypt(ctx, recipientEmail, args[0])
		check(err)
		fmt.Println(payload)
	},
}

var fastEncryptOpenCmd = &cobra.Command{
	Use:   "open <payload>",
	Short: "Decrypt a FEID payload (works once)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		plaintext, err := newClient().OpenFastEncrypt(ctx, args[0])
		switch {
		case err == nil:
			fmt.Println(plaintext)
		case client.IsKind(err, types.KindConflict):
			fmt.Println("this message has already been read")
			os.Exit(1)
		case client.IsKind(err, types.KindForbidden):
			fmt.Println("this message was not sent to you")
			os.Exit(1)
		default:
			check(err)
		}
	},
}

var fastEncryptSentCmd = &cobra.Command{
	Use:   "sent",
	Short: "List messages you sent and whether they were read",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		sent, err := newClient().ListSent(ctx)
		check(err)
		for _, m := range sent {
			fmt.Printf("%s\t%s\t%s\n", m.MessageUID, m.RecipientEmail, readState(m.IsDecrypted, m.DecryptedAt))
		}
	},
}

var fastEncryptReceivedCmd = &cobra.Command{
	Use:   "received",
	Short: "List messages sent to you and whether you opened them",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		received, err := newClient().ListReceived(ctx)
		check(err)
		for _, m := range received {
			fmt.Printf("%s\t%s\t%s\n", m.MessageUID, m.SenderEmail, readState(m.IsDecrypted, m.DecryptedAt))
		}
	},
}

func readState(isDecrypted bool, decryptedAt int64) string {
	if !isDecrypted {
		return "pending"
	}
	return "read at " + time.UnixMilli(decryptedAt).Format(time.RFC3339)
}
