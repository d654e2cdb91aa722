// cmd/wallet creates and inspects the service wallet in its canonical
// encoding: base58 of the 64-byte ed25519 secret key.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/spf13/cobra"

	solanainfra "memecoin/internal/infra/solana"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "wallet",
		Short:        "Service wallet tooling",
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newAddressCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a new keypair and print its address and secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acc := types.NewAccount()
			secret := solanainfra.EncodeSecret(acc)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "address: %s\n", acc.PublicKey.ToBase58())

			if out == "" {
				fmt.Fprintf(w, "secret:  %s\n", secret)
				return nil
			}
			if err := os.WriteFile(out, []byte(secret+"\n"), 0o600); err != nil {
				return fmt.Errorf("write secret: %w", err)
			}
			fmt.Fprintf(w, "secret written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write the secret to this file (mode 0600) instead of stdout")
	return cmd
}

func newAddressCmd() *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the address of a secret (defaults to SERVICE_WALLET_PRIVATE_KEY)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := strings.TrimSpace(secret)
			if s == "" {
				s = strings.TrimSpace(os.Getenv("SERVICE_WALLET_PRIVATE_KEY"))
			}
			acc, err := solanainfra.DecodeSecret(s)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), acc.PublicKey.ToBase58())
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "base58 secret key")
	return cmd
}
