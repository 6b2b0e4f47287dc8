package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ocppnode/backend/libs/ocpp/signature"
	"ocppnode/backend/services/networking-node/internal/auth"
)

func newKeygenCmd() *cobra.Command {
	var method, out string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a message signing key",
		Long: "Writes the private key to --out and the public key to --out.pub, then\n" +
			"prints the key id peers use to verify signatures.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			key, err := signature.GenerateKeyPair(method)
			if err != nil {
				return err
			}
			priv, err := signature.MarshalPrivateKeyPEM(key)
			if err != nil {
				return err
			}
			pub, err := signature.MarshalPublicKeyPEM(key)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, priv, 0o600); err != nil {
				return fmt.Errorf("write private key: %w", err)
			}
			if err := os.WriteFile(out+".pub", pub, 0o644); err != nil {
				return fmt.Errorf("write public key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), key.KeyID())
			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", signature.MethodES256, "signing method (ES256, ES384, ES512, EdDSA)")
	cmd.Flags().StringVar(&out, "out", "", "private key path")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Hash a node password for auth.stations",
		Long:  "Reads the password from the argument or, when absent, from the first line of stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			hasher, err := auth.NewPasswordHasher(cost)
			if err != nil {
				return err
			}
			hash, err := hasher.Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost, 0 uses the default; match auth.bcryptCost")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret, subject, role string
		ttl                   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a management API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokens := auth.NewTokenService(secret, ttl)
			if !tokens.Enabled() {
				return errors.New("--secret or JWT_SECRET is required")
			}
			token, err := tokens.GenerateToken(subject, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the node")
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().StringVar(&role, "role", "admin", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
