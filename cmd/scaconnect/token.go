package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/scaconnect/internal/connector/codec"
	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect authorisation tokens",
	}
	cmd.AddCommand(newTokenDecodeCmd())
	return cmd
}

func newTokenDecodeCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "decode [token]",
		Short: "Print the state carried by a token",
		Long: `Decode an authorisation token and print its state as JSON. The token is
read from stdin when no argument is given. Bearer credentials and the
confirmation code are redacted unless --reveal is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := tokenArg(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			state, err := codec.DecodeString(token)
			if err != nil {
				return fmt.Errorf("decode token: %w", err)
			}
			if !reveal {
				state = redact(state)
			}

			raw, err := codec.Encode(state)
			if err != nil {
				return err
			}
			var out bytes.Buffer
			if err := json.Indent(&out, raw, "", "  "); err != nil {
				return err
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print credentials in clear")
	return cmd
}

func tokenArg(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no token given")
	}
	return strings.TrimSpace(sc.Text()), nil
}

func redact(s domain.State) domain.State {
	out := domain.Clone(s)
	a := out.Auth()
	if a.BearerToken != nil {
		a.BearerToken.AccessToken = slogx.Redacted
		if a.BearerToken.RefreshToken != "" {
			a.BearerToken.RefreshToken = slogx.Redacted
		}
	}
	if a.AuthConfirmationCode != "" {
		a.AuthConfirmationCode = slogx.Redacted
	}
	return out
}
