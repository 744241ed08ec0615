package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"intervox/internal/api"
	"intervox/internal/session"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage backend credentials",
	}

	authCmd.AddCommand(newAuthLoginCommand(ctx))
	authCmd.AddCommand(newAuthStatusCommand(ctx))
	authCmd.AddCommand(newAuthLogoutCommand(ctx))

	return authCmd
}

func newAuthLoginCommand(ctx *commandContext) *cobra.Command {
	var tokenFlag string
	var userFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token for the backend",
		Long: "Store an access token for the backend.\n\n" +
			"The token is a JWT issued by the web application; the user id and\n" +
			"expiry are read from its payload unless overridden with --user.",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(tokenFlag)
			if token == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Paste access token: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return errors.New("no token provided")
			}

			userID := strings.TrimSpace(userFlag)
			var expiresAt time.Time
			claims, err := session.ParseTokenClaims(token)
			if err == nil {
				if userID == "" {
					userID = claims.UserID
				}
				expiresAt = claims.ExpiresAt
			} else if userID == "" {
				return fmt.Errorf("cannot determine user id: %w (pass --user)", err)
			}

			mgr, err := ctx.sessionManager()
			if err != nil {
				return err
			}
			if err := mgr.Login(token, userID, expiresAt); err != nil {
				return fmt.Errorf("store credentials: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s\n", userID)
			if !expiresAt.IsZero() {
				fmt.Fprintf(out, "Token expires %s\n", formatWhen(expiresAt))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tokenFlag, "token", "t", "", "Access token (prompted when omitted)")
	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "User id override")
	return cmd
}

func newAuthStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show login state and backend reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.sessionManager()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := mgr.Credentials(cmd.Context()); err != nil {
				if errors.Is(err, session.ErrNotAuthenticated) {
					fmt.Fprintln(out, "Not logged in; run `intervox auth login`")
					return nil
				}
				return err
			}
			fmt.Fprintf(out, "Logged in as %s\n", mgr.UserID())

			return ctx.withClient(func(client *api.Client) error {
				if err := client.Health(cmd.Context()); err != nil {
					fmt.Fprintf(out, "Backend %s unreachable: %v\n", client.BaseURL(), err)
					return nil
				}
				fmt.Fprintf(out, "Backend %s reachable\n", client.BaseURL())
				return nil
			})
		},
	}
}

func newAuthLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.sessionManager()
			if err != nil {
				return err
			}
			if err := mgr.Logout(); err != nil {
				return fmt.Errorf("clear credentials: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
