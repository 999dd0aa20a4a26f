package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iliyamo/storefront/internal/session"
)

// newLoginCmd signs in. Any current session is dropped first, so a failed
// attempt leaves the client signed out.
func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.credentials(&email, &password); err != nil {
				return err
			}
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			tok, err := a.api.Auth().Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			return a.startSession(cmd.Context(), tok, "Welcome back")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newSignupCmd(a *app) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a customer account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.credentials(&email, &password); err != nil {
				return err
			}
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			tok, err := a.api.Auth().Signup(cmd.Context(), email, password, name)
			if err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}
			return a.startSession(cmd.Context(), tok, "Welcome")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			a.ui.success("Logged out successfully")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"profile"},
		Short:   "Show the signed-in account",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u, ok := a.session.User()
			if !ok {
				a.ui.muted("Not signed in.")
				return nil
			}
			a.ui.title("Profile")
			a.ui.line("Email: %s", u.Email)
			a.ui.line("Role:  %s", u.Role)
			a.ui.line("Cart:  %d items", a.cart.TotalItems())
			return nil
		},
	}
}

func (a *app) startSession(ctx context.Context, tok, greeting string) error {
	if err := a.session.Login(ctx, tok); err != nil {
		if errors.Is(err, session.ErrInvalidLoginToken) {
			return fmt.Errorf("server issued an unusable token: %w", err)
		}
		return err
	}
	u, _ := a.session.User()
	a.ui.success("%s, %s (%s)", greeting, u.Email, u.Role)
	return nil
}

// credentials fills in whatever the flags left empty from the input
// stream. The password is read without echo when input is a terminal.
func (a *app) credentials(email, password *string) error {
	r := bufio.NewReader(a.in)
	if *email == "" {
		fmt.Fprint(a.ui.errOut, "Email: ")
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return errors.New("email required")
		}
		*email = strings.TrimSpace(line)
	}
	if *password == "" {
		fmt.Fprint(a.ui.errOut, "Password: ")
		if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(a.ui.errOut)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			*password = string(b)
		} else {
			line, err := r.ReadString('\n')
			if err != nil && line == "" {
				return errors.New("password required")
			}
			*password = strings.TrimRight(line, "\r\n")
		}
	}
	if *email == "" || *password == "" {
		return errors.New("email and password are required")
	}
	return nil
}
