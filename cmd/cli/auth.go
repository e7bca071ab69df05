package main

import (
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign up, sign in and out, reset your password",
}

var signUpCmd = &cobra.Command{
	Use:   "signup <email> <password>",
	Short: "Create an account and print the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().
			SetBody(map[string]string{"email": args[0], "password": args[1]}).
			Post("/api/v1/auth/signup"))
	},
}

var signInCmd = &cobra.Command{
	Use:   "signin <email> <password>",
	Short: "Sign in and print the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().
			SetBody(map[string]string{"email": args[0], "password": args[1]}).
			Post("/api/v1/auth/signin"))
	},
}

var signOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Revoke the current token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().Post("/api/v1/auth/signout"))
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <email>",
	Short: "Request a password reset token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().
			SetBody(map[string]string{"email": args[0]}).
			Post("/api/v1/auth/reset"))
	},
}

var resetConfirmCmd = &cobra.Command{
	Use:   "reset-confirm <token> <new-password>",
	Short: "Set a new password with a reset token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().
			SetBody(map[string]string{"reset_token": args[0], "password": args[1]}).
			Post("/api/v1/auth/reset/confirm"))
	},
}

func init() {
	authCmd.AddCommand(signUpCmd)
	authCmd.AddCommand(signInCmd)
	authCmd.AddCommand(signOutCmd)
	authCmd.AddCommand(resetCmd)
	authCmd.AddCommand(resetConfirmCmd)
}
