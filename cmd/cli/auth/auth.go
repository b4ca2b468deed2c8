package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muhzarfan/backend-cttn/cmd/cli/api"
	"github.com/muhzarfan/backend-cttn/cmd/cli/config"
)

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
	ExpiresIn string `json:"expiresIn"`
}

// InitAuth registers auth-related CLI commands on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(loginCmd())
}

func registerCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account and store the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out authData
			err := api.Call("POST", "/api/auth/register", "", map[string]string{
				"username": username,
				"email":    email,
				"password": password,
			}, &out)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			if err := config.SaveToken(out.Token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Printf("Registered %s. Token stored locally (expires in %s).\n", out.User.Username, out.ExpiresIn)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the NotesApp API and store the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out authData
			err := api.Call("POST", "/api/auth/login", "", map[string]string{
				"username": username,
				"password": password,
			}, &out)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if out.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}
			if err := config.SaveToken(out.Token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Println("Login successful. Token stored locally.")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
