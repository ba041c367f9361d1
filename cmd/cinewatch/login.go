package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and persist the session token",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoginCmd,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the persisted session",
	Args:  cobra.NoArgs,
	RunE:  runLogoutCmd,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated profile",
	Args:  cobra.NoArgs,
	RunE:  runWhoamiCmd,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	loginCmd.Flags().String("password", "", "Password (prompted when omitted)")
}

func runLoginCmd(cmd *cobra.Command, args []string) error {
	username := args[0]
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = promptRequired("Password")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	a.Login(cmd.Context(), username, password)
	if err := statusErr(a); err != nil {
		return err
	}

	info := a.Session.Info()
	if jsonOutput {
		printJSON(info)
		return nil
	}
	fmt.Printf("Logged in as %s\n", info.Username)
	return nil
}

func runLogoutCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	a.Logout(cmd.Context())
	fmt.Println("Logged out")
	return nil
}

func runWhoamiCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := requireAuth(a); err != nil {
		return err
	}
	if err := statusErr(a); err != nil {
		return err
	}

	info := a.Session.Info()
	if jsonOutput {
		printJSON(info)
		return nil
	}
	fmt.Printf("Username:  %s\n", info.Username)
	fmt.Printf("Email:     %s\n", info.Email)
	fmt.Printf("Role:      %d\n", info.Role)
	return nil
}

// promptRequired prompts until a non-empty value is provided.
func promptRequired(label string) string {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s: ", label)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" {
			return input
		}
		fmt.Println("  Value required")
	}
}
