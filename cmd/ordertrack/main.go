// ordertrack is the terminal client for the order tracking server. Run
// without arguments it opens the interactive browser; login, logout and
// whoami manage the stored session.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bitzerlab/ordertrack/internal/client"
	"github.com/bitzerlab/ordertrack/internal/session"
	"github.com/bitzerlab/ordertrack/internal/tui"
	"github.com/spf13/cobra"
)

var (
	serverURL   string
	sessionPath string
)

var rootCmd = &cobra.Command{
	Use:   "ordertrack",
	Short: "Terminal client for the order tracking server",
	Long:  `Browse production orders, operations and timed work tasks, and edit them in place. A stored login is used when present; without one the client runs anonymously against a dev server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, sess, err := apiClient(cmd)
		if err != nil {
			return err
		}
		userName := ""
		if sess != nil {
			userName = sess.UserName
		}
		return tui.Run(api, userName)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <name or personnel id>",
	Short: "Log in and store the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore(sessionPath)
		if err != nil {
			return err
		}
		api := client.New(serverURL)

		// A numeric argument is tried as a personnel id first, the
		// way the login dialog accepts either.
		var userID *int64
		name := args[0]
		if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
			userID = &id
			name = ""
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		result, err := api.Login(ctx, userID, name)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		sess := &session.Session{
			AccessToken: result.AccessToken,
			UserID:      result.User.ID,
			UserName:    result.User.Name,
			IsAdmin:     result.User.IsAdmin,
			ServerURL:   serverURL,
			ExpiresAt:   time.Now().Add(time.Duration(result.ExpiresIn) * time.Second),
		}
		if err := store.Save(sess); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", result.User.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore(sessionPath)
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore(sessionPath)
		if err != nil {
			return err
		}
		sess, err := store.Load()
		if err != nil {
			return err
		}
		if sess == nil {
			fmt.Println("Not logged in")
			return nil
		}
		role := "operator"
		if sess.IsAdmin {
			role = "admin"
		}
		status := ""
		if sess.Expired() {
			status = " (expired)"
		}
		fmt.Printf("%s (%s) at %s%s\n", sess.UserName, role, sess.ServerURL, status)
		return nil
	},
}

// apiClient builds the API client, attaching the stored token when a
// live session exists.
func apiClient(cmd *cobra.Command) (*client.Client, *session.Session, error) {
	store, err := session.NewStore(sessionPath)
	if err != nil {
		return nil, nil, err
	}
	sess, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	if sess != nil && sess.Expired() {
		sess = nil
	}

	api := client.New(resolveServer(sess, serverURL, cmd.Flags().Changed("server")))
	if sess != nil {
		api.SetToken(sess.AccessToken)
	}
	return api, sess, nil
}

// resolveServer picks the base URL for a run. A session saved against a
// different server is still honored unless --server was given explicitly.
func resolveServer(sess *session.Session, flagValue string, flagSet bool) string {
	if sess != nil && !flagSet && sess.ServerURL != "" {
		return sess.ServerURL
	}
	return flagValue
}

func init() {
	defaultServer := os.Getenv("ORDERTRACK_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8000"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "server base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session-file", "", "session file path (default: user config dir)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
