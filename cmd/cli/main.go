package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"resty.dev/v3"
)

var (
	authToken string
	apiURL    = "http://localhost:8787"
)

var rootCmd = &cobra.Command{
	Use:   "murmur",
	Short: "Murmur CLI - interact with a Murmur server from the terminal",
	Long: `Murmur CLI provides command-line access to a Murmur server.
Sign in, read the feed, write posts and manage your profile.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if authToken == "" {
			authToken = os.Getenv("MURMUR_TOKEN")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Bearer token (defaults to MURMUR_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(profileCmd)
}

// api returns a request primed with the base URL and bearer token
func api() *resty.Request {
	client := resty.New().SetBaseURL(apiURL)
	req := client.R()
	if authToken != "" {
		req.SetAuthToken(authToken)
	}
	return req
}

// printResponse pretty-prints a JSON API response or fails on an error
// status
func printResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("server returned %s: %s", resp.Status(), resp.String())
	}

	var pretty any
	if json.Unmarshal(resp.Bytes(), &pretty) == nil {
		out, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(out))
		return nil
	}
	fmt.Println(resp.String())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
