package main

import (
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create and engage with posts",
}

var createPostCmd = &cobra.Command{
	Use:   "create <content>",
	Short: "Write an original post (at least 140 characters)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().
			SetBody(map[string]any{"content": args[0]}).
			Post("/api/v1/posts"))
	},
}

var sharePostCmd = &cobra.Command{
	Use:   "share <post-id>",
	Short: "Share a post to your feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().Post("/api/v1/posts/" + args[0] + "/share"))
	},
}

var viewPostCmd = &cobra.Command{
	Use:   "view <post-id>",
	Short: "Record a view of a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().Post("/api/v1/posts/" + args[0] + "/view"))
	},
}

var flagPostCmd = &cobra.Command{
	Use:   "flag <post-id>",
	Short: "Toggle your flag on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().Post("/api/v1/posts/" + args[0] + "/flag"))
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <post-id> <text>",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().
			SetBody(map[string]string{"comment": args[1]}).
			Post("/api/v1/posts/" + args[0] + "/comments"))
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments <post-id>",
	Short: "Read a post's comment thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().Get("/api/v1/posts/" + args[0] + "/comments"))
	},
}

func init() {
	postCmd.AddCommand(createPostCmd)
	postCmd.AddCommand(sharePostCmd)
	postCmd.AddCommand(viewPostCmd)
	postCmd.AddCommand(flagPostCmd)
	postCmd.AddCommand(commentCmd)
	postCmd.AddCommand(commentsCmd)
}
