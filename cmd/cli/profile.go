package main

import (
	"github.com/spf13/cobra"
)

var (
	profileName      string
	profileBio       string
	profileGender    string
	profileBirthYear string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Read and update profiles",
}

var getProfileCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Read a user's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(api().Get("/api/v1/profile/" + args[0]))
	},
}

var updateProfileCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Update your own profile fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := map[string]string{}
		if cmd.Flags().Changed("name") {
			fields["name"] = profileName
		}
		if cmd.Flags().Changed("bio") {
			fields["bio"] = profileBio
		}
		if cmd.Flags().Changed("gender") {
			fields["gender"] = profileGender
		}
		if cmd.Flags().Changed("birth-year") {
			fields["birthYear"] = profileBirthYear
		}
		return printResponse(api().
			SetBody(fields).
			Put("/api/v1/profile/" + args[0]))
	},
}

func init() {
	updateProfileCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	updateProfileCmd.Flags().StringVar(&profileBio, "bio", "", "Short bio")
	updateProfileCmd.Flags().StringVar(&profileGender, "gender", "", "Gender")
	updateProfileCmd.Flags().StringVar(&profileBirthYear, "birth-year", "", "Birth year, e.g. 1990")

	profileCmd.AddCommand(getProfileCmd)
	profileCmd.AddCommand(updateProfileCmd)
}
