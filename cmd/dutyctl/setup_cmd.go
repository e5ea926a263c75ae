package main

import "github.com/spf13/cobra"

func newSetupPostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup-posts",
		Short: "Create the standard post types and posts; existing ones are kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Post.SetupDefaults(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(res)
		},
	}
}
