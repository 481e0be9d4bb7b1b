package root

import (
	"github.com/crucial707/travel-journal/cmd/cli/auth"
	"github.com/crucial707/travel-journal/cmd/cli/images"
	"github.com/crucial707/travel-journal/cmd/cli/stories"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "travel",
		Short:         "Travel journal CLI",
		Long:          "Command line interface for the travel journal API. Set TRAVEL_API_URL to point at a server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Bool("json", false, "print raw JSON instead of tables")

	auth.InitAuth(rootCmd)
	stories.InitStories(rootCmd)
	images.InitImages(rootCmd)

	return rootCmd
}
