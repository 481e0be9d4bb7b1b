package images

import (
	"fmt"

	"github.com/crucial707/travel-journal/cmd/cli/client"
	"github.com/crucial707/travel-journal/cmd/cli/config"
	"github.com/spf13/cobra"
)

// ==========================
// Init Images
// ==========================
func InitImages(rootCmd *cobra.Command) {
	imagesCmd := &cobra.Command{
		Use:   "images",
		Short: "Upload and delete story images",
	}
	imagesCmd.AddCommand(uploadCmd(), deleteCmd())
	rootCmd.AddCommand(imagesCmd)
}

// newClient sends the saved token when there is one; the server may not require it.
func newClient() *client.Client {
	token, _ := config.LoadToken()
	return client.New(token)
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload [file]",
		Short: "Upload an image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imageURL, err := newClient().UploadImage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), imageURL)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [imageUrl]",
		Short: "Delete an uploaded image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteImage(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Image deleted.")
			return nil
		},
	}
}
