package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"golang-ads-optimizer/internal/listing"
	"golang-ads-optimizer/pkg/errors"
)

// Flags for the listing command
var (
	listingTitle       string
	listingBullets     string
	listingDescription string
	newKeywords        string
	newKeywordsFile    string
)

// listingCmd represents the listing command
var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Print listing copy suggestions",
	Long: `Listing prints static suggestions for a product title, bullet points and
description, and one launch suggestion per new keyword idea. It does not read
campaign exports.

Examples:
  optimizer listing --title "Bamboo Shoe Rack, 3 Tier"
  optimizer listing --new-keywords "shoe shelf,boot tray"
  optimizer listing --new-keywords-file ideas.txt`,
	Args: cobra.NoArgs,
	RunE: runListing,
}

func init() {
	rootCmd.AddCommand(listingCmd)

	listingCmd.Flags().StringVar(&listingTitle, "title", listing.None, "current product title")
	listingCmd.Flags().StringVar(&listingBullets, "bullets", listing.None, "current bullet points")
	listingCmd.Flags().StringVar(&listingDescription, "description", listing.None, "current product description")
	listingCmd.Flags().StringVar(&newKeywords, "new-keywords", "", "new keyword ideas, separated by commas or newlines")
	listingCmd.Flags().StringVar(&newKeywordsFile, "new-keywords-file", "", "file with one new keyword idea per line")
}

func runListing(cmd *cobra.Command, args []string) error {
	l := listing.New()
	l.Title = listingTitle
	l.Bullets = listingBullets
	l.Description = listingDescription
	l.NewKeywords = listing.ParseKeywords(newKeywords)

	if newKeywordsFile != "" {
		data, err := os.ReadFile(newKeywordsFile)
		if err != nil {
			code := errors.CodeFileCorrupted
			if os.IsNotExist(err) {
				code = errors.CodeFileNotFound
			} else if os.IsPermission(err) {
				code = errors.CodeFilePermission
			}
			return errors.FileError(code, newKeywordsFile, err)
		}
		l.NewKeywords = append(l.NewKeywords, listing.ParseKeywords(string(data))...)
	}

	if err := l.Render(cmd.OutOrStdout()); err != nil {
		return errors.InternalError(errors.CodeUnexpectedError, "listing output", fmt.Errorf("writing listing: %w", err))
	}
	return nil
}
