package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-archivebot/internal/craigslist"
	"github.com/qepting91/reddit-archivebot/internal/domain"
	"github.com/qepting91/reddit-archivebot/internal/mirror"
	"github.com/qepting91/reddit-archivebot/internal/processor"
	"github.com/qepting91/reddit-archivebot/internal/reply"
	"github.com/qepting91/reddit-archivebot/internal/storage"
)

var archiveDryRun bool

func init() {
	archiveCmd.Flags().BoolVar(&archiveDryRun, "dry-run", false, "Keep the archive local: no imgur upload and nothing stored.")
	rootCmd.AddCommand(archiveCmd)
}

var archiveCmd = &cobra.Command{
	Use:   "archive <url> [--dry-run]",
	Short: "Archives one craigslist ad and prints the reply the bot would post.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		url := args[0]

		postID, err := craigslist.PostID(url)
		if err != nil {
			return err
		}

		fetch, c, err := pipeline(cfg)
		if err != nil {
			return err
		}
		shots := mirror.NewScreenshotter(screenshotTimeout)
		defer shots.Close()

		var archive *domain.Archive
		if archiveDryRun {
			local := mirror.Local{Dir: filepath.Join(c.Dir(), postID)}
			p := processor.NewArchiveProcessor(logger, nil, fetch, c, shots, local, nil)
			archive, err = p.Build(ctx, url)
		} else {
			if cfg.ImgurClientID == "" {
				return errors.New("IMGUR_CLIENT_ID is required unless --dry-run is given")
			}
			var store *storage.Store
			if store, err = storage.Open(cfg.DBPath, logger); err != nil {
				return err
			}
			defer store.Close()

			p := processor.NewArchiveProcessor(logger, store, fetch, c, shots,
				mirror.NewImgur(cfg.ImgurClientID, downloadTimeout), nil)
			archive, _, err = p.ArchiveURL(ctx, url, postID)
		}
		if err != nil {
			return err
		}

		text, err := reply.Format(archive)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}
