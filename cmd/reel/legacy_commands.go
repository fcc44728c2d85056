package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reel/internal/legacy"
	"reel/internal/naming"
)

type assetView struct {
	Path         string    `json:"path"`
	BaseName     string    `json:"base_name"`
	SubName      string    `json:"sub_name,omitempty"`
	TypeName     string    `json:"type_name"`
	Revision     int       `json:"revision"`
	Version      int       `json:"version"`
	UserInitials string    `json:"user_initials"`
	Notes        string    `json:"notes,omitempty"`
	Size         int64     `json:"size"`
	Modified     time.Time `json:"modified"`
	Created      time.Time `json:"created"`
}

func newAssetView(a *legacy.Asset) assetView {
	return assetView{
		Path:         a.Path(),
		BaseName:     a.BaseName,
		SubName:      a.SubName,
		TypeName:     a.TypeName,
		Revision:     a.Revision,
		Version:      a.Version,
		UserInitials: a.UserInitials,
		Notes:        a.Notes,
		Size:         a.Size,
		Modified:     a.Modified,
		Created:      a.Created,
	}
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		recursive   bool
		showSkipped bool
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Decode the canonically named files in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withFolders(cmd, func(c context.Context, s *session) error {
				ix, err := s.index()
				if err != nil {
					return err
				}
				dir, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				var result legacy.ScanResult
				if recursive {
					result, err = ix.ScanTree(c, dir)
				} else {
					result, err = ix.Scan(c, dir)
				}
				if err != nil {
					return err
				}
				assets := make([]assetView, 0, len(result.Assets))
				for _, a := range result.Assets {
					assets = append(assets, newAssetView(a))
				}
				if asJSON {
					payload := map[string]any{"assets": assets}
					if showSkipped {
						payload["skipped"] = result.Skipped
					}
					return writeJSON(cmd, payload)
				}
				rows := make([][]string, 0, len(assets))
				for _, a := range assets {
					rel, err := filepath.Rel(dir, a.Path)
					if err != nil {
						rel = a.Path
					}
					rows = append(rows, []string{
						a.BaseName, a.SubName, a.TypeName,
						strconv.Itoa(a.Revision), strconv.Itoa(a.Version), a.UserInitials,
						a.Modified.Local().Format("2006-01-02 15:04"), rel,
					})
				}
				printTable(cmd, "No versioned files", []string{"Base", "Sub", "Type", "Rev", "Ver", "By", "Modified", "File"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight})
				out := cmd.OutOrStdout()
				if showSkipped {
					for _, skip := range result.Skipped {
						fmt.Fprintf(out, "skipped %s: %s\n", skip.Path, skip.Reason)
					}
				} else if len(result.Skipped) > 0 {
					fmt.Fprintf(out, "%d file(s) skipped (use --skipped to list them)\n", len(result.Skipped))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into sub-folders")
	cmd.Flags().BoolVar(&showSkipped, "skipped", false, "List files that did not decode")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newClaimCommand(ctx *commandContext) *cobra.Command {
	var (
		flags  recordFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "claim DIR",
		Short: "Reserve the next version file of a series in a folder",
		Long: "Claim locks DIR, finds the highest version of the series named by --base, --sub and --type,\n" +
			"and creates an empty file for the next one. A requested --version already on disk moves past the maximum.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withFolders(cmd, func(c context.Context, s *session) error {
				ix, err := s.index()
				if err != nil {
					return err
				}
				dir, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				rec, err := s.ws.Codec().Apply(naming.Record{}, flags.fields(cmd, s.ws.Author().Initials))
				if err != nil {
					return err
				}
				asset, err := retryDuplicate(s.logger, func() (*legacy.Asset, error) {
					return ix.Claim(c, dir, rec)
				})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, newAssetView(asset))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Claimed %s\n", asset.Path())
				return nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
