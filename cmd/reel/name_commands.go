package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reel/internal/naming"
)

// recordFlags collects the naming fields shared by "name encode" and "claim".
type recordFlags struct {
	base, sub, typeName string
	revision, version   int
	initials, notes     string
	extension           string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.base, "base", "", "Base name (asset or shot code)")
	flags.StringVar(&f.sub, "sub", "", "Sub name")
	flags.StringVar(&f.typeName, "type", "", "Version type")
	flags.IntVar(&f.revision, "revision", 0, "Revision number")
	flags.IntVar(&f.version, "version", 0, "Version number")
	flags.StringVar(&f.initials, "initials", "", "User initials (defaults to the configured user)")
	flags.StringVar(&f.notes, "notes", "", "Trailing notes")
	flags.StringVar(&f.extension, "ext", "", "File extension")
}

// fields returns the flags the user set. Initials fall back to defaultInitials.
func (f *recordFlags) fields(cmd *cobra.Command, defaultInitials string) naming.Fields {
	flags := cmd.Flags()
	var out naming.Fields
	str := func(name, value string) *string {
		if !flags.Changed(name) {
			return nil
		}
		return naming.String(value)
	}
	out.BaseName = str("base", f.base)
	out.SubName = str("sub", f.sub)
	out.TypeName = str("type", f.typeName)
	out.Notes = str("notes", f.notes)
	out.Extension = str("ext", f.extension)
	out.UserInitials = str("initials", f.initials)
	if out.UserInitials == nil && defaultInitials != "" {
		out.UserInitials = naming.String(defaultInitials)
	}
	if flags.Changed("revision") {
		out.Revision = naming.Int(f.revision)
	}
	if flags.Changed("version") {
		out.Version = naming.Int(f.version)
	}
	return out
}

type decodedView struct {
	Name         string `json:"name"`
	Valid        bool   `json:"valid"`
	Reason       string `json:"reason,omitempty"`
	BaseName     string `json:"base_name,omitempty"`
	SubName      string `json:"sub_name,omitempty"`
	TypeName     string `json:"type_name,omitempty"`
	Revision     *int   `json:"revision,omitempty"`
	Version      *int   `json:"version,omitempty"`
	UserInitials string `json:"user_initials,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Extension    string `json:"extension,omitempty"`
	BaseInfo     bool   `json:"base_info"`
	FullInfo     bool   `json:"full_info"`
}

func newDecodedView(name string, d naming.Decoded) decodedView {
	v := decodedView{
		Name:         name,
		Valid:        d.Valid,
		Reason:       d.Reason,
		BaseName:     d.Record.BaseName,
		SubName:      d.Record.SubName,
		TypeName:     d.Record.TypeName,
		UserInitials: d.Record.UserInitials,
		Notes:        d.Record.Notes,
		Extension:    d.Record.Extension,
		BaseInfo:     d.BaseInfo,
		FullInfo:     d.FullInfo,
	}
	if d.Record.HasRevision {
		v.Revision = naming.Int(d.Record.Revision)
	}
	if d.Record.HasVersion {
		v.Version = naming.Int(d.Record.Version)
	}
	return v
}

func optionalInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func newNameCommand(ctx *commandContext) *cobra.Command {
	nameCmd := &cobra.Command{
		Use:   "name",
		Short: "Encode and decode canonical file names",
	}
	nameCmd.AddCommand(newNameEncodeCommand(ctx))
	nameCmd.AddCommand(newNameDecodeCommand(ctx))
	return nameCmd
}

func newNameEncodeCommand(ctx *commandContext) *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a canonical name from fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.workspace()
			if err != nil {
				return err
			}
			codec := ws.Codec()
			rec, err := codec.Apply(naming.Record{}, flags.fields(cmd, ws.Author().Initials))
			if err != nil {
				return err
			}
			name, err := codec.EncodeFile(rec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newNameDecodeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "decode NAME...",
		Short: "Split canonical names into fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.workspace()
			if err != nil {
				return err
			}
			views := make([]decodedView, 0, len(args))
			for _, name := range args {
				views = append(views, newDecodedView(name, ws.Codec().DecodeFile(name)))
			}
			if asJSON {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{
					v.Name, yesNo(v.Valid), v.BaseName, v.SubName, v.TypeName,
					optionalInt(v.Revision), optionalInt(v.Version), v.UserInitials, v.Notes, v.Reason,
				})
			}
			printTable(cmd, "", []string{"Name", "Valid", "Base", "Sub", "Type", "Rev", "Ver", "Initials", "Notes", "Reason"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight})
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
