package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/termline/caps"
	"pkt.systems/termline/schema"
)

func newCapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Print detected terminal capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot := caps.Detect()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tty:            %v\n", snapshot.IsTTY)
			fmt.Fprintf(out, "family:         %s\n", snapshot.Family)
			fmt.Fprintf(out, "colors:         %s\n", snapshot.Colors)
			fmt.Fprintf(out, "geometry:       %dx%d\n", snapshot.Width, snapshot.Height)
			fmt.Fprintf(out, "latency:        %s\n", snapshot.Latency)
			fmt.Fprintf(out, "attrs:          %s\n", attrList(snapshot.Attrs))
			fmt.Fprintf(out, "features:       %s\n", featureList(snapshot.Features))
			fmt.Fprintf(out, "optimizations:  %s\n", optList(snapshot.Optimizations))
			return nil
		},
	}
}

func attrList(a schema.AttrSupport) string {
	return joinFlags([]flagName{
		{"bold", a.Bold},
		{"italic", a.Italic},
		{"underline", a.Underline},
		{"strikethrough", a.Strikethrough},
		{"reverse", a.Reverse},
		{"dim", a.Dim},
	})
}

func featureList(f schema.FeatureSet) string {
	return joinFlags([]flagName{
		{"mouse", f.Mouse},
		{"bracketed-paste", f.BracketedPaste},
		{"focus-events", f.FocusEvents},
		{"sync-output", f.SyncOutput},
		{"unicode", f.Unicode},
	})
}

func optList(o schema.OptFlag) string {
	return joinFlags([]flagName{
		{"batch-writes", o&schema.OptBatchWrites != 0},
		{"sync-updates", o&schema.OptSyncUpdates != 0},
		{"truecolor-direct", o&schema.OptTrueColorDirect != 0},
		{"minimal-attrs", o&schema.OptMinimalAttrs != 0},
	})
}

type flagName struct {
	name string
	on   bool
}

func joinFlags(flags []flagName) string {
	out := ""
	for _, f := range flags {
		if !f.on {
			continue
		}
		if out != "" {
			out += " "
		}
		out += f.name
	}
	if out == "" {
		return "(none)"
	}
	return out
}
