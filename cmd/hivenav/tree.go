package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivenav/internal/reader"
)

var (
	treeDepth  int
	treeValues bool
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVarP(&treeDepth, "depth", "d", 3, "Maximum depth to descend (0 = unlimited)")
	cmd.Flags().BoolVar(&treeValues, "values", false, "Include values")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <hive> [path]",
		Short: "Print the key hierarchy of a hive",
		Long: `The tree command prints the key hierarchy of a hive, optionally
starting from a subkey path and optionally with values inlined.

Example:
  hivenav tree system.hiv
  hivenav tree system.hiv "ControlSet001\Services" --depth 2
  hivenav tree ntuser.dat --values --ascii`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args)
		},
	}
	return cmd
}

type treeGlyphs struct {
	branch, last, pipe, blank string
}

func glyphSet() treeGlyphs {
	if cfg.UI.ASCII {
		return treeGlyphs{branch: "+-- ", last: `\-- `, pipe: "|   ", blank: "    "}
	}
	return treeGlyphs{branch: "├── ", last: "└── ", pipe: "│   ", blank: "    "}
}

func runTree(args []string) error {
	hivePath := args[0]

	printVerbose("Opening hive: %s\n", hivePath)
	h, err := reader.Open(hivePath)
	if err != nil {
		return fmt.Errorf("open hive: %w", err)
	}
	defer h.Close()

	start, err := h.Root()
	if err != nil {
		return err
	}
	var label string
	if len(args) == 2 {
		if start, err = h.Find(args[1]); err != nil {
			return fmt.Errorf("resolve %q: %w", args[1], err)
		}
		label = args[1]
	}
	if label == "" {
		meta, err := h.StatKey(start)
		if err != nil {
			return err
		}
		label = meta.Name
	}

	printInfo("%s\n", label)
	return printSubtree(h, start, "", 1, glyphSet())
}

// printSubtree prints the children of one key, values first, each entry with
// the connector for its position in the sibling run. depth counts key levels
// below the starting key.
func printSubtree(h *reader.Hive, id reader.NodeID, prefix string, depth int, g treeGlyphs) error {
	type entry struct {
		text    string
		id      reader.NodeID
		recurse bool
	}
	var entries []entry

	if treeValues {
		vids, err := h.Values(id)
		if err != nil {
			return err
		}
		for _, vid := range vids {
			meta, err := h.StatValue(vid)
			if err != nil {
				printVerbose("Warning: unreadable value in key: %v\n", err)
				continue
			}
			name := meta.Name
			if name == "" {
				name = "(default)"
			}
			entries = append(entries, entry{
				text: fmt.Sprintf("%s [%s] = %s", name, meta.Type, previewValue(h, vid, meta)),
			})
		}
	}

	subs, err := h.Subkeys(id)
	if err != nil {
		return err
	}
	if pruned := treeDepth > 0 && depth > treeDepth; pruned {
		if len(subs) > 0 {
			entries = append(entries, entry{text: fmt.Sprintf("... (%d keys)", len(subs))})
		}
	} else {
		for _, sub := range subs {
			meta, err := h.StatKey(sub)
			if err != nil {
				return err
			}
			entries = append(entries, entry{
				text:    meta.Name,
				id:      sub,
				recurse: meta.SubkeyN > 0 || (treeValues && meta.ValueN > 0),
			})
		}
	}

	for i, e := range entries {
		conn, childPrefix := g.branch, prefix+g.pipe
		if i == len(entries)-1 {
			conn, childPrefix = g.last, prefix+g.blank
		}
		printInfo("%s%s%s\n", prefix, conn, e.text)
		if e.recurse {
			if err := printSubtree(h, e.id, childPrefix, depth+1, g); err != nil {
				return err
			}
		}
	}
	return nil
}
