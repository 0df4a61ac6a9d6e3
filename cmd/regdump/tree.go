package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/janstarke/nt-hive2/hive"
)

var (
	treeDepth  int
	treeValues bool
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVarP(&treeDepth, "depth", "d", 0, "Limit descent to this many levels (0 = unlimited)")
	cmd.Flags().BoolVar(&treeValues, "values", false, "Print each key's values as well")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <hive> [key-path]",
		Short: "Print the key tree",
		Long: `Walks the key tree depth-first and prints one line per key with
its last write time. Damaged branches are skipped and logged; the rest of the
tree is still printed.

Example:
  regdump tree NTUSER.DAT 'Software\Microsoft\Windows\CurrentVersion\Run' --values`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			return runTree(args[0], path)
		},
	}
}

func runTree(hivePath, keyPath string) error {
	h, err := openHive(hivePath)
	if err != nil {
		return err
	}
	defer h.Close()

	start, err := h.Root()
	if err != nil {
		return fmt.Errorf("root key: %w", err)
	}
	if keyPath != "" {
		start, err = start.LookupPath(keyPath)
		if err != nil {
			return fmt.Errorf("key %q: %w", keyPath, err)
		}
	}

	var keys, skipped int
	walkErr := h.WalkFrom(hive.WalkOptions{Start: start.Offset(), MaxDepth: treeDepth}, func(s hive.Step) bool {
		if s.Err != nil {
			skipped++
			logrus.WithField("cell", fmt.Sprintf("0x%x", s.Offset)).
				Warnf("skipping damaged branch: %v", s.Err)
			return true
		}
		indent := strings.Repeat("  ", s.Depth)
		fmt.Printf("%s%s  [%s]\n", indent, s.Key.Name(), s.Key.LastWrite().Format("2006-01-02 15:04:05"))
		keys++
		if treeValues {
			printValues(s.Key, indent+"  ")
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	logWarnings(h)
	logrus.Debugf("%d keys printed, %d branches skipped", keys, skipped)
	return nil
}

func printValues(k *hive.KeyNode, indent string) {
	vals, err := k.Values()
	if err != nil {
		logrus.Warnf("values of %s: %v", k.Name(), err)
		return
	}
	for _, v := range vals {
		name := v.Name()
		if name == "" {
			name = "(default)"
		}
		fmt.Printf("%s%-20s %-14s %s\n", indent, name, v.Type(), renderValue(v))
	}
}
