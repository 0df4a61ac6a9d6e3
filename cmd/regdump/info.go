package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <hive>",
		Short: "Show hive header metadata and consistency findings",
		Long: `Validates the hive base block and reports its metadata: version,
sequence numbers, last write time, hive bin layout, and every consistency
finding (checksum mismatch, dirty sequences, truncation).

Example:
  regdump info SYSTEM`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

func runInfo(path string) error {
	h, err := openHive(path)
	if err != nil {
		return err
	}
	defer h.Close()

	hdr := h.Header()
	fmt.Printf("File:            %s\n", path)
	if stat, err := os.Stat(path); err == nil {
		fmt.Printf("Size:            %s (%s bytes)\n",
			humanize.IBytes(uint64(stat.Size())), humanize.Comma(stat.Size()))
	}
	fmt.Printf("Version:         %d.%d\n", hdr.MajorVersion, hdr.MinorVersion)
	fmt.Printf("Sequences:       %d / %d", hdr.PrimarySequence, hdr.SecondarySequence)
	if hdr.IsClean() {
		fmt.Printf(" (clean)\n")
	} else {
		fmt.Printf(" (dirty)\n")
	}
	if lw := hdr.LastWrite(); !lw.IsZero() {
		fmt.Printf("Last write:      %s (%s)\n", lw.Format("2006-01-02 15:04:05 MST"), humanize.Time(lw))
	}
	fmt.Printf("Hive bins:       %d, %s declared\n",
		len(h.Bins()), humanize.IBytes(uint64(hdr.HiveBinsDataSize)))
	fmt.Printf("Root cell:       0x%x\n", h.RootOffset())

	if root, err := h.Root(); err == nil {
		fmt.Printf("Root key:        %s\n", root.Name())
	} else {
		fmt.Printf("Root key:        unreadable: %v\n", err)
	}

	if warnings := h.Warnings(); len(warnings) > 0 {
		fmt.Printf("\nFindings:\n")
		for _, w := range warnings {
			fmt.Printf("  %s\n", w)
		}
	}
	return nil
}
