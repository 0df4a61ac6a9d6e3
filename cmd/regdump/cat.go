package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/janstarke/nt-hive2/hive"
)

var catRaw bool

func init() {
	cmd := newCatCmd()
	cmd.Flags().BoolVar(&catRaw, "raw", false, "Write the raw value bytes to stdout")
	rootCmd.AddCommand(cmd)
}

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <hive> <key-path> [value-name]",
		Short: "Print a key's values, or one value's data",
		Long: `With a value name, prints that value's data decoded according to
its registry type (--raw dumps the bytes unmodified). Without one, lists all
values of the key. Use '' as the value name for the key's default value.

Example:
  regdump cat SOFTWARE 'Microsoft\Windows NT\CurrentVersion' ProductName`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			valueName := ""
			hasValue := len(args) > 2
			if hasValue {
				valueName = args[2]
			}
			return runCat(args[0], args[1], valueName, hasValue)
		},
	}
}

func runCat(hivePath, keyPath, valueName string, hasValue bool) error {
	h, err := openHive(hivePath)
	if err != nil {
		return err
	}
	defer h.Close()

	root, err := h.Root()
	if err != nil {
		return fmt.Errorf("root key: %w", err)
	}
	key, err := root.LookupPath(keyPath)
	if err != nil {
		return fmt.Errorf("key %q: %w", keyPath, err)
	}

	if !hasValue {
		printValues(key, "")
		return nil
	}

	val, err := key.LookupValue(valueName)
	if err != nil {
		return fmt.Errorf("value %q: %w", valueName, err)
	}
	if catRaw {
		data, err := val.Data()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	fmt.Println(renderValue(val))
	return nil
}

// renderValue decodes a value for display according to its type. Undecodable
// data falls back to a hex dump preview.
func renderValue(v *hive.ValueNode) string {
	switch v.Type() {
	case hive.RegSZ, hive.RegExpandSZ, hive.RegLink:
		if s, err := v.String(); err == nil {
			return s
		}
	case hive.RegMultiSZ:
		if parts, err := v.MultiString(); err == nil {
			return strings.Join(parts, " | ")
		}
	case hive.RegDWord, hive.RegDWordBigEndian:
		if n, err := v.DWord(); err == nil {
			return fmt.Sprintf("0x%08x (%d)", n, n)
		}
	case hive.RegQWord:
		if n, err := v.QWord(); err == nil {
			return fmt.Sprintf("0x%016x (%d)", n, n)
		}
	}

	data, err := v.Data()
	if err != nil {
		return fmt.Sprintf("<unreadable: %v>", err)
	}
	const preview = 32
	if len(data) > preview {
		return fmt.Sprintf("%s... (%s)", hex.EncodeToString(data[:preview]),
			humanize.IBytes(uint64(len(data))))
	}
	return hex.EncodeToString(data)
}
