package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/fifoemu/regs"
)

var decodeStatCmd = &cobra.Command{
	Use:   "decode-stat <vif0|vif1|gif> <raw>",
	Short: "Decode a status register word.",
	Long: "`decode-stat vif1 0x00800000` prints the fields of a status " +
		"word. Undefined bits are rejected.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := strconv.ParseUint(args[1], 0, 32)
		if err != nil {
			return fmt.Errorf("status word %q: %w", args[1], err)
		}

		asJSON, _ := cmd.Flags().GetBool("json")

		decoded, err := decodeStat(args[0], uint32(raw))
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(decoded)
		}

		fmt.Fprintln(cmd.OutOrStdout(), decoded)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeStatCmd)
	decodeStatCmd.Flags().Bool("json", false, "Print the fields as JSON")
}

func decodeStat(reg string, raw uint32) (fmt.Stringer, error) {
	switch strings.ToLower(reg) {
	case "vif0":
		return regs.DecodeVIFStatFor(regs.VIF0, raw)
	case "vif1":
		return regs.DecodeVIFStatFor(regs.VIF1, raw)
	case "gif":
		return regs.DecodeGIFStat(raw)
	default:
		return nil, fmt.Errorf("unknown status register %q", reg)
	}
}
