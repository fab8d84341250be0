package cli

import (
	"encoding/json"
	"fmt"

	"github.com/Davincible/aesengine/pkg/crypto/engine"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type ScheduleInfo struct {
	KeySize    string     `json:"key_size"`
	Rounds     int        `json:"rounds"`
	Words      int        `json:"words"`
	Encryption [][]string `json:"encryption"`
	Decryption [][]string `json:"decryption"`
	SBox       []string   `json:"sbox,omitempty"`
}

// inspectSchedule expands key and groups both schedules into round keys.
func inspectSchedule(key []byte, withSBox bool) (*ScheduleInfo, error) {
	e, err := engine.New(engine.BlockSize)
	if err != nil {
		return nil, err
	}
	if err := e.SetKeyBytes(key); err != nil {
		return nil, err
	}
	defer e.Reset()

	ks := e.KeySize()
	info := &ScheduleInfo{
		KeySize: ks.String(),
		Rounds:  ks.Rounds() + 1,
		Words:   ks.ScheduleWords(),
	}

	a := e.Arena()
	group := func(w engine.Words) [][]string {
		rounds := make([][]string, 0, info.Words/4)
		for i := 0; i < info.Words; i += 4 {
			rounds = append(rounds, []string{
				fmt.Sprintf("%08x", w.At(i)),
				fmt.Sprintf("%08x", w.At(i+1)),
				fmt.Sprintf("%08x", w.At(i+2)),
				fmt.Sprintf("%08x", w.At(i+3)),
			})
		}
		return rounds
	}
	info.Encryption = group(a.EncKeys())
	info.Decryption = group(a.DecKeys())

	if withSBox {
		sbox := a.SBox()
		for row := 0; row < 16; row++ {
			info.SBox = append(info.SBox, fmt.Sprintf("% x", sbox[16*row:16*row+16]))
		}
	}
	return info, nil
}

func NewInspectCommand() *cobra.Command {
	var (
		keys     keySource
		showSBox bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the expanded key schedules for a key",
		Long: `Expand a key and print the encryption and decryption round keys the
engine stores, four words per round. With --sbox the substitution box is
printed as a 16x16 grid.`,
		Example: `  # FIPS-197 appendix A.1 key
  aesengine inspect -k 2b7e151628aed2a6abf7158809cf4f3c

  aesengine inspect -k $KEY --sbox --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			key, err := keys.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			wipe := newWiper(cfg)
			defer wipe.release(key)

			raw := key.Get()
			defer wipe.zero(raw)

			info, err := inspectSchedule(raw, showSBox)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(info)
			}
			printSchedule(cmd, info)
			return nil
		},
	}

	keys.register(cmd)
	cmd.Flags().BoolVar(&showSBox, "sbox", false, "Also print the substitution box")

	return cmd
}

func printSchedule(cmd *cobra.Command, info *ScheduleInfo) {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold)

	cyan.Fprintf(out, "%s: %d rounds, %d schedule words\n\n", info.KeySize, info.Rounds, info.Words)

	for _, part := range []struct {
		title  string
		rounds [][]string
	}{
		{"Encryption schedule", info.Encryption},
		{"Decryption schedule", info.Decryption},
	} {
		cyan.Fprintln(out, part.title)
		for r, words := range part.rounds {
			fmt.Fprintf(out, "  %2d: %s %s %s %s\n", r, words[0], words[1], words[2], words[3])
		}
		fmt.Fprintln(out)
	}

	if len(info.SBox) > 0 {
		cyan.Fprintln(out, "S-box")
		for row, line := range info.SBox {
			fmt.Fprintf(out, "  %x0: %s\n", row, line)
		}
	}
}
