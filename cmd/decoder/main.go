// Command decoder disassembles or simulates a raw 8086 machine-code image.
package main

import (
	"fmt"
	"os"

	"github.com/oisee/x86decoder/pkg/cpu"
	"github.com/oisee/x86decoder/pkg/decode"
	"github.com/oisee/x86decoder/pkg/inst"
	"github.com/spf13/cobra"
)

func main() {
	var execMode bool
	var dumpImage bool
	var cycleEstimate bool

	rootCmd := &cobra.Command{
		Use:   "decoder <image-path>",
		Short: "Decode or simulate a raw 8086 instruction stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("decoder: reading %s: %w", args[0], err)
			}
			if execMode {
				return runSimulate(image, dumpImage)
			}
			return runDecode(image, cycleEstimate)
		},
	}

	rootCmd.Flags().BoolVar(&execMode, "exec", false, "simulate execution instead of printing a listing")
	rootCmd.Flags().BoolVar(&dumpImage, "image", false, "dump final memory to image.bin (simulate mode only)")
	rootCmd.Flags().BoolVar(&cycleEstimate, "cycle-estimate", false, "append a running cycle-count estimate (decode mode only)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDecode implements the decode-mode driver loop (spec §4.7).
func runDecode(image []byte, cycleEstimate bool) error {
	fmt.Println("bits 16")

	cur := decode.NewCursor(image)
	total := 0
	for !cur.Empty() {
		instr, err := decode.Decode(cur)
		if err != nil {
			return err
		}
		line, err := decode.Print(instr)
		if err != nil {
			return err
		}
		if cycleEstimate {
			cycles, err := inst.Estimate(instr)
			if err != nil {
				return err
			}
			total += cycles
			fmt.Printf("%s ; +%d = %d\n", line, cycles, total)
		} else {
			fmt.Println(line)
		}
	}
	if cycleEstimate {
		fmt.Printf("Total cycles: %d\n", total)
	}
	return nil
}

// runSimulate implements the simulate-mode driver loop (spec §4.7).
func runSimulate(image []byte, dumpImage bool) error {
	s := cpu.NewState()

	for int(s.Reg(inst.RegIP)) < len(image) {
		ip := s.Reg(inst.RegIP)
		cur := decode.NewCursor(image[ip:])
		instr, err := decode.Decode(cur)
		if err != nil {
			return err
		}
		line, err := decode.Print(instr)
		if err != nil {
			return err
		}
		fmt.Println(line)

		jumpOff, err := cpu.Exec(s, instr)
		if err != nil {
			return err
		}
		s.SetReg(inst.RegIP, uint16(int(ip)+instr.Length+int(jumpOff)))
	}

	printFinalState(s)

	if dumpImage {
		if err := os.WriteFile("image.bin", s.Mem[:], 0o644); err != nil {
			return fmt.Errorf("decoder: writing image.bin: %w", err)
		}
	}
	return nil
}

func printFinalState(s *cpu.State) {
	fmt.Println("Final registers:")
	order := []struct {
		name string
		id   inst.RegID
	}{
		{"ax", inst.RegA}, {"bx", inst.RegB}, {"cx", inst.RegC}, {"dx", inst.RegD},
		{"sp", inst.RegSP}, {"bp", inst.RegBP}, {"si", inst.RegSI}, {"di", inst.RegDI},
		{"ip", inst.RegIP},
	}
	for _, r := range order {
		v := s.Reg(r.id)
		fmt.Printf("      %s: 0x%04X (%d)\n", r.name, v, v)
	}
	fmt.Printf("   flags: %s\n", s.Flags.Letters())
}
