package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"transit/midi"
	"transit/serialosc"
)

var portsTimeout time.Duration

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports and serialosc grids",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "MIDI inputs:")
		ins, outs, err := midi.Ports(portsTimeout)
		if err != nil {
			fmt.Fprintf(out, "  (%v)\n", err)
		}
		printPorts(cmd, ins)
		fmt.Fprintln(out, "MIDI outputs:")
		printPorts(cmd, outs)

		fmt.Fprintln(out, "serialosc grids:")
		ctx, cancel := context.WithTimeout(cmd.Context(), portsTimeout)
		defer cancel()
		devices, err := serialosc.Discover(ctx, serialosc.Config{
			Host:    cfg.SerialOSC.Host,
			Port:    cfg.SerialOSC.Port,
			Timeout: portsTimeout,
		})
		if err != nil {
			fmt.Fprintf(out, "  (%v)\n", err)
			return nil
		}
		if len(devices) == 0 {
			fmt.Fprintln(out, "  none")
		}
		for _, d := range devices {
			fmt.Fprintf(out, "  %-12s %-20s port %d\n", d.ID, d.Type, d.Port)
		}
		return nil
	},
}

func printPorts(cmd *cobra.Command, names []string) {
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "  none")
		return
	}
	m := midi.NewDeviceManager(midi.Options{PortName: cfg.Launchpad.PortName})
	for i, name := range names {
		mark := " "
		if m.Matches(name) {
			mark = "*"
		}
		fmt.Fprintf(out, " %s%2d: %s\n", mark, i, name)
	}
}

func init() {
	portsCmd.Flags().DurationVar(&portsTimeout, "timeout", 3*time.Second, "how long to wait for the MIDI backend and serialosc")
	rootCmd.AddCommand(portsCmd)
}
