// ABOUTME: Lists compiled-in audio output backends and tries each one
// ABOUTME: Reports which backend the dispatcher would pick on this machine
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/decred/slog"

	"github.com/Resonate-Protocol/pcaudio-go/internal/version"
	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio/output"
)

var (
	device  = flag.String("device", "", "Device name passed to each backend")
	verbose = flag.Bool("v", false, "Log availability checks to stderr")
)

func main() {
	flag.Parse()

	if *verbose {
		logger := slog.NewBackend(os.Stderr).Logger("AOUT")
		logger.SetLevel(slog.LevelDebug)
		output.UseLogger(logger)
	}

	cfg := output.DefaultConfig()
	cfg.Device = *device
	cfg.ApplicationName = version.Product + "-backends"

	factories := output.Registered()
	if len(factories) == 0 {
		fmt.Println("No backends compiled in")
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRIORITY\tBACKEND\tRESULT")

	selected := ""
	for _, f := range factories {
		b, err := f.New(cfg)
		if err != nil {
			fmt.Fprintf(w, "%d\t%s\tunavailable: %v\n", f.Priority, f.Name, err)
			continue
		}
		b.Destroy()

		result := "available"
		if selected == "" {
			selected = f.Name
			result += " (selected)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", f.Priority, f.Name, result)
	}
	w.Flush()

	if selected == "" {
		fmt.Println()
		fmt.Println(output.ErrNoDevice)
		os.Exit(1)
	}
}
