// Command loadplan-render writes a loading plan PDF to disk using the same
// configuration, fonts and layout as the HTTP service.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"loadplan/internal/config"
	"loadplan/internal/domain"
	"loadplan/internal/render"
)

type renderFlags struct {
	configPath string
	out        string
	req        domain.DocumentRequest
}

func newRootCmd() *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:           "loadplan-render",
		Short:         "Render a loading plan PDF",
		Long:          `Renders a single loading plan with the service fonts and layout and writes it to a file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "config file (default $CONFIG_PATH or config.yaml)")
	fl.StringVarP(&f.out, "out", "o", "", "output file or directory (default: generated name in the current directory)")
	fl.StringVar(&f.req.CustomerName, "customer", "", "customer name")
	fl.StringVar(&f.req.QueueNo, "queue", "", "queue / order number")
	fl.StringVar(&f.req.ProductType, "product", "", "product type")
	fl.StringVar(&f.req.LoadDate, "date", "", "load date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	fl.StringVar(&f.req.TimeSlot, "slot", "", "time slot, e.g. 08:00-12:00")
	return cmd
}

func runRender(cmd *cobra.Command, f *renderFlags) error {
	if err := f.req.Validate(); err != nil {
		return err
	}

	var cfg config.Config
	if f.configPath != "" {
		cfg = config.LoadFrom(f.configPath)
	} else {
		cfg = config.Load()
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	assets, err := render.LoadAssets(cfg.Assets)
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}
	doc, err := render.NewComposer(assets, render.WithLocation(loc)).Render(f.req)
	if err != nil {
		return err
	}

	path := outputPath(f.out, doc.FileName)
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(doc.Data))
	return nil
}

// outputPath resolves --out: empty means the generated name in the working
// directory, an existing directory gets the generated name appended.
func outputPath(out, generated string) string {
	if out == "" {
		return generated
	}
	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		return filepath.Join(out, generated)
	}
	return out
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
