package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openmacro/npplot"
	"github.com/openmacro/npplot/config"
	"github.com/openmacro/npplot/source"
)

var (
	flagDataset    string
	flagEndDate    string
	flagDownload   bool
	flagFrwdMain   int
	flagBkwdMain   int
	flagFrwdMax    int
	flagBkwdMax    int
	flagShow       bool
	flagConfigPath string
)

var rootCmd = &cobra.Command{
	Use:   "npplot",
	Short: "Render a normalized peak plot of the last 15 U.S. recessions",
	Long: "npplot retrieves a historical series (DJIA closing values or U.S. nonfarm\n" +
		"payrolls), aligns the last 15 recessions to a shared offset-from-peak axis\n" +
		"normalized to each pre-recession peak, and renders an interactive HTML chart.",
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := buildOptions(cmd)
		if err != nil {
			return err
		}

		res, err := npplot.Run(context.Background(), opt)
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"end_date": res.EndDate.Format("2006-01-02"),
			"table":    res.TablePath,
			"report":   res.ReportPath,
			"chart":    res.ChartPath,
		}).Info("run complete")
		return nil
	},
}

func buildOptions(cmd *cobra.Command) (*npplot.Options, error) {
	var opt *npplot.Options
	switch flagDataset {
	case npplot.DatasetDJIA:
		opt = npplot.NewDefaultOptions()
	case npplot.DatasetUSEmpl:
		opt = npplot.NewDefaultPayrollOptions()
	default:
		return nil, fmt.Errorf("unknown dataset %q, expected %q or %q",
			flagDataset, npplot.DatasetDJIA, npplot.DatasetUSEmpl)
	}

	opt.EndDate = flagEndDate
	opt.Download = flagDownload
	opt.Show = flagShow

	// window flags override the per-dataset defaults only when set
	if cmd.Flags().Changed("frwd-mths-main") {
		opt.ForwardMonthsMain = flagFrwdMain
	}
	if cmd.Flags().Changed("bkwd-mths-main") {
		opt.BackwardMonthsMain = flagBkwdMain
	}
	if cmd.Flags().Changed("frwd-mths-max") {
		opt.ForwardMonthsMax = flagFrwdMax
	}
	if cmd.Flags().Changed("bkwd-mths-max") {
		opt.BackwardMonthsMax = flagBkwdMax
	}

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.DataDir != "" {
		opt.DataDir = cfg.DataDir
	}
	if cfg.ImagesDir != "" {
		opt.ImagesDir = cfg.ImagesDir
	}
	if opt.Download {
		if src := remoteOverride(flagDataset, cfg); src != nil {
			opt.Source = src
		}
	}
	return opt, nil
}

// remoteOverride builds a provider pointed at a configured endpoint, or nil
// to use the provider defaults.
func remoteOverride(dataset string, cfg *config.Config) source.Source {
	switch dataset {
	case npplot.DatasetDJIA:
		if cfg.Sources.StooqURL != "" {
			s := source.NewStooq()
			s.BaseURL = cfg.Sources.StooqURL
			return s
		}
	case npplot.DatasetUSEmpl:
		if cfg.Sources.FREDURL != "" {
			f := source.NewFRED()
			f.BaseURL = cfg.Sources.FREDURL
			return f
		}
	}
	return nil
}

func init() {
	rootCmd.Flags().StringVar(&flagDataset, "dataset", npplot.DatasetDJIA, "series to plot: djia or usempl")
	rootCmd.Flags().StringVar(&flagEndDate, "end-date", npplot.TodaySentinel, "series end date (YYYY-mm-dd) or \"today\"")
	rootCmd.Flags().BoolVar(&flagDownload, "download", true, "download from the remote provider instead of reading the local cache")
	rootCmd.Flags().IntVar(&flagFrwdMain, "frwd-mths-main", 0, "months forward from the peak in the default view")
	rootCmd.Flags().IntVar(&flagBkwdMain, "bkwd-mths-main", 0, "months backward from the peak in the default view")
	rootCmd.Flags().IntVar(&flagFrwdMax, "frwd-mths-max", 0, "months forward from the peak reachable by zooming out")
	rootCmd.Flags().IntVar(&flagBkwdMax, "bkwd-mths-max", 0, "months backward from the peak reachable by zooming out")
	rootCmd.Flags().BoolVar(&flagShow, "show", true, "open the rendered chart in a browser")
	rootCmd.Flags().StringVar(&flagConfigPath, "config", "npplot.yaml", "optional config file for directories and provider endpoints")
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
