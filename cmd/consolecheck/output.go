package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	metricsstore "github.com/dalemusser/opsconsole/internal/app/store/metrics"
	"github.com/dalemusser/opsconsole/internal/app/system/derive"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

func checkFormat(f string) error {
	switch f {
	case formatText, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text or yaml)", f)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

type countsReport struct {
	Tables []metricsstore.TableCount `yaml:"tables"`
	Total  int64                     `yaml:"total"`
}

func writeCounts(w io.Writer, format string, counts []metricsstore.TableCount) error {
	if format == formatYAML {
		return writeYAML(w, countsReport{Tables: counts, Total: metricsstore.Total(counts)})
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tCOUNT")
	for _, c := range counts {
		if c.Err != nil {
			fmt.Fprintf(tw, "%s\t%d\t(error: %v)\n", c.Table, c.Count, c.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\n", c.Table, c.Count)
	}
	fmt.Fprintf(tw, "total\t%d\n", metricsstore.Total(counts))
	return tw.Flush()
}

type purchaseReport struct {
	Window string              `yaml:"window"`
	APIs   []derive.UsageByAPI `yaml:"apis"`
	Calls  int                 `yaml:"calls"`
}

func writePurchase(w io.Writer, format string, rep purchaseReport) error {
	if format == formatYAML {
		return writeYAML(w, rep)
	}
	fmt.Fprintf(w, "telco API usage, last %s\n", rep.Window)
	if len(rep.APIs) == 0 {
		fmt.Fprintln(w, "no usage recorded")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "API\tCALLS\tOK\tSUCCESS %\tAVG MS")
	for _, u := range rep.APIs {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%.1f\n", u.APIName, u.Calls, u.Successful, u.SuccessRate, u.AvgLatencyMS)
	}
	fmt.Fprintf(tw, "total\t%d\t\t\t\n", rep.Calls)
	return tw.Flush()
}
