package presenter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteTable prints match views as an aligned plain-text table followed by the evidence
func WriteTable(w io.Writer, location string, views []MatchView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintf(w, "No matching stores found for %s.\n", location)
		return err
	}

	if _, err := fmt.Fprintf(w, "%d match(es) for %s\n\n", len(views), location); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSTORE\tMATCH\tADDRESS")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%d%%\t%s\n", v.Rank, v.Name, v.MatchPercent, v.Address)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, v := range views {
		if len(v.MatchedSignals) == 0 && len(v.Actions) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n#%d %s\n", v.Rank, v.Name)
		for _, s := range v.MatchedSignals {
			fmt.Fprintf(w, "  - %s\n", s)
		}
		for _, a := range v.Actions {
			fmt.Fprintf(w, "  > %s: %s\n", a.Label, a.Target)
		}
	}

	_, err := fmt.Fprintln(w, strings.Repeat("-", 40))
	return err
}
