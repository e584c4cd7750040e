package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// WriteRulesCSV writes rules with an
// Antecedent,Consequent,Support,Confidence,Lift header. Items within a side
// are comma-joined and metrics use four decimals.
func WriteRulesCSV(w io.Writer, rules []mining.Rule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Antecedent", "Consequent", "Support", "Confidence", "Lift"}); err != nil {
		return err
	}
	for _, r := range rules {
		row := []string{
			strings.Join(r.Antecedent, itemSep),
			strings.Join(r.Consequent, itemSep),
			formatMetric(r.Support),
			formatMetric(r.Confidence),
			formatMetric(r.Lift),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteItemsetsCSV writes the frequent itemsets of record with an
// Itemset,Size,Count,Support header, in the record's order.
func WriteItemsetsCSV(w io.Writer, record *mining.SupportRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Itemset", "Size", "Count", "Support"}); err != nil {
		return err
	}
	if record != nil {
		for _, e := range record.Entries() {
			row := []string{
				strings.Join(e.Itemset, itemSep),
				strconv.Itoa(e.Itemset.Len()),
				strconv.Itoa(e.Count),
				formatMetric(e.Support),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
