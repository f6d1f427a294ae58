// Package transfer reads and writes the member lists and statistics exchanged as files.
package transfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/dues"
)

// Headers of the exported files
var (
	MembersHeader    = []string{"Nom", "Champ personnalisé", "Téléphone", "Actif"}
	StatisticsHeader = []string{"Nom", "Champ personnalisé", "Dû (FCFA)", "Payé (FCFA)", "Reste (FCFA)", "Pourcentage"}
)

// StatRow is one member line of the year statistics
type StatRow struct {
	Name             string
	CustomFieldValue string
	Due              float64
	Paid             float64
	Remaining        float64
	Percentage       float64
}

// BuildStatRows summarizes members, each carrying its payments of year
func BuildStatRows(members []*database.Member, year *database.Year) []StatRow {
	rows := make([]StatRow, 0, len(members))
	for _, m := range members {
		s := dues.Summarize(m.Payments, year.MonthlyAmount)
		rows = append(rows, StatRow{
			Name:             m.Name,
			CustomFieldValue: m.CustomFieldValue,
			Due:              s.TotalDue,
			Paid:             s.TotalPaid,
			Remaining:        s.Remaining,
			Percentage:       s.Percentage,
		})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercentage renders a percentage as NN.NN%
func FormatPercentage(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// WriteMembersCSV writes users of role MEMBER that carry a profile. Cells never
// contain the import separator.
func WriteMembersCSV(w io.Writer, users []*database.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MembersHeader); err != nil {
		return err
	}
	for _, u := range users {
		if u.Member == nil {
			continue
		}
		record := []string{cell(u.Member.Name), cell(u.Member.CustomFieldValue), cell(database.StringValue(u.Phone)), yesNo(u.Active)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatisticsCSV writes the year statistics rows
func WriteStatisticsCSV(w io.Writer, rows []StatRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StatisticsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			cell(r.Name),
			cell(r.CustomFieldValue),
			formatAmount(r.Due),
			formatAmount(r.Paid),
			formatAmount(r.Remaining),
			FormatPercentage(r.Percentage),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
