// Package dues computes payment status from monthly payments.
package dues

import (
	"math"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
)

// MonthNames are the French month names, January first
var MonthNames = [12]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// MonthName returns the name of month m (1-12), or "" when out of range
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return MonthNames[m-1]
}

// Month is the status of one month of a member's year
type Month struct {
	MonthName  string                     `json:"monthName,omitempty"`
	Paid       bool                       `json:"paid"`
	AmountPaid float64                    `json:"amountPaid"`
	AmountDue  float64                    `json:"amountDue"`
	Remaining  float64                    `json:"remaining"`
	Payments   []*database.MonthlyPayment `json:"payments"`
}

// Summary totals a member's year
type Summary struct {
	TotalPaid  float64 `json:"totalPaid"`
	TotalDue   float64 `json:"totalDue"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// MemberYear is the month grid plus totals of one member
type MemberYear struct {
	Months map[int]*Month
	Summary
}

// MonthStatus reports whether payments cover monthlyAmount, and their sum
func MonthStatus(payments []*database.MonthlyPayment, monthlyAmount float64) (paid bool, sum float64) {
	for _, p := range payments {
		sum += p.AmountPaid
	}
	return sum >= monthlyAmount, sum
}

// Percentage returns paid/due as a percentage rounded to two decimals, 0 when nothing is due
func Percentage(paid, due float64) float64 {
	if due <= 0 {
		return 0
	}
	return Round2(paid / due * 100)
}

// Round2 rounds to two decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summarize totals payments against twelve months of monthlyAmount
func Summarize(payments []*database.MonthlyPayment, monthlyAmount float64) Summary {
	var paid float64
	for _, p := range payments {
		paid += p.AmountPaid
	}
	due := monthlyAmount * 12
	return Summary{
		TotalPaid:  paid,
		TotalDue:   due,
		Remaining:  due - paid,
		Percentage: Percentage(paid, due),
	}
}

// SummarizeMember builds the twelve-month grid of a member's payments for year
func SummarizeMember(payments []*database.MonthlyPayment, year *database.Year) *MemberYear {
	byMonth := make(map[int][]*database.MonthlyPayment, 12)
	for _, p := range payments {
		byMonth[p.Month] = append(byMonth[p.Month], p)
	}

	months := make(map[int]*Month, 12)
	for m := 1; m <= 12; m++ {
		list := byMonth[m]
		if list == nil {
			list = []*database.MonthlyPayment{}
		}
		paid, sum := MonthStatus(list, year.MonthlyAmount)
		months[m] = &Month{
			MonthName:  MonthName(m),
			Paid:       paid,
			AmountPaid: sum,
			AmountDue:  year.MonthlyAmount,
			Remaining:  math.Max(0, year.MonthlyAmount-sum),
			Payments:   list,
		}
	}

	return &MemberYear{
		Months:  months,
		Summary: Summarize(payments, year.MonthlyAmount),
	}
}

// Stats totals a year of dues
type Stats struct {
	ActiveMembersCount int64   `json:"activeMembersCount"`
	TotalPaid          float64 `json:"totalPaid"`
	TotalDue           float64 `json:"totalDue"`
	Remaining          float64 `json:"remaining"`
	Percentage         float64 `json:"percentage"`
	MembersUpToDate    int     `json:"membersUpToDate"`
	MembersLate        int     `json:"membersLate"`
}

// YearStats totals the year for the active members, each carrying its payments
// of that year. collected is the sum of every payment of the year, so money
// received from members deactivated since still counts as paid while the due
// only covers active members. A member is up to date once the whole year is paid.
func YearStats(members []*database.Member, year *database.Year, collected float64) Stats {
	st := Stats{ActiveMembersCount: int64(len(members)), TotalPaid: collected}
	memberDue := year.MonthlyAmount * 12
	for _, m := range members {
		s := Summarize(m.Payments, year.MonthlyAmount)
		if s.TotalPaid >= memberDue {
			st.MembersUpToDate++
		} else {
			st.MembersLate++
		}
	}
	st.TotalDue = memberDue * float64(len(members))
	st.Remaining = st.TotalDue - st.TotalPaid
	st.Percentage = Percentage(st.TotalPaid, st.TotalDue)
	return st
}
