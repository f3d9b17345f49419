package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/codeGROOVE-dev/estcalc/internal/session"
	"github.com/codeGROOVE-dev/estcalc/pkg/cost"
)

// Human writes an itemized, styled report.
func Human(w io.Writer, r session.Report) error {
	var b strings.Builder
	switch rep := r.(type) {
	case session.CoDReport:
		humanCoD(&b, rep)
	case session.FPAReport:
		humanFPA(&b, rep)
	case session.PERTReport:
		humanPERT(&b, rep)
	default:
		return fmt.Errorf("unsupported report type %T", r)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func banner(b *strings.Builder, title string) {
	fmt.Fprintln(b, titleStyle.Render(title))
	fmt.Fprintln(b, mutedStyle.Render(strings.Repeat("=", len(title))))
	fmt.Fprintln(b)
}

func humanCoD(b *strings.Builder, r session.CoDReport) {
	banner(b, "COST OF DELAY PRIORITIES")
	fmt.Fprintln(b, headStyle.Render(fmt.Sprintf("  %-4s %-28s %8s %5s %5s %5s %5s %8s",
		"#", "Feature", "Effort", "User", "Time", "Risk", "CoD", "WSJF")))
	for i, it := range r.Items {
		wsjf := "-"
		if it.WSJF != 0 {
			wsjf = fmt.Sprintf("%.2f", it.WSJF)
		}
		fmt.Fprintf(b, "  %-4d %-28s %8.2f %5d %5d %5d %5d %8s\n",
			i+1, it.Title, it.Effort, it.User, it.Time, it.Risk, it.CoD, wsjf)
	}
	if len(r.Items) == 0 {
		fmt.Fprintln(b, mutedStyle.Render("  (no features)"))
	}
}

func humanFPA(b *strings.Builder, r session.FPAReport) {
	banner(b, "FUNCTION POINT ANALYSIS")
	fmt.Fprintln(b, headStyle.Render(fmt.Sprintf("  %-28s %-4s %5s %5s %5s %-5s %5s",
		"Function", "Type", "DET", "RET", "FTR", "Cpx", "UFP")))
	for _, it := range r.Items {
		fmt.Fprintf(b, "  %-28s %-4s %5d %5d %5d %-5s %5d\n",
			it.Name, it.Type, it.DET, it.RET, it.FTR, it.Complexity, it.UFP)
	}

	if len(r.Characteristics) > 0 {
		fmt.Fprintln(b)
		fmt.Fprintln(b, headStyle.Render("  GENERAL SYSTEM CHARACTERISTICS"))
		names := make([]string, 0, len(r.Characteristics))
		for name := range r.Characteristics {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(b, "    %-32s %3d\n", name, r.Characteristics[name])
		}
	}

	fmt.Fprintln(b, "  ---")
	fmt.Fprintf(b, "  Unadjusted Function Points  %10d\n", r.Result.UFP)
	fmt.Fprintf(b, "  Value Adjustment Factor     %10.2f\n", r.Result.VAF)
	fmt.Fprintln(b, totalStyle.Render(fmt.Sprintf("  Function Points             %10.2f", r.Result.FP)))

	if r.Effort != nil {
		fmt.Fprintln(b)
		fmt.Fprintln(b, headStyle.Render("  EFFORT (COCOMO II)"))
		fmt.Fprintf(b, "    Lines of Code             %10.0f\n", r.Effort.LOC)
		fmt.Fprintf(b, "    Effort                    %10.2f hrs\n", r.Effort.Hours)
		if r.Effort.Cost != nil {
			humanCost(b, "    Cost", *r.Effort.Cost)
		}
	}
}

func humanPERT(b *strings.Builder, r session.PERTReport) {
	banner(b, "PERT ESTIMATE")
	fmt.Fprintln(b, headStyle.Render(fmt.Sprintf("  %-28s %8s %8s %8s %8s %8s",
		"Task", "O", "M", "P", "Effort", "Error")))
	for _, it := range r.Items {
		fmt.Fprintf(b, "  %-28s %8.2f %8.2f %8.2f %8.2f %8.2f\n",
			it.Name, it.Optimistic, it.MostLikely, it.Pessimistic, it.Effort, it.Error)
	}
	fmt.Fprintln(b, "  ---")
	fmt.Fprintf(b, "  Expected Effort             %10.2f\n", r.Result.Effort)
	fmt.Fprintf(b, "  Combined Error              %10.2f\n", r.Result.Error)
	fmt.Fprintln(b, totalStyle.Render(fmt.Sprintf("  E95                         %10.2f", r.Result.E95)))

	grade := fmt.Sprintf("  Confidence                  %10s   (%s)", r.Grade, r.GradeMessage)
	if r.Grade == "D" || r.Grade == "F" {
		fmt.Fprintln(b, warnStyle.Render(grade))
	} else {
		fmt.Fprintln(b, grade)
	}

	if r.Cost != nil {
		fmt.Fprintln(b)
		fmt.Fprintln(b, headStyle.Render("  COST"))
		humanCost(b, "    Expected", r.Cost.Expected)
		humanCost(b, "    E95", r.Cost.E95)
	}
}

func humanCost(b *strings.Builder, label string, c cost.Breakdown) {
	fmt.Fprintf(b, "%-30s $%10.2f   (%.2f hrs @ $%.2f/hr)\n", label, c.TotalCost, c.Hours, c.HourlyRate)
}
