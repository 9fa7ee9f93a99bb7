package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/postprocess/internal/fields"
	"github.com/unbound-force/postprocess/internal/postprocess"
)

// WriteText writes directory results as human-readable styled text
// to the writer. Output uses lipgloss for color and formatting when
// the output is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, results []postprocess.DirResult) error {
	s := DefaultStyles()

	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeOneResult(w, result, s)
	}

	records := 0
	for _, r := range results {
		records += r.Records
	}
	fmt.Fprintf(w, "\n%s\n",
		s.Header.Render(fmt.Sprintf(
			"%d directory(ies) summarized, %d record(s)",
			len(results), records)))

	return nil
}

func writeOneResult(w io.Writer, result postprocess.DirResult, s Styles) {
	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", result.Name)))
	fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("    %s", result.Path)))
	fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("    %d KB, %d record(s)", result.SizeKB, result.Records)))

	rows := FieldRows(result.Uniq, result.Full)
	if len(rows) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    No field dumps found."))
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, FieldTable(rows, s, lipgloss.NormalBorder()))
}

// FieldRows joins the deduplicated and full manifests into
// FIELD/UNIQUE/TOTAL rows, in the order fields appear in full (or in
// uniq when full is empty).
func FieldRows(uniq, full fields.Manifest) [][]string {
	order := full
	if len(order) == 0 {
		order = uniq
	}

	rows := make([][]string, 0, len(order))
	for _, e := range order {
		u, total := "-", "-"
		if ue, ok := uniq.Lookup(e.FieldName); ok {
			u = strconv.Itoa(ue.Count)
		}
		if fe, ok := full.Lookup(e.FieldName); ok {
			total = strconv.Itoa(fe.Count)
		}
		rows = append(rows, []string{e.FieldName, u, total})
	}
	return rows
}

// FieldTable renders rows produced by FieldRows.
func FieldTable(rows [][]string, s Styles, border lipgloss.Border) *table.Table {
	return table.New().
		Border(border).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col > 0 && row >= 0 && row < len(rows) {
				n, err := strconv.Atoi(rows[row][col])
				if err == nil {
					return s.CountStyle(n)
				}
				return s.Muted
			}
			return s.TableCell
		}).
		Headers("FIELD", "UNIQUE", "TOTAL").
		Rows(rows...)
}
