package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
	cellStyle    = lipgloss.NewStyle().PaddingRight(2)
)

// Output renders command results. Data goes to w, messages to errW.
type Output struct {
	jsonMode bool
	w        io.Writer
	errW     io.Writer
}

// NewOutput creates an Output. In JSON mode data is printed as indented JSON.
func NewOutput(jsonMode bool, w, errW io.Writer) *Output {
	return &Output{jsonMode: jsonMode, w: w, errW: errW}
}

// Print writes a table, or jsonData in JSON mode.
func (o *Output) Print(headers []string, rows [][]string, jsonData any) error {
	if o.jsonMode {
		return o.JSON(jsonData)
	}
	o.Table(headers, rows)
	return nil
}

// Table writes rows as aligned columns. Column widths are measured on the
// rendered cells so styled statuses line up.
func (o *Output) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		rendered := make([]string, len(cells))
		for i, cell := range cells {
			if style != nil {
				cell = style.Render(cell)
			}
			if i < len(cells)-1 {
				cell = cellStyle.Width(widths[i] + 2).Render(cell)
			}
			rendered[i] = cell
		}
		return strings.Join(rendered, "")
	}

	fmt.Fprintln(o.w, line(headers, &headerStyle))
	for _, row := range rows {
		fmt.Fprintln(o.w, line(row, nil))
	}
}

// JSON writes v as indented JSON.
func (o *Output) JSON(v any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Raw writes raw JSON, indented when possible.
func (o *Output) Raw(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		_, err = o.w.Write(data)
		return err
	}
	return o.JSON(v)
}

// Lines writes each line to the data stream.
func (o *Output) Lines(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(o.w, line)
	}
}

// Success writes msg to the message stream.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, successStyle.Render(msg))
}

// Error writes err and an optional hint to the message stream.
func (o *Output) Error(err error, hint string) {
	fmt.Fprintln(o.errW, failureStyle.Render("Error:")+" "+err.Error())
	if hint != "" {
		fmt.Fprintln(o.errW, hintStyle.Render(hint))
	}
}

// Status renders a workflow status coloured by outcome.
func Status(s models.WorkflowStatus) string {
	switch {
	case s == models.StatusSucceeded:
		return successStyle.Render(s.String())
	case s.IsFailure(), s == models.StatusTimedOut:
		return failureStyle.Render(s.String())
	default:
		return pendingStyle.Render(s.String())
	}
}
