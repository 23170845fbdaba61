package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ppiankov/mailfacts/internal/model"
)

// Renderer writes reports as JSON, Markdown and a terminal summary
type Renderer struct {
	includeFooter bool
	lookupBase    string
	out           io.Writer
}

// NewRenderer creates a renderer that prints summaries to stdout
func NewRenderer(includeFooter bool, lookupBase string) *Renderer {
	return &Renderer{
		includeFooter: includeFooter,
		lookupBase:    lookupBase,
		out:           os.Stdout,
	}
}

// SetOutput redirects the terminal summary
func (r *Renderer) SetOutput(w io.Writer) {
	r.out = w
}

type item struct {
	caption string
	values  []string
	lines   bool // one value per line
	lookup  bool // registration numbers get a register link each
}

type section struct {
	title string
	empty string
	items []item
}

func sections(rec model.ExtractionRecord) []section {
	a, p, c := rec.Applicant, rec.Property, rec.Company

	secs := []section{
		{
			title: "Applicant Information",
			empty: "No applicant information found",
			items: []item{
				{caption: "Names", values: a.Names},
				{caption: "Email Addresses", values: a.Emails},
				{caption: "Phone Numbers", values: a.Phones},
				{caption: "Income Information", values: a.Income},
				{caption: "Employment", values: a.Employment},
			},
		},
		{
			title: "Property Information",
			empty: "No property information found",
			items: []item{
				{caption: "Addresses", values: p.Addresses, lines: true},
				{caption: "Postcodes", values: p.Postcodes},
				{caption: "Property Values", values: p.Values},
				{caption: "Property Types", values: p.Types},
				{caption: "Detected Types", values: p.DetectedTypes},
			},
		},
		{
			title: "Company Information",
			empty: "No company information found",
			items: []item{
				{caption: "Company Names", values: c.Names},
				{caption: "Registration Number", values: c.RegistrationNumbers, lookup: true},
				{caption: "Trading As", values: c.TradingAs},
				{caption: "VAT Numbers", values: c.VATNumbers},
			},
		},
	}

	for i := range secs {
		for j := range secs[i].items {
			secs[i].items[j].values = oneLine(secs[i].items[j].values)
		}
	}
	return secs
}

// oneLine collapses whitespace runs, line breaks included, so each value
// stays inside its list item or table row.
func oneLine(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.Join(strings.Fields(v), " ")
	}
	return out
}

// WriteJSON writes the indented report to w
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// RenderJSON writes the report as JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := r.WriteJSON(f, report); err != nil {
		f.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	return f.Close()
}

// RenderMarkdown writes the report as Markdown to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown returns the Markdown rendering of the report
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	b.WriteString("# Email Analysis\n\n")
	for _, h := range headerLines(report) {
		fmt.Fprintf(&b, "- **%s:** %s\n", h[0], h[1])
	}
	b.WriteString("\n")

	for _, s := range sections(report.Record) {
		fmt.Fprintf(&b, "## %s\n\n", s.title)

		written := false
		for _, it := range s.items {
			if len(it.values) == 0 {
				continue
			}
			written = true

			switch {
			case it.lookup:
				for _, v := range it.values {
					fmt.Fprintf(&b, "- **%s:** %s ([Search Companies House](%s))\n", it.caption, v, CompaniesHouseURL(r.lookupBase, v))
				}
			case it.lines:
				fmt.Fprintf(&b, "- **%s:**\n", it.caption)
				for _, v := range it.values {
					fmt.Fprintf(&b, "  - %s\n", v)
				}
			default:
				fmt.Fprintf(&b, "- **%s:** %s\n", it.caption, strings.Join(it.values, ", "))
			}
		}

		if !written {
			fmt.Fprintf(&b, "_%s_\n", s.empty)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "_Report %s generated by mailfacts. Facts are pattern matches over the message text; check them before relying on them._\n", report.ID)
	}

	return b.String()
}

// RenderSummary prints a compact terminal summary
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Fprintln(r.out, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(r.out, "  Email Analysis")
	fmt.Fprintln(r.out, "═══════════════════════════════════════════════════════════")

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	for _, h := range headerLines(report) {
		fmt.Fprintf(tw, "  %s:\t%s\n", h[0], h[1])
	}
	tw.Flush()

	for _, s := range sections(report.Record) {
		fmt.Fprintf(r.out, "\n%s\n", s.title)

		tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
		written := false
		for _, it := range s.items {
			if len(it.values) == 0 {
				continue
			}
			written = true

			if it.lookup {
				for _, v := range it.values {
					fmt.Fprintf(tw, "  %s:\t%s  %s\n", it.caption, v, CompaniesHouseURL(r.lookupBase, v))
				}
				continue
			}
			sep := ", "
			if it.lines {
				sep = "; "
			}
			fmt.Fprintf(tw, "  %s:\t%s\n", it.caption, strings.Join(it.values, sep))
		}
		tw.Flush()

		if !written {
			fmt.Fprintf(r.out, "  %s\n", s.empty)
		}
	}
	fmt.Fprintln(r.out)
}

func headerLines(report *model.Report) [][2]string {
	subject := "No subject"
	var lines [][2]string

	info := report.Message
	if info != nil && info.Subject != "" {
		subject = info.Subject
	}
	lines = append(lines, [2]string{"Subject", subject})

	if info != nil {
		if info.From != "" {
			lines = append(lines, [2]string{"From", info.From})
		}
		if info.Date != "" {
			lines = append(lines, [2]string{"Date", info.Date})
		}
		if len(info.Attachments) > 0 {
			lines = append(lines, [2]string{"Attachments", strings.Join(info.Attachments, ", ")})
		}
	}

	if report.Source != "" {
		lines = append(lines, [2]string{"Source", report.Source})
	}
	if !report.AnalyzedAt.IsZero() {
		lines = append(lines, [2]string{"Analyzed", report.AnalyzedAt.Format(time.RFC3339)})
	}

	return lines
}
