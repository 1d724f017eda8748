package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/ui/style"
)

// indentStep is the extra indentation of each nesting level.
const indentStep = 2

type printer struct {
	strings.Builder
	out     *termenv.Output
	color   bool
	context int
}

func newPrinter(out *termenv.Output, context int) *printer {
	return &printer{
		out:     out,
		color:   out.Profile != termenv.Ascii,
		context: context,
	}
}

func (p *printer) line(indent int, s string) {
	p.WriteString(strings.Repeat(" ", indent))
	p.WriteString(s)
	p.WriteByte('\n')
}

func (p *printer) paint(s string, c lipgloss.Color) string {
	return p.out.String(s).Foreground(p.out.Color(string(c))).String()
}

func (p *printer) removed(s string) string { return p.paint(s, style.Red) }
func (p *printer) added(s string) string   { return p.paint(s, style.Green) }
func (p *printer) changed(s string) string { return p.paint(s, style.Yellow) }

func (p *printer) faint(s string) string {
	return p.out.String(s).Foreground(p.out.Color(string(style.Slate))).Faint().String()
}

func (p *printer) section(indent int, title string) {
	p.line(indent, p.out.String(title+":").Bold().String())
}

// multiline writes s with prefix in front of its first line and an equally
// wide blank in front of the others.
func (p *printer) multiline(indent int, prefix, s string, paint func(string) string) {
	s = strings.TrimSuffix(s, "\n")
	pad := strings.Repeat(" ", len(prefix))
	for i, l := range strings.Split(s, "\n") {
		lead := prefix
		if i > 0 {
			lead = pad
		}
		p.line(indent, paint(lead+l))
	}
}

func (p *printer) node(indent int, d *domain.StepDiff) {
	p.line(indent, p.removed(style.Minus+" "+d.Left.String()))
	p.line(indent, p.added(style.Plus+" "+d.Right.String()))

	body := indent + indentStep
	if d.Platform != nil {
		p.section(body, "Platform")
		p.stringChange(body+indentStep, d.Platform)
	}
	if d.Builder != nil {
		p.section(body, "Builder")
		p.stringChange(body+indentStep, d.Builder)
	}
	if d.Args != nil {
		p.section(body, "Arguments")
		p.script(body+indentStep, *d.Args)
	}
	if d.Env != nil {
		p.section(body, "Environment")
		p.env(body+indentStep, d.Env)
	}
	if d.Outputs != nil {
		p.section(body, "Outputs")
		p.outputs(body+indentStep, d.Outputs)
	}
	if d.Sources != nil {
		p.section(body, "Sources")
		p.sources(body+indentStep, d.Sources)
	}
	if len(d.RemovedInputs) > 0 {
		p.section(body, "Removed inputs")
		for _, in := range d.RemovedInputs {
			p.line(body+indentStep, p.removed(style.Minus+" "+in.ID.String()))
		}
	}
	if len(d.AddedInputs) > 0 {
		p.section(body, "Added inputs")
		for _, in := range d.AddedInputs {
			p.line(body+indentStep, p.added(style.Plus+" "+in.ID.String()))
		}
	}
	if len(d.ChangedInputs) > 0 {
		p.section(body, "Changed inputs")
		for _, c := range d.ChangedInputs {
			p.inputChange(body+indentStep, c)
		}
	}
}

func (p *printer) stringChange(indent int, c *domain.StringChange) {
	p.multiline(indent, style.Minus+" ", c.Old, p.removed)
	p.multiline(indent, style.Plus+" ", c.New, p.added)
}

func (p *printer) env(indent int, e *domain.EnvDiff) {
	for _, v := range e.Removed {
		p.multiline(indent, style.Minus+" ", v.Name+"="+v.Value, p.removed)
	}
	for _, v := range e.Added {
		p.multiline(indent, style.Plus+" ", v.Name+"="+v.Value, p.added)
	}
	for _, c := range e.Changed {
		p.line(indent, p.changed(style.Tilde+" "+c.Name))
		p.script(indent+indentStep, c.Value)
	}
}

func (p *printer) outputs(indent int, o *domain.OutputsDiff) {
	for _, out := range o.Removed {
		p.line(indent, p.removed(style.Minus+" "+out.Name))
	}
	for _, out := range o.Added {
		p.line(indent, p.added(style.Plus+" "+out.Name))
	}
	for _, c := range o.Changed {
		p.line(indent, p.changed(style.Tilde+" "+c.Name))
		if c.HashAlgorithm != nil {
			p.section(indent+indentStep, "Hash algorithm")
			p.stringChange(indent+2*indentStep, c.HashAlgorithm)
		}
		if c.Hash != nil {
			p.section(indent+indentStep, "Hash")
			p.stringChange(indent+2*indentStep, c.Hash)
		}
	}
}

func (p *printer) sources(indent int, s *domain.SourcesDiff) {
	for _, id := range s.Removed {
		p.line(indent, p.removed(style.Minus+" "+id.String()))
	}
	for _, id := range s.Added {
		p.line(indent, p.added(style.Plus+" "+id.String()))
	}
	for _, c := range s.Changed {
		p.line(indent, p.changed(style.Tilde+" "+c.Name))
		switch {
		case c.Binary:
			p.line(indent+indentStep, p.faint("binary contents differ"))
		case c.Content != nil:
			p.script(indent+indentStep, *c.Content)
		case c.Tree != nil:
			p.tree(indent+indentStep, c.Tree)
		default:
			p.line(indent+indentStep, p.removed(style.Minus+" "+c.Left.String()))
			p.line(indent+indentStep, p.added(style.Plus+" "+c.Right.String()))
		}
	}
}

func (p *printer) tree(indent int, t *domain.TreeDiff) {
	for _, name := range t.Removed {
		p.line(indent, p.removed(style.Minus+" "+name))
	}
	for _, name := range t.Added {
		p.line(indent, p.added(style.Plus+" "+name))
	}
	for _, name := range t.Changed {
		p.line(indent, p.changed(style.Tilde+" "+name))
	}
}

func (p *printer) inputChange(indent int, c domain.InputChange) {
	p.line(indent, p.changed(style.Tilde+" "+c.Name))

	nested := indent + indentStep
	if c.Outputs != nil {
		p.section(nested, "Consumed outputs")
		for _, name := range c.Outputs.Removed {
			p.line(nested+indentStep, p.removed(style.Minus+" "+name))
		}
		for _, name := range c.Outputs.Added {
			p.line(nested+indentStep, p.added(style.Plus+" "+name))
		}
	}
	if c.Diff != nil {
		p.node(nested, c.Diff)
	}
}
