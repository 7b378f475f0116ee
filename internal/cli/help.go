package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpDescStyle = lipgloss.NewStyle().
			Foreground(warnColor).
			Italic(true)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)
)

// StyledHelpPrinter returns a kong help printer with lipgloss styling. It
// lists the commands of the root and the arguments and flags of the
// selected node.
func StyledHelpPrinter(kong.HelpOptions) kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		node := ctx.Selected()
		if node == nil {
			node = ctx.Model.Node
		}

		sb.WriteString(TitleStyle.Render("speakerman"))
		sb.WriteString("\n")
		if help := node.Help; help != "" {
			sb.WriteString(helpDescStyle.Render(help))
			sb.WriteString("\n")
		}

		sb.WriteString(SectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(node.Summary())
		sb.WriteString("\n")

		if cmds := node.Leaves(true); node == ctx.Model.Node && len(cmds) > 0 {
			sb.WriteString(SectionStyle.Render("Commands:"))
			sb.WriteString("\n")
			for _, cmd := range cmds {
				fmt.Fprintf(&sb, "  %s  %s\n", helpArgStyle.Render(fmt.Sprintf("%-10s", cmd.Name)), cmd.Help)
			}
		}

		if len(node.Positional) > 0 {
			sb.WriteString(SectionStyle.Render("Arguments:"))
			sb.WriteString("\n")
			for _, arg := range node.Positional {
				fmt.Fprintf(&sb, "  %s  %s\n", helpArgStyle.Render(arg.Summary()), arg.Help)
			}
		}

		sb.WriteString(SectionStyle.Render("Flags:"))
		sb.WriteString("\n")
		for _, line := range flagLines(node) {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}

		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

func flagLines(node *kong.Node) []string {
	lines := []string{helpFlagStyle.Render("-h, --help") + "  Show context-sensitive help."}

	for _, group := range node.AllFlags(true) {
		for _, f := range group {
			if f.Name == "help" {
				continue
			}

			name := "--" + f.Name
			if f.Short != 0 {
				name = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
			}
			if !f.IsBool() {
				placeholder := f.PlaceHolder
				if placeholder == "" {
					placeholder = f.Name
				}
				name += "=" + strings.ToUpper(placeholder)
			}

			line := helpFlagStyle.Render(name)
			if f.Help != "" {
				line += "  " + f.Help
			}
			if f.HasDefault && !f.IsBool() {
				line += " " + helpDefaultStyle.Render("(default: "+f.Default+")")
			}
			lines = append(lines, line)
		}
	}

	return lines
}
