// Package termview renders dashboard view models as markdown for the terminal.
package termview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"portfolio_dashboard/internal/app/view"
)

// Styles accepted by Render.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// DashboardMarkdown renders the portfolio dashboard as markdown.
func DashboardMarkdown(d view.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)

	if !d.Connected {
		fmt.Fprintf(&b, "> %s\n", d.Prompt)
		return b.String()
	}

	if d.Error != "" {
		fmt.Fprintf(&b, "**%s**\n\n", d.Error)
	}
	fmt.Fprintf(&b, "Account: `%s`\n\n", d.Account)

	fmt.Fprintf(&b, "## SOL Balance Information\n\n")
	if d.Loading {
		fmt.Fprintf(&b, "%s\n\n", d.Balance)
	} else {
		fmt.Fprintf(&b, "**%s**\n\nCurrent Network: %s\n\n", d.Balance, d.Network)
	}

	fmt.Fprintf(&b, "## Token Holdings & Assets\n\n")
	if d.NoTokens != "" {
		fmt.Fprintf(&b, "%s\n\n", d.NoTokens)
	} else {
		fmt.Fprintln(&b, "| Token | Mint | Amount | UI Amount |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|")
		for _, t := range d.Tokens {
			fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n", t.Symbol, t.MintShort, t.Amount, t.UIAmount)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintf(&b, "## Total Portfolio Value\n\n**$%s**\n", d.TotalValue)
	return b.String()
}

// AccountMarkdown renders the account detail page as markdown.
func AccountMarkdown(p view.AccountPage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	fmt.Fprintf(&b, "[%s](%s) (%s, %s)\n\n", p.AddressShort, p.ExplorerURL, p.Kind, p.Network)

	fmt.Fprintf(&b, "## SOL Balance\n\n")
	section(&b, p.BalanceError, "", func() {
		fmt.Fprintf(&b, "**%s**\n\n", p.Balance)
	})

	fmt.Fprintf(&b, "## Token Holdings & Assets\n\n")
	section(&b, p.TokensError, p.TokensEmpty, func() {
		fmt.Fprintln(&b, "| Account | Mint | Balance |")
		fmt.Fprintln(&b, "|:---|:---|---:|")
		for _, t := range p.Tokens {
			fmt.Fprintf(&b, "| `%s` | `%s` | %s |\n", t.PubkeyShort, t.MintShort, t.Amount)
		}
		fmt.Fprintln(&b)
	})

	fmt.Fprintf(&b, "## Transaction History\n\n")
	section(&b, p.TransactionsError, p.TransactionsEmpty, func() {
		fmt.Fprintln(&b, "| Signature | Slot | Block Time | Result |")
		fmt.Fprintln(&b, "|:---|---:|:---|:---|")
		for _, tx := range p.Transactions {
			fmt.Fprintf(&b, "| `%s` | %d | %s | %s |\n", tx.SignatureShort, tx.Slot, tx.Time, tx.Status)
		}
		fmt.Fprintln(&b)
	})
	return b.String()
}

func section(b *strings.Builder, errText, emptyText string, body func()) {
	switch {
	case errText != "":
		fmt.Fprintf(b, "**%s**\n\n", errText)
	case emptyText != "":
		fmt.Fprintf(b, "%s\n\n", emptyText)
	default:
		body()
	}
}

// Render formats markdown for the terminal with the given glamour style.
// A non-positive width disables word wrapping.
func Render(markdown, style string, width int) (string, error) {
	if style == "" {
		style = StyleAuto
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
