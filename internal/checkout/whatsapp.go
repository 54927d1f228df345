// Package checkout renders carts and product selections into WhatsApp deep
// links with pre-filled text. Link building is deterministic: the same input
// always produces the same URL.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vitrinedecor/catalogo/internal/cart"
)

// DefaultTemplate is used when a product carries no template of its own.
const DefaultTemplate = "Olá! Gostei do item {label}. Quero um desse."

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatCurrency renders a price the way the storefront shows it.
func FormatCurrency(v float64) string {
	return ptBR.Sprintf("R$ %.2f", v)
}

// cleanPhone strips everything but digits from the configured contact number.
func cleanPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func link(phone, text string) string {
	// percent-encoded, %20 for spaces as messaging clients expect
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + cleanPhone(phone) + "?text=" + encoded
}

// BuildMessage composes the single-product message. {label} is substituted
// with the label (empty when absent). A chosen color substitutes {color} when
// the template has the placeholder, otherwise it is appended as a suffix.
func BuildMessage(template, label, color string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}
	text := strings.Replace(template, "{label}", label, 1)
	if color != "" {
		if strings.Contains(text, "{color}") {
			text = strings.Replace(text, "{color}", color, 1)
		} else {
			text = fmt.Sprintf("%s — Cor: %s", text, color)
		}
	}
	return text
}

// BuildLink builds the per-product deep link for the configured contact.
func BuildLink(phone, template, label, color string) string {
	return link(phone, BuildMessage(template, label, color))
}

// BuildCartMessage composes the label-list message: a generic interest note
// for an empty selection, singular phrasing for one item, plural for several.
func BuildCartMessage(labels []string) string {
	switch len(labels) {
	case 0:
		return "Olá, tenho interesse em alguns produtos do catálogo."
	case 1:
		return fmt.Sprintf("Olá! Gostei do item %s. Quero um desse.", labels[0])
	default:
		return fmt.Sprintf("Olá! Gostei dos itens: %s. Vou querer todos.", strings.Join(labels, ", "))
	}
}

func BuildCartLink(phone string, labels []string) string {
	return link(phone, BuildCartMessage(labels))
}

// BuildOrderMessage composes the full order text from resolved cart lines:
// one row per line with color, quantity and subtotal, then the bold total and
// the availability/payment question.
func BuildOrderMessage(lines []cart.Line) string {
	items := make([]string, 0, len(lines))
	for _, l := range lines {
		colorText := ""
		if l.Entry.Color != "" {
			colorText = " - cor: " + l.Entry.Color
		}
		subtotal := l.Product.Price * float64(l.Entry.Qty)
		items = append(items, fmt.Sprintf("%s%s (%dx - %s)", l.Product.Name, colorText, l.Entry.Qty, FormatCurrency(subtotal)))
	}
	return fmt.Sprintf(
		"Olá! Gostaria de fazer um pedido com os seguintes itens:\n\n%s\n\n*Total: %s*\n\nPor favor, me informe sobre a disponibilidade e formas de pagamento.",
		strings.Join(items, "\n"), FormatCurrency(cart.Total(lines)))
}

func BuildOrderLink(phone string, lines []cart.Line) string {
	return link(phone, BuildOrderMessage(lines))
}
