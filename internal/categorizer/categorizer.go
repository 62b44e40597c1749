// Package categorizer maps free-text expense descriptions onto the fixed
// category set using keyword containment.
package categorizer

import (
	"strings"

	"gastos/internal/core"
)

// Rule binds a category to the keyword fragments that select it.
type Rule struct {
	Category core.Category
	Keywords []string
}

// defaultRules are evaluated in order; the first rule with a matching keyword
// wins. Outros has no keywords and is returned as the explicit fallback.
var defaultRules = []Rule{
	{core.Alimentacao, []string{"ifood", "mcdonalds", "pizza", "lanche", "mercado", "supermercado", "padaria", "café", "restaurante"}},
	{core.Transporte, []string{"uber", "99", "ônibus", "metro", "combustível", "gasolina"}},
	{core.Lazer, []string{"cinema", "spotify", "netflix", "show", "jogo"}},
	{core.Moradia, []string{"aluguel", "condomínio", "luz", "água", "internet"}},
	{core.Saude, []string{"farmácia", "remédio", "consulta", "dentista"}},
	{core.Educacao, []string{"curso", "faculdade", "livro"}},
}

// Categorizer classifies descriptions. The zero value is not usable; call New.
type Categorizer struct {
	rules    []Rule
	fallback core.Category
}

// New creates a Categorizer with the built-in rule table.
func New() *Categorizer {
	return &Categorizer{rules: defaultRules, fallback: core.Outros}
}

// Classify returns the category of description. It never fails.
func (c *Categorizer) Classify(description string) core.Category {
	text := strings.ToLower(description)
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				return rule.Category
			}
		}
	}
	return c.fallback
}

// Rules returns a copy of the rule table, fallback excluded.
func (c *Categorizer) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Fallback returns the category used when no keyword matches.
func (c *Categorizer) Fallback() core.Category {
	return c.fallback
}
