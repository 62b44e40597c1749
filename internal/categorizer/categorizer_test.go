package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gastos/internal/core"
)

func TestClassify(t *testing.T) {
	c := New()
	tests := []struct {
		desc string
		want core.Category
	}{
		{"Café", core.Alimentacao},
		{"PIZZA com amigos", core.Alimentacao},
		{"Uber", core.Transporte},
		{"corrida 99", core.Transporte},
		{"Ônibus", core.Transporte},
		{"Netflix", core.Lazer},
		{"Aluguel março", core.Moradia},
		{"conta de luz", core.Moradia},
		{"Farmácia", core.Saude},
		{"Livro de Go", core.Educacao},
		{"blah", core.Outros},
		{"", core.Outros},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.desc))
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	c := New()
	// "uber" (Transporte) and "pizza" (Alimentação): Alimentação is earlier.
	assert.Equal(t, core.Alimentacao, c.Classify("uber para a pizzaria"))
	// "show" (Lazer) and "internet" (Moradia): Lazer is earlier.
	assert.Equal(t, core.Lazer, c.Classify("internet do show"))
}

func TestClassifyDeterministic(t *testing.T) {
	c := New()
	for i := 0; i < 50; i++ {
		assert.Equal(t, core.Transporte, c.Classify("gasolina e metro"))
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	c := New()
	rules := c.Rules()
	rules[0].Keywords[0] = "mutated"
	assert.Equal(t, core.Outros, c.Classify("mutated"))
	assert.Equal(t, core.Outros, c.Fallback())
	assert.Len(t, rules, len(core.Categories())-1)
}
