// Package reply renders interpreter results as the Portuguese text sent back
// to the user.
package reply

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gastos/internal/core"
	"gastos/internal/interpreter"
)

const (
	EmptyLedger      = "Nenhum gasto registrado ainda."
	NoMonthExpenses  = "Nenhum gasto neste mês."
	Duplicate        = "Esse gasto já foi registrado."
	InvalidFormat    = "Formato inválido. Use: descrição - valor (ex: Café - 10.50)"
	StorageError     = "Não foi possível acessar o registro de gastos. Tente novamente."
	InternalError    = "Erro interno. Tente novamente mais tarde."
	RateLimited      = "Muitas mensagens. Tente novamente em instantes."
	RecentHeader     = "Últimos gastos:"
	TotalTodayPrefix = "Total gasto hoje: "
	TotalMonthPrefix = "Total gasto no mês: "
	RecordedPrefix   = "Gasto registrado: "
)

// Help lists the available commands.
const Help = `Comandos disponíveis:
- registrar gasto: descrição - valor (ex: Café - 10.50)
- listar: mostra últimos 5 gastos
- total hoje: soma dos gastos de hoje
- total mês: soma dos gastos do mês
- total categorias: mostra total por categoria do mês
- ajuda / help: mostra esta mensagem`

// ErrUnknownResult is returned for a result kind with no rendering.
var ErrUnknownResult = errors.New("unknown result kind")

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthName returns the lower-case Portuguese name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return strings.ToLower(m.String())
	}
	return monthNames[m-1]
}

// Format renders res.
func Format(res interpreter.Result) (string, error) {
	switch res.Kind {
	case interpreter.KindEmptyLedger:
		return EmptyLedger, nil
	case interpreter.KindRecent:
		if len(res.Records) == 0 {
			return EmptyLedger, nil
		}
		lines := make([]string, 0, len(res.Records)+1)
		lines = append(lines, RecentHeader)
		for _, e := range res.Records {
			lines = append(lines, fmt.Sprintf("%s: %s", e.FormattedTimestamp(), entry(e)))
		}
		return strings.Join(lines, "\n"), nil
	case interpreter.KindTotalToday:
		return TotalTodayPrefix + core.FormatMoney(res.Total), nil
	case interpreter.KindTotalMonth:
		return TotalMonthPrefix + core.FormatMoney(res.Total), nil
	case interpreter.KindNoMonthExpenses:
		return NoMonthExpenses, nil
	case interpreter.KindByCategory:
		if len(res.Categories) == 0 {
			return NoMonthExpenses, nil
		}
		lines := make([]string, 0, len(res.Categories)+1)
		lines = append(lines, fmt.Sprintf("Gastos por categoria em %s:", MonthName(res.Now.Month())))
		for _, c := range res.Categories {
			lines = append(lines, fmt.Sprintf("- %s: %s", c.Category, core.FormatMoney(c.Amount)))
		}
		return strings.Join(lines, "\n"), nil
	case interpreter.KindHelp:
		return Help, nil
	case interpreter.KindRecorded:
		return RecordedPrefix + entry(res.Expense), nil
	case interpreter.KindDuplicate:
		return Duplicate, nil
	case interpreter.KindInvalidFormat:
		return InvalidFormat, nil
	case interpreter.KindStorageError:
		return StorageError, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownResult, res.Kind)
	}
}

// entry renders "desc - R$amount (category)".
func entry(e core.Expense) string {
	return fmt.Sprintf("%s - %s (%s)", e.Description, core.FormatMoney(e.Amount), e.Category)
}
