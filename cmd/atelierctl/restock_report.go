package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/pkg/format"
)

// restockMarkdown arma el reporte de reposición en markdown, en el orden de prioridad recibido.
func restockMarkdown(items []dto.ReplenishmentSuggestionDTO, currency string, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Reposição de materiais\n\n")
	fmt.Fprintf(&b, "_Gerado em %s_\n\n", now.Format("02/01/2006 15:04"))

	if len(items) == 0 {
		b.WriteString("Nenhum material abaixo do estoque mínimo.\n")
		return b.String()
	}

	b.WriteString("| # | Material | Estoque | Mínimo | Comprar | Custo estimado |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	total := decimal.Zero
	for _, it := range items {
		fmt.Fprintf(&b, "| %d | %s | %s %s | %s | %s | %s |\n",
			it.Priority,
			strings.ReplaceAll(it.MaterialName, "|", "/"),
			it.CurrentStock.String(), it.UnitOfMeasure,
			it.MinimumStock.String(),
			it.SuggestedOrderQty.String(),
			format.Currency(it.EstimatedOrderCost, currency),
		)
		total = total.Add(it.EstimatedOrderCost)
	}
	fmt.Fprintf(&b, "\n**Total estimado:** %s\n", format.Currency(total, currency))
	return b.String()
}

type restockReportCmd struct {
	raw   bool
	width int
}

func (*restockReportCmd) Name() string     { return "restock-report" }
func (*restockReportCmd) Synopsis() string { return "muestra los materiales a reponer" }
func (*restockReportCmd) Usage() string {
	return `atelierctl restock-report [-raw] [-width 100]

  Lista los materiales en o bajo su stock mínimo con la cantidad sugerida de compra
  (mínimo × 1,5 − stock) y el costo estimado al último precio de compra.
`
}

func (c *restockReportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Imprime el markdown sin formatear.")
	f.IntVar(&c.width, "width", 100, "Ancho de línea del reporte formateado.")
}

func (c *restockReportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := openServices(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	items, err := svc.Replenishment.GenerateReplenishmentList(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	md := restockMarkdown(items, svc.cfg.Atelier.Currency, time.Now())
	if c.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(c.width))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
