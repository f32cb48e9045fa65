package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/fakturi-api/internal/domain/totals"
)

type totalsOptions struct {
	kind     string
	vat      string
	discount string
	items    []string
}

func newTotalsCmd() *cobra.Command {
	opts := totalsOptions{}
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Calcula subtotal, ДДС y total de un documento",
		Example: `  # Factura con dos líneas (cantidad:precio[:descuento%])
  fakturictl totals --item 2:10.50 --item 1:100:10

  # Venta con descuento global del 5%
  fakturictl totals --kind sale --discount 5 --item 3:19.99`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTotals(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.kind, "kind", string(totals.KindInvoice), "invoice o sale")
	cmd.Flags().StringVar(&opts.vat, "vat", "0.20", "tasa de ДДС (0.20 = 20%)")
	cmd.Flags().StringVar(&opts.discount, "discount", "0", "descuento global en % (solo ventas)")
	cmd.Flags().StringArrayVar(&opts.items, "item", nil, "línea cantidad:precio[:descuento%]; repetible")
	return cmd
}

func runTotals(w io.Writer, opts totalsOptions) error {
	kind := totals.DocumentKind(opts.kind)
	if !kind.Valid() {
		return fmt.Errorf("kind desconocido: %q", opts.kind)
	}
	vat, err := decimal.NewFromString(opts.vat)
	if err != nil {
		return fmt.Errorf("vat inválido: %w", err)
	}
	lines, err := parseLines(opts.items)
	if err != nil {
		return err
	}
	t := totals.RecomputeDocumentTotals(kind, lines, vat, totals.ParseLenient(opts.discount)).Rounded(2)
	fmt.Fprintf(w, "subtotal: %s\nvat:      %s\ntotal:    %s\n",
		t.Subtotal.StringFixed(2), t.VAT.StringFixed(2), t.GrandTotal.StringFixed(2))
	return nil
}

// parseLines "cantidad:precio[:descuento]" con la misma lectura tolerante de los borradores.
func parseLines(items []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(items))
	for _, raw := range items {
		parts := strings.Split(raw, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("línea inválida %q: se espera cantidad:precio[:descuento]", raw)
		}
		discount := ""
		if len(parts) == 3 {
			discount = parts[2]
		}
		out = append(out, totals.ComputeItemTotalText(parts[0], parts[1], discount))
	}
	return out, nil
}
