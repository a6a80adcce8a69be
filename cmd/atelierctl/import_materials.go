package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// decodeInput envuelve r según la codificación de la planilla exportada.
func decodeInput(r io.Reader, encoding string) (io.Reader, error) {
	switch normalizeKey(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %q", encoding)
}

// normalizeKey minúsculas y sin acentos: "Preço" → "preco".
func normalizeKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// columnas aceptadas (en portugués o inglés) → campo.
var csvColumns = map[string]string{
	"nome": "name", "name": "name", "material": "name",
	"unidade": "unit", "unidade de medida": "unit", "unit": "unit", "unit_of_measure": "unit",
	"preco": "price", "preco unitario": "price", "unit_price": "price", "price": "price",
	"estoque": "stock", "quantidade": "stock", "stock": "stock", "stock_quantity": "stock",
	"minimo": "minimum", "estoque minimo": "minimum", "minimum_stock": "minimum", "minimum": "minimum",
}

var csvUnits = map[string]entity.UnitOfMeasure{
	"metro": entity.UnitMeter, "m": entity.UnitMeter, "meter": entity.UnitMeter,
	"unidade": entity.UnitUnit, "un": entity.UnitUnit, "unit": entity.UnitUnit,
	"rolo": entity.UnitRoll, "roll": entity.UnitRoll,
	"quilo": entity.UnitKilo, "kg": entity.UnitKilo, "kilo": entity.UnitKilo,
	"grama": entity.UnitGram, "g": entity.UnitGram, "gram": entity.UnitGram,
}

// parseLocaleDecimal acepta "45.00", "45,00", "1.234,56" y "R$ 12,50". Vacío → cero.
func parseLocaleDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// readMaterialsCSV lee la planilla de materiales. La primera fila es la cabecera;
// nome y unidade son obligatorias.
func readMaterialsCSV(r io.Reader, encoding string, sep rune) ([]dto.CreateMaterialRequest, error) {
	dec, err := decodeInput(r, encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dec)
	cr.Comma = sep
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv vacío")
		}
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if field, ok := csvColumns[normalizeKey(h)]; ok {
			cols[field] = i
		}
	}
	for _, required := range []string{"name", "unit"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("cabecera: falta la columna %q", required)
		}
	}

	get := func(rec []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []dto.CreateMaterialRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		name := get(rec, "name")
		if name == "" {
			continue
		}
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("línea %d: texto no es UTF-8, use -encoding latin1", line)
		}
		unit, ok := csvUnits[normalizeKey(get(rec, "unit"))]
		if !ok {
			return nil, fmt.Errorf("línea %d: unidad %q desconocida", line, get(rec, "unit"))
		}
		in := dto.CreateMaterialRequest{Name: name, UnitOfMeasure: string(unit)}
		if in.UnitPrice, err = parseLocaleDecimal(get(rec, "price")); err != nil {
			return nil, fmt.Errorf("línea %d: preço: %w", line, err)
		}
		if in.StockQuantity, err = parseLocaleDecimal(get(rec, "stock")); err != nil {
			return nil, fmt.Errorf("línea %d: estoque: %w", line, err)
		}
		if raw := get(rec, "minimum"); raw != "" {
			minimum, err := parseLocaleDecimal(raw)
			if err != nil {
				return nil, fmt.Errorf("línea %d: mínimo: %w", line, err)
			}
			in.MinimumStock = &minimum
		}
		out = append(out, in)
	}
}

// importMaterials crea los materiales que no existen por nombre. Devuelve creados y omitidos.
func importMaterials(ctx context.Context, svc catalogServices, rows []dto.CreateMaterialRequest, categoryID string) (created, skipped int, err error) {
	existing, err := materialsByName(ctx, svc)
	if err != nil {
		return 0, 0, err
	}
	for _, in := range rows {
		key := strings.ToLower(in.Name)
		if _, ok := existing[key]; ok {
			skipped++
			continue
		}
		if categoryID != "" {
			id := categoryID
			in.CategoryID = &id
		}
		m, err := svc.Materials.Create(ctx, cliUser, in)
		if err != nil {
			return created, skipped, fmt.Errorf("material %q: %w", in.Name, err)
		}
		existing[key] = m.ID
		created++
	}
	return created, skipped, nil
}

type importMaterialsCmd struct {
	encoding string
	sep      string
	category string
	dryRun   bool
}

func (*importMaterialsCmd) Name() string     { return "import-materials" }
func (*importMaterialsCmd) Synopsis() string { return "importa materiales desde una planilla CSV" }
func (*importMaterialsCmd) Usage() string {
	return `atelierctl import-materials [-encoding utf-8|latin1|cp1252] [-sep ';'] [-category <id>] [-dry-run] <archivo.csv>

  Columnas: nome, unidade, preço, estoque, mínimo (también en inglés).
  Los montos aceptan coma decimal. Materiales ya existentes (por nombre) se omiten.
`
}

func (c *importMaterialsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.encoding, "encoding", "utf-8", "Codificación del archivo.")
	f.StringVar(&c.sep, "sep", ";", "Separador de columnas.")
	f.StringVar(&c.category, "category", "", "ID de categoría para todos los materiales importados.")
	f.BoolVar(&c.dryRun, "dry-run", false, "Solo valida y muestra lo que se importaría.")
}

func (c *importMaterialsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || utf8.RuneCountInString(c.sep) != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	sep, _ := utf8.DecodeRuneInString(c.sep)
	rows, err := readMaterialsCSV(file, c.encoding, sep)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.dryRun {
		for _, r := range rows {
			fmt.Printf("%s\t%s\t%s\t%s\n", r.Name, r.UnitOfMeasure, r.UnitPrice, r.StockQuantity)
		}
		fmt.Printf("%d materiales válidos\n", len(rows))
		return subcommands.ExitSuccess
	}

	svc, err := openServices(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	created, skipped, err := importMaterials(ctx, svc.catalogServices, rows, c.category)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Importados %d materiales (%d ya existían)\n", created, skipped)
	return subcommands.ExitSuccess
}
