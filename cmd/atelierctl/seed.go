package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

//go:embed seed.yaml
var defaultCatalogue []byte

// yamlDecimal decimal leído desde un escalar YAML sin pasar por float64.
type yamlDecimal struct {
	decimal.Decimal
	Set bool
}

func (d *yamlDecimal) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("línea %d: se esperaba un número", n.Line)
	}
	v, err := decimal.NewFromString(strings.TrimSpace(n.Value))
	if err != nil {
		return fmt.Errorf("línea %d: número inválido %q", n.Line, n.Value)
	}
	d.Decimal, d.Set = v, true
	return nil
}

func (d yamlDecimal) ptr() *decimal.Decimal {
	if !d.Set {
		return nil
	}
	v := d.Decimal
	return &v
}

type catalogue struct {
	Categories []string            `yaml:"categories"`
	Materials  []catalogueMaterial `yaml:"materials"`
	Products   []catalogueProduct  `yaml:"products"`
}

type catalogueMaterial struct {
	Name      string      `yaml:"name"`
	Category  string      `yaml:"category"`
	Unit      string      `yaml:"unit"`
	UnitPrice yamlDecimal `yaml:"unit_price"`
	Stock     yamlDecimal `yaml:"stock"`
	Minimum   yamlDecimal `yaml:"minimum"`
}

type catalogueProduct struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	LaborTime   string          `yaml:"labor_time"`
	LaborRate   yamlDecimal     `yaml:"labor_rate"`
	Margin      yamlDecimal     `yaml:"margin_percent"`
	Discount    yamlDecimal     `yaml:"discount"`
	Composition []catalogueLine `yaml:"composition"`
}

type catalogueLine struct {
	Material string      `yaml:"material"`
	Quantity yamlDecimal `yaml:"quantity"`
}

// parseCatalogue decodifica y valida el catálogo. Campos desconocidos son error.
func parseCatalogue(r io.Reader) (*catalogue, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c catalogue
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("catálogo: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *catalogue) validate() error {
	materials := map[string]bool{}
	for i, m := range c.Materials {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("catálogo: material #%d sin nombre", i+1)
		}
		if !entity.UnitOfMeasure(m.Unit).Valid() {
			return fmt.Errorf("catálogo: material %q: unidad %q inválida", m.Name, m.Unit)
		}
		key := strings.ToLower(m.Name)
		if materials[key] {
			return fmt.Errorf("catálogo: material %q repetido", m.Name)
		}
		materials[key] = true
	}
	for i, p := range c.Products {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("catálogo: producto #%d sin nombre", i+1)
		}
		if _, err := entity.ParseLaborTime(p.LaborTime); err != nil {
			return fmt.Errorf("catálogo: producto %q: %w", p.Name, err)
		}
		for _, l := range p.Composition {
			if !materials[strings.ToLower(l.Material)] {
				return fmt.Errorf("catálogo: producto %q usa material desconocido %q", p.Name, l.Material)
			}
		}
	}
	return nil
}

// seedResult cuántos registros se crearon y cuántos ya existían.
type seedResult struct {
	Categories, Materials, Products int
	Skipped                         int
}

// seedCatalogue crea lo que falta del catálogo. Los registros se identifican por nombre,
// así que correrlo dos veces no duplica nada.
func seedCatalogue(ctx context.Context, svc catalogServices, c *catalogue) (seedResult, error) {
	var res seedResult

	categoryIDs := map[string]string{}
	existing, err := svc.Categories.List(ctx)
	if err != nil {
		return res, err
	}
	for _, cat := range existing {
		categoryIDs[strings.ToLower(cat.Name)] = cat.ID
	}
	for _, name := range c.Categories {
		if _, ok := categoryIDs[strings.ToLower(name)]; ok {
			res.Skipped++
			continue
		}
		created, err := svc.Categories.Create(ctx, dto.CreateCategoryRequest{Name: name})
		if err != nil {
			return res, fmt.Errorf("categoría %q: %w", name, err)
		}
		categoryIDs[strings.ToLower(name)] = created.ID
		res.Categories++
	}

	materialIDs, err := materialsByName(ctx, svc)
	if err != nil {
		return res, err
	}
	for _, m := range c.Materials {
		if _, ok := materialIDs[strings.ToLower(m.Name)]; ok {
			res.Skipped++
			continue
		}
		in := dto.CreateMaterialRequest{
			Name:          m.Name,
			UnitOfMeasure: m.Unit,
			UnitPrice:     m.UnitPrice.Decimal,
			StockQuantity: m.Stock.Decimal,
			MinimumStock:  m.Minimum.ptr(),
		}
		if m.Category != "" {
			id, ok := categoryIDs[strings.ToLower(m.Category)]
			if !ok {
				return res, fmt.Errorf("material %q: categoría %q no existe", m.Name, m.Category)
			}
			in.CategoryID = &id
		}
		created, err := svc.Materials.Create(ctx, cliUser, in)
		if err != nil {
			return res, fmt.Errorf("material %q: %w", m.Name, err)
		}
		materialIDs[strings.ToLower(m.Name)] = created.ID
		res.Materials++
	}

	productNames, err := productsByName(ctx, svc)
	if err != nil {
		return res, err
	}
	for _, p := range c.Products {
		if productNames[strings.ToLower(p.Name)] {
			res.Skipped++
			continue
		}
		labor, err := entity.ParseLaborTime(p.LaborTime)
		if err != nil {
			return res, fmt.Errorf("producto %q: %w", p.Name, err)
		}
		lines := make([]dto.CompositionItemInput, 0, len(p.Composition))
		for _, l := range p.Composition {
			lines = append(lines, dto.CompositionItemInput{
				MaterialID:   materialIDs[strings.ToLower(l.Material)],
				QuantityUsed: l.Quantity.Decimal,
			})
		}
		_, err = svc.Products.Create(ctx, cliUser, dto.CreateProductRequest{
			Name:           p.Name,
			Description:    p.Description,
			LaborTime:      labor,
			LaborRate:      p.LaborRate.ptr(),
			MarginPercent:  p.Margin.ptr(),
			DiscountAmount: p.Discount.Decimal,
			Composition:    lines,
		})
		if err != nil {
			return res, fmt.Errorf("producto %q: %w", p.Name, err)
		}
		res.Products++
	}
	return res, nil
}

const listPage = dto.MaxPageLimit

func materialsByName(ctx context.Context, svc catalogServices) (map[string]string, error) {
	out := map[string]string{}
	for offset := 0; ; offset += listPage {
		page, err := svc.Materials.List(ctx, "", false, dto.PageRequest{Limit: listPage, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, m := range page.Items {
			out[strings.ToLower(m.Name)] = m.ID
		}
		if len(page.Items) < listPage {
			return out, nil
		}
	}
}

func productsByName(ctx context.Context, svc catalogServices) (map[string]bool, error) {
	out := map[string]bool{}
	for offset := 0; ; offset += listPage {
		page, err := svc.Products.List(ctx, dto.PageRequest{Limit: listPage, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, p := range page.Items {
			out[strings.ToLower(p.Name)] = true
		}
		if len(page.Items) < listPage {
			return out, nil
		}
	}
}

type seedCmd struct {
	file string
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "carga un catálogo de ejemplo desde YAML" }
func (*seedCmd) Usage() string {
	return `atelierctl seed [-file catalogo.yaml]

  Crea categorías, materiales (con su stock inicial) y productos con su composición.
  Sin -file usa el catálogo de ejemplo embebido. Lo que ya existe (por nombre) se omite.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Ruta del catálogo YAML.")
}

func (c *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var r io.Reader = bytes.NewReader(defaultCatalogue)
	if c.file != "" {
		f, err := os.Open(c.file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		r = f
	}
	cat, err := parseCatalogue(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	svc, err := openServices(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	res, err := seedCatalogue(ctx, svc.catalogServices, cat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Creados: %d categorías, %d materiales, %d productos (%d ya existían)\n",
		res.Categories, res.Materials, res.Products, res.Skipped)
	return subcommands.ExitSuccess
}
