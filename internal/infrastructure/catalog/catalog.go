// Package catalog importa el catálogo inicial de una tienda (productos y existencias en su
// ubicación principal) desde CSV o XLSX y lo exporta como SQL de semilla.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/sale"
	"github.com/jhoicas/tienda-core/internal/domain/stock"
)

//go:embed demo_catalog.csv
var demoCSV []byte

// namespace para ids deterministas: reimportar el mismo SKU produce el mismo producto.
var namespace = uuid.MustParse("6f1c9a52-7d1e-4c1b-9a0e-3b7f2d9c8e41")

// Columnas esperadas (la primera fila es la cabecera).
const (
	colSKU = iota
	colName
	colPurchasePrice
	colSellingPrice
	colReorderPoint
	colQuantity
	numCols
)

// Catalog productos y existencias de una tienda en su ubicación principal.
type Catalog struct {
	ShopID       string
	Location     *entity.Location
	Products     []*entity.Product
	Items        []*entity.InventoryItem
	AccountCodes []*entity.AccountCode
}

// ReadCSV lee filas separadas por ';'. Con latin1 el archivo se decodifica desde ISO-8859-1
// (exportaciones de hojas de cálculo en Windows).
func ReadCSV(r io.Reader, latin1 bool) ([][]string, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	return rows, nil
}

// ReadXLSX lee la primera hoja del libro.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir XLSX: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el libro no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return rows, nil
}

// Build arma el catálogo a partir de las filas (con cabecera). Los errores indican la fila.
func Build(rows [][]string, shopID string) (*Catalog, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("el catálogo no tiene filas de datos")
	}
	now := time.Now().UTC()
	c := &Catalog{
		ShopID: shopID,
		Location: &entity.Location{
			ID:        uuid.NewSHA1(namespace, []byte(shopID+"/principal")).String(),
			ShopID:    shopID,
			Name:      "Principal",
			IsDefault: true,
			CreatedAt: now,
		},
		AccountCodes: []*entity.AccountCode{{Category: "sales", Code: "4135", Description: "Comercio al por mayor y al por menor"}},
	}

	seen := make(map[string]int)
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		if len(row) < numCols {
			return nil, fmt.Errorf("fila %d: se esperaban %d columnas", line, numCols)
		}
		sku := strings.TrimSpace(row[colSKU])
		if sku == "" {
			return nil, fmt.Errorf("fila %d: sku vacío", line)
		}
		if prev, ok := seen[sku]; ok {
			return nil, fmt.Errorf("fila %d: sku %s repetido (fila %d)", line, sku, prev)
		}
		seen[sku] = line

		purchase, err := decimal.NewFromString(strings.TrimSpace(row[colPurchasePrice]))
		if err != nil || purchase.IsNegative() || !sale.ValidMoney(purchase) {
			return nil, fmt.Errorf("fila %d: precio de compra inválido", line)
		}
		selling, err := decimal.NewFromString(strings.TrimSpace(row[colSellingPrice]))
		if err != nil || selling.IsNegative() || !sale.ValidMoney(selling) {
			return nil, fmt.Errorf("fila %d: precio de venta inválido", line)
		}
		reorder, err := strconv.ParseInt(strings.TrimSpace(row[colReorderPoint]), 10, 64)
		if err != nil || reorder < 0 {
			return nil, fmt.Errorf("fila %d: punto de reorden inválido", line)
		}
		qty, err := strconv.ParseInt(strings.TrimSpace(row[colQuantity]), 10, 64)
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("fila %d: cantidad inválida", line)
		}

		productID := uuid.NewSHA1(namespace, []byte(shopID+"/"+sku)).String()
		c.Products = append(c.Products, &entity.Product{
			ID:            productID,
			ShopID:        shopID,
			SKU:           sku,
			Name:          strings.TrimSpace(row[colName]),
			PurchasePrice: purchase,
			SellingPrice:  selling,
			ReorderPoint:  reorder,
			Quantity:      qty,
			Status:        stock.ProductStatus(qty, reorder),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		c.Items = append(c.Items, &entity.InventoryItem{
			ID:           uuid.NewSHA1(namespace, []byte(productID+"/"+c.Location.ID)).String(),
			ProductID:    productID,
			LocationID:   c.Location.ID,
			QuantityLeft: qty,
			ReorderPoint: reorder,
			UnitCost:     purchase,
			SellingPrice: selling,
			Status:       stock.ItemStatus(qty, reorder),
			UpdatedAt:    now,
		})
	}
	if len(c.Products) == 0 {
		return nil, fmt.Errorf("el catálogo no tiene filas de datos")
	}
	return c, nil
}

// Demo catálogo de ejemplo para el backend en memoria.
func Demo(shopID string) (*Catalog, error) {
	rows, err := ReadCSV(bytes.NewReader(demoCSV), false)
	if err != nil {
		return nil, err
	}
	return Build(rows, shopID)
}

// WriteSQL escribe los INSERT idempotentes (ON CONFLICT DO NOTHING) del catálogo.
func WriteSQL(w io.Writer, c *Catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de la tienda " + c.ShopID + "\n\n")

	fmt.Fprintf(&b, "INSERT INTO locations (id, shop_id, name, is_default) VALUES ('%s', '%s', '%s', TRUE)\nON CONFLICT (id) DO NOTHING;\n\n",
		c.Location.ID, c.ShopID, escapeSQL(c.Location.Name))

	for _, ac := range c.AccountCodes {
		fmt.Fprintf(&b, "INSERT INTO account_codes (category, code, description) VALUES ('%s', '%s', '%s')\nON CONFLICT (category) DO NOTHING;\n",
			escapeSQL(ac.Category), escapeSQL(ac.Code), escapeSQL(ac.Description))
	}
	b.WriteString("\n")

	b.WriteString("INSERT INTO products (id, shop_id, sku, name, purchase_price, selling_price, reorder_point, quantity, status) VALUES\n")
	for i, p := range c.Products {
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', %s, %s, %d, %d, '%s')%s\n",
			p.ID, p.ShopID, escapeSQL(p.SKU), escapeSQL(p.Name), p.PurchasePrice.String(), p.SellingPrice.String(),
			p.ReorderPoint, p.Quantity, p.Status, sep(i, len(c.Products)))
	}
	b.WriteString("ON CONFLICT (id) DO NOTHING;\n\n")

	b.WriteString("INSERT INTO inventory_items (id, product_id, location_id, quantity_left, reorder_point, unit_cost, selling_price, status) VALUES\n")
	for i, it := range c.Items {
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', %d, %d, %s, %s, '%s')%s\n",
			it.ID, it.ProductID, it.LocationID, it.QuantityLeft, it.ReorderPoint, it.UnitCost.String(),
			it.SellingPrice.String(), it.Status, sep(i, len(c.Items)))
	}
	b.WriteString("ON CONFLICT (product_id, location_id) DO NOTHING;\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
