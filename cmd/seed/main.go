// seed genera el script SQL con el catálogo inicial de una tienda (ubicación principal,
// productos, existencias y código contable de ventas) a partir de un CSV o XLSX.
//
// Uso: go run ./cmd/seed -shop <uuid> [-latin1] [-out ruta.sql] catalogo.csv|catalogo.xlsx
// Sin archivo usa el catálogo de demostración.
// Por defecto escribe migrations/0002_seed_catalog.sql.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-core/internal/infrastructure/catalog"
)

func main() {
	shopID := flag.String("shop", "", "UUID de la tienda")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	outPath := flag.String("out", "", "archivo SQL de salida")
	flag.Parse()

	if _, err := uuid.Parse(*shopID); err != nil {
		fmt.Fprintf(os.Stderr, "-shop debe ser un UUID: %v\n", err)
		os.Exit(2)
	}

	c, err := load(flag.Arg(0), *shopID, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Catálogo: %v\n", err)
		os.Exit(1)
	}

	if *outPath == "" {
		*outPath = filepath.Join(findModuleRoot(), "migrations", "0002_seed_catalog.sql")
	}
	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := catalog.WriteSQL(out, c); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos en %s\n", *outPath, len(c.Products), c.Location.Name)
}

func load(path, shopID string, latin1 bool) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Demo(shopID)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows [][]string
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = catalog.ReadXLSX(f)
	} else {
		rows, err = catalog.ReadCSV(f, latin1)
	}
	if err != nil {
		return nil, err
	}
	return catalog.Build(rows, shopID)
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
