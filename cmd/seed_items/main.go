// seed_items genera un script SQL para poblar la tabla items a partir de un CSV exportado
// del sistema anterior (codificación ISO-8859-1, separador ';').
//
// Columnas: item_code;item_name;stock_uom;has_batch_no
//
// Uso: go run ./cmd/seed_items <company_id> [ruta/items.csv]
// Escribe: internal/infrastructure/postgres/migrations/002_seed_items.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type item struct {
	code, name, uom string
	hasBatch        bool
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_items <company_id> [items.csv]")
		os.Exit(1)
	}
	companyID := os.Args[1]
	csvPath := "items.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	items, skipped, err := readItems(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_items.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, companyID, items); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d artículos (%d filas omitidas)\n", outPath, len(items), skipped)
}

// readItems lee el CSV ya decodificado a UTF-8. La primera fila es encabezado.
// Omite filas sin código y códigos repetidos (gana la primera).
func readItems(r io.Reader) ([]item, int, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(records) == 0 {
		return nil, 0, nil
	}

	seen := make(map[string]bool)
	var items []item
	skipped := 0
	for _, rec := range records[1:] {
		code := field(rec, 0)
		if code == "" || seen[code] {
			skipped++
			continue
		}
		seen[code] = true
		uom := field(rec, 2)
		if uom == "" {
			uom = "Nos"
		}
		items = append(items, item{
			code:     code,
			name:     field(rec, 1),
			uom:      uom,
			hasBatch: isTrue(field(rec, 3)),
		})
	}
	return items, skipped, nil
}

func writeSQL(w io.Writer, companyID string, items []item) error {
	if _, err := fmt.Fprintf(w, "-- Artículos de la empresa %s\n-- Generado por cmd/seed_items\n\n", companyID); err != nil {
		return err
	}
	for _, it := range items {
		_, err := fmt.Fprintf(w,
			"INSERT INTO items (company_id, item_code, item_name, stock_uom, has_batch_no)\n"+
				"VALUES ('%s', '%s', '%s', '%s', %t)\n"+
				"ON CONFLICT (company_id, item_code) DO UPDATE SET item_name = EXCLUDED.item_name, stock_uom = EXCLUDED.stock_uom, has_batch_no = EXCLUDED.has_batch_no;\n",
			escapeSQL(companyID), escapeSQL(it.code), escapeSQL(it.name), escapeSQL(it.uom), it.hasBatch)
		if err != nil {
			return err
		}
	}
	return nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isTrue(s string) bool {
	switch strings.ToLower(s) {
	case "1", "si", "sí", "s", "true", "yes", "y":
		return true
	}
	return false
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
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
