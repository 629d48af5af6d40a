// Package export writes generated combinations as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Noor7086/Obyyo-sub002/internal/generator"
)

// Format represents the export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Options holds configuration for export operations.
type Options struct {
	Format     Format
	PrettyJSON bool
}

// Exporter writes rows to a writer in the configured format.
type Exporter struct {
	opts Options
}

// NewExporter creates a new Exporter with the given options.
func NewExporter(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Row is one combination flattened for tabular output.
type Row struct {
	ResultID    string    `csv:"result_id" json:"resultId"`
	Game        string    `csv:"game" json:"game"`
	Index       int       `csv:"index" json:"index"`
	Primary     string    `csv:"primary" json:"primary"`
	Secondary   *int      `csv:"secondary" json:"secondary,omitempty"`
	GeneratedAt time.Time `csv:"generated_at" json:"generatedAt"`
}

// Rows flattens a generation result, numbering combinations from 1.
func Rows(result *generator.Result) []Row {
	rows := make([]Row, len(result.Combinations))
	for i, c := range result.Combinations {
		nums := make([]string, len(c.Primary))
		for j, n := range c.Primary {
			nums[j] = strconv.Itoa(n)
		}
		rows[i] = Row{
			ResultID:    result.ID,
			Game:        string(result.Game.ID),
			Index:       i + 1,
			Primary:     strings.Join(nums, " "),
			Secondary:   c.Secondary,
			GeneratedAt: c.GeneratedAt,
		}
	}
	return rows
}

// Export writes data to w. CSV requires a slice of structs; JSON accepts anything.
func (e *Exporter) Export(w io.Writer, data any) error {
	switch e.opts.Format {
	case FormatCSV:
		return writeCSV(w, data)
	case FormatJSON:
		return e.writeJSON(w, data)
	default:
		return fmt.Errorf("unsupported export format: %s", e.opts.Format)
	}
}

// ExportFile writes data to path, creating parent directories.
func (e *Exporter) ExportFile(path string, data any) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return e.Export(f, data)
}

func (e *Exporter) writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if e.opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("CSV export requires a slice, got %s", v.Kind())
	}

	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("CSV export requires a slice of structs")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeaders(elemType)); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		if err := writer.Write(csvRow(elem)); err != nil {
			return fmt.Errorf("write CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// csvHeaders uses the csv tag when present, otherwise the field name.
func csvHeaders(t reflect.Type) []string {
	var headers []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("csv")
		if !field.IsExported() || tag == "-" {
			continue
		}
		if tag == "" {
			tag = field.Name
		}
		headers = append(headers, tag)
	}
	return headers
}

func csvRow(v reflect.Value) []string {
	var row []string
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("csv") == "-" {
			continue
		}
		row = append(row, valueToString(v.Field(i)))
	}
	return row
}

func valueToString(v reflect.Value) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Struct:
		if t, ok := v.Interface().(time.Time); ok {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return fmt.Sprintf("%v", v.Interface())
}
