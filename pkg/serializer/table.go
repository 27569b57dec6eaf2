package serializer

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/olekukonko/tablewriter"
)

// Tabular is implemented by values with their own table layout.
// Other values are flattened into FIELD / VALUE rows.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

const emptyValue = "<empty>"

func renderTable(w io.Writer, data any) {
	if t, ok := data.(Tabular); ok {
		printTable(w, t.TableHeader(), t.TableRows())
		return
	}

	var rows [][]string
	flatten("", reflect.ValueOf(data), &rows)
	if len(rows) == 0 {
		rows = append(rows, []string{emptyValue, ""})
	}
	printTable(w, []string{"FIELD", "VALUE"}, rows)
}

func printTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}

// flatten appends one row per leaf value, keyed by its dotted path.
func flatten(prefix string, v reflect.Value, rows *[][]string) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			*rows = append(*rows, []string{prefix, "<nil>"})
			return
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		if prefix != "" {
			*rows = append(*rows, []string{prefix, "<nil>"})
		}
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		if isOpaqueStruct(v) {
			*rows = append(*rows, []string{prefix, fmt.Sprint(v.Interface())})
			return
		}
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			flatten(join(prefix, f.Name), v.Field(i), rows)
		}
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, k := range keys {
			flatten(join(prefix, fmt.Sprint(k.Interface())), v.MapIndex(k), rows)
		}
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			*rows = append(*rows, []string{prefix, string(v.Bytes())})
			return
		}
		for i := 0; i < v.Len(); i++ {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), v.Index(i), rows)
		}
	default:
		*rows = append(*rows, []string{prefix, fmt.Sprint(v.Interface())})
	}
}

// isOpaqueStruct reports whether a struct prints better whole, like time.Time.
func isOpaqueStruct(v reflect.Value) bool {
	if !v.CanInterface() {
		return false
	}
	_, ok := v.Interface().(fmt.Stringer)
	if !ok {
		return false
	}
	for i := 0; i < v.NumField(); i++ {
		if v.Type().Field(i).IsExported() {
			return false
		}
	}
	return true
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
