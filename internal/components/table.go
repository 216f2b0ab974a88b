package components

import (
	"github.com/a-h/templ"

	"github.com/felixbrock/catalogview/internal/domain"
)

// Column describes one table field. Value formats the field of a row.
type Column[T any] struct {
	Title string
	Key   string
	Value func(T) string
}

type tableHeader struct {
	Title string
	Key   string
}

type tableCell struct {
	Key   string
	Value string
}

type tableRow struct {
	Key   string
	Cells []tableCell
}

type listItem struct {
	Key  string
	Text string
}

var productColumns = []Column[domain.Product]{
	{Title: "ID", Key: "id", Value: domain.Product.Key},
	{Title: "Name", Key: "name", Value: func(p domain.Product) string { return p.Name }},
	{Title: "Price", Key: "price", Value: domain.Product.PriceLabel},
}

// Table renders one <tr> per row, keyed by rowKey rather than by position.
func Table[T any](columns []Column[T], rows []T, rowKey func(T) string) templ.Component {
	headers := make([]tableHeader, len(columns))
	for i, c := range columns {
		headers[i] = tableHeader{Title: c.Title, Key: c.Key}
	}
	body := make([]tableRow, len(rows))
	for i, row := range rows {
		cells := make([]tableCell, len(columns))
		for j, c := range columns {
			cells[j] = tableCell{Key: c.Key, Value: c.Value(row)}
		}
		body[i] = tableRow{Key: rowKey(row), Cells: cells}
	}
	return table(headers, body)
}

// List renders a bordered list with one keyed <li> per row.
func List[T any](rows []T, rowKey func(T) string, item func(T) string) templ.Component {
	items := make([]listItem, len(rows))
	for i, row := range rows {
		items[i] = listItem{Key: rowKey(row), Text: item(row)}
	}
	return list(items)
}
