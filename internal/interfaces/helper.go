package interfaces

import "fmt"

// ToCells converts a typed row to the []interface{} cells spreadsheet APIs
// expect.
func ToCells[T any](row []T) []interface{} {
	res := make([]interface{}, len(row))
	for i, v := range row {
		res[i] = v
	}
	return res
}

// FromCells renders spreadsheet cells as strings; nil cells become "".
func FromCells(row []interface{}) []string {
	res := make([]string, len(row))
	for i, v := range row {
		if v != nil {
			res[i] = fmt.Sprint(v)
		}
	}
	return res
}
