package debug

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader 列名
var csvHeader = []string{"t", "y", "yd", "ydd", "res", "err"}

// WriteCSV 每个记录点一行
func (list *Record) WriteCSV(w io.Writer) error {
	cols := [][]float64{list.Time, list.Y, list.Yd, list.Ydd, list.Res, list.Err}
	for i, c := range cols {
		if len(c) != len(list.Time) {
			return fmt.Errorf("debug: 列 %s 长度 %d 与时间列 %d 不一致", csvHeader[i], len(c), len(list.Time))
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	row := make([]string, len(cols))
	for i := range list.Time {
		for j, c := range cols {
			row[j] = strconv.FormatFloat(c[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
