// Package export writes benchmark and proposed adjacency matrices to an
// XLSX workbook for review outside the CLI.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/harrison/mvp/internal/models"
)

// Sheet names of the exported workbook.
const (
	SheetSpaces     = "Spaces"
	SheetBenchmark  = "Benchmark"
	SheetProposed   = "Proposed"
	SheetDeviations = "Deviations"
)

// cell colours for proposed entries that differ from the benchmark
const (
	colorHeader  = "#E6F3FF"
	colorChanged = "#FFD8D8"
	colorAdded   = "#FFF4C2"
	colorRemoved = "#E0E0E0"
)

type styles struct {
	header  int
	changed int
	added   int
	removed int
}

// MatrixWorkbook builds a workbook with the preset's spaces, the benchmark
// and proposed matrices as grids, and a deviation list. Proposed cells are
// shaded when they differ from the benchmark.
func MatrixWorkbook(preset models.Preset, proposed models.Matrix, devs []models.Deviation) ([]byte, error) {
	f := excelize.NewFile()

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SheetSpaces); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetBenchmark, SheetProposed, SheetDeviations} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	steps := []func() error{
		func() error { return writeSpaces(f, st, preset.Spaces) },
		func() error { return writeGrid(f, st, SheetBenchmark, preset, preset.Matrix, nil) },
		func() error { return writeGrid(f, st, SheetProposed, preset, proposed, &preset.Matrix) },
		func() error { return writeDeviations(f, st, devs) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			f.Close()
			return nil, err
		}
	}

	if idx, err := f.GetSheetIndex(SheetProposed); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}

	var st styles
	var err error
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      fill(colorHeader),
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return styles{}, fmt.Errorf("failed to create header style: %w", err)
	}
	for _, s := range []struct {
		dst   *int
		color string
	}{
		{&st.changed, colorChanged},
		{&st.added, colorAdded},
		{&st.removed, colorRemoved},
	} {
		if *s.dst, err = f.NewStyle(&excelize.Style{Fill: fill(s.color), Border: border}); err != nil {
			return styles{}, fmt.Errorf("failed to create cell style: %w", err)
		}
	}
	return st, nil
}

func writeSpaces(f *excelize.File, st styles, spaces []models.Space) error {
	headers := []interface{}{"Code", "Name", "Zone", "Level", "Target Area (SF)"}
	if err := writeHeaderRow(f, st, SheetSpaces, headers); err != nil {
		return err
	}
	for i, s := range spaces {
		row := []interface{}{s.Code, s.Name, s.Zone, s.Level, s.TargetArea}
		if err := writeRow(f, SheetSpaces, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetSpaces, "B", "B", 24); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return freezeHeader(f, SheetSpaces, "A2")
}

// writeGrid lays out m with row headers as "from" and column headers as "to".
// When benchmark is non-nil, differing cells are shaded.
func writeGrid(f *excelize.File, st styles, sheet string, preset models.Preset, m models.Matrix, benchmark *models.Matrix) error {
	codes := make([]string, len(preset.Spaces))
	for i, s := range preset.Spaces {
		codes[i] = s.Code
	}

	header := []interface{}{"From \\ To"}
	for _, c := range codes {
		header = append(header, c)
	}
	if err := writeHeaderRow(f, st, sheet, header); err != nil {
		return err
	}

	for r, from := range codes {
		row := r + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, from); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, st.header); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}

		for c, to := range codes {
			if from == to {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+2, row)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			rel, ok := m.Lookup(from, to)
			if ok {
				if err := f.SetCellValue(sheet, cell, rel.String()); err != nil {
					return fmt.Errorf("failed to set cell %s: %w", cell, err)
				}
			}
			if benchmark == nil {
				continue
			}
			want, inBenchmark := benchmark.Lookup(from, to)
			style := 0
			switch {
			case ok && inBenchmark && rel != want:
				style = st.changed
			case ok && !inBenchmark:
				style = st.added
			case !ok && inBenchmark:
				style = st.removed
			}
			if style != 0 {
				if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
					return fmt.Errorf("failed to set cell style: %w", err)
				}
			}
		}
	}
	return freezeHeader(f, sheet, "B2")
}

func writeDeviations(f *excelize.File, st styles, devs []models.Deviation) error {
	if err := writeHeaderRow(f, st, SheetDeviations, []interface{}{"From", "To", "Benchmark", "Proposed"}); err != nil {
		return err
	}
	for i, d := range devs {
		row := []interface{}{d.From, d.To, d.Desired.String(), d.Proposed.String()}
		if err := writeRow(f, SheetDeviations, i+2, row); err != nil {
			return err
		}
	}
	return freezeHeader(f, SheetDeviations, "A2")
}

func writeHeaderRow(f *excelize.File, st styles, sheet string, values []interface{}) error {
	if err := writeRow(f, sheet, 1, values); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, st.header); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func freezeHeader(f *excelize.File, sheet, topLeft string) error {
	xSplit := 0
	activePane := "bottomLeft"
	if topLeft == "B2" {
		xSplit = 1
		activePane = "bottomRight"
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      xSplit,
		YSplit:      1,
		TopLeftCell: topLeft,
		ActivePane:  activePane,
	}); err != nil {
		return fmt.Errorf("failed to freeze panes on %s: %w", sheet, err)
	}
	return nil
}
