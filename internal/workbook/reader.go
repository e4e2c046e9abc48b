package workbook

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/parsererror"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbooks read and written here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Built-in number formats that Excel renders as dates or date-times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true,
	20: true, 21: true, 22: true, 27: true, 30: true, 36: true,
	45: true, 46: true, 47: true, 50: true, 57: true,
}

var (
	quotedSection  = regexp.MustCompile(`"[^"]*"`)
	bracketSection = regexp.MustCompile(`\[[^\]]*\]`)
)

// ISO 8601 layouts excelize uses for native "d" cells.
var nativeDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999",
	"2006-01-02",
}

// Read materializes every sheet of an xlsx workbook. Failing to open or read
// the container is returned as *parsererror.WorkbookError.
func Read(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &parsererror.WorkbookError{Op: "open", Err: err}
	}
	defer f.Close()

	rd := &sheetReader{file: f, styles: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		rd.date1904 = *props.Date1904
	}

	wb := &Workbook{}
	for idx, name := range f.GetSheetList() {
		sheet, err := rd.readSheet(idx, name)
		if err != nil {
			return nil, &parsererror.WorkbookError{Op: fmt.Sprintf("read sheet %q", name), Err: err}
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

type sheetReader struct {
	file     *excelize.File
	date1904 bool
	// style id -> whether it formats numbers as dates
	styles map[int]bool
}

func (rd *sheetReader) readSheet(idx int, name string) (*Sheet, error) {
	rows, err := rd.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	sheet := &Sheet{Name: name, Index: idx, Rows: make([]Row, 0, len(rows))}
	for r, raw := range rows {
		row := Row{Number: r + 1, Cells: make([]CellValue, len(raw))}
		for c, value := range raw {
			cell, err := rd.readCell(name, c+1, r+1, value)
			if err != nil {
				return nil, err
			}
			row.Cells[c] = cell
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func (rd *sheetReader) readCell(sheet string, col, row int, raw string) (CellValue, error) {
	if raw == "" {
		return Empty(), nil
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Empty(), err
	}
	cellType, err := rd.file.GetCellType(sheet, axis)
	if err != nil {
		return Empty(), err
	}

	switch cellType {
	case excelize.CellTypeBool:
		switch strings.ToUpper(raw) {
		case "1", "TRUE":
			return Boolean(true), nil
		case "0", "FALSE":
			return Boolean(false), nil
		}
		return Text(raw), nil
	case excelize.CellTypeDate:
		for _, layout := range nativeDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return Date(t), nil
			}
		}
		return Text(raw), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return Text(raw), nil
	}

	// Numbers carry no type attribute in most files, so anything numeric that
	// is not explicitly a string is a number, or a date when its style says so.
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Text(raw), nil
	}
	isDate, err := rd.isDateStyled(sheet, axis)
	if err != nil {
		return Empty(), err
	}
	if isDate {
		serial, _ := strconv.ParseFloat(raw, 64)
		if t, err := excelize.ExcelDateToTime(serial, rd.date1904); err == nil {
			return Date(t), nil
		}
	}
	return Number(d), nil
}

func (rd *sheetReader) isDateStyled(sheet, axis string) (bool, error) {
	styleID, err := rd.file.GetCellStyle(sheet, axis)
	if err != nil {
		return false, err
	}
	if styleID == 0 {
		return false, nil
	}
	if known, ok := rd.styles[styleID]; ok {
		return known, nil
	}

	style, err := rd.file.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := builtinDateFormats[style.NumFmt]
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	rd.styles[styleID] = isDate
	return isDate, nil
}

// isDateFormatCode reports whether a custom number format renders dates. Quoted
// literals and bracketed sections (colors, locales, elapsed time) are ignored;
// a remaining day or year token marks a date format.
func isDateFormatCode(code string) bool {
	code = quotedSection.ReplaceAllString(code, "")
	code = bracketSection.ReplaceAllString(code, "")
	code = strings.ToLower(code)
	return strings.ContainsAny(code, "dy")
}
