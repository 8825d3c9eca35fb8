package tariff

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultPriceList maps TPL FVG extra-urban ticket codes to euro prices.
var DefaultPriceList = map[string]float64{
	"U1": 1.50,
	"E1": 2.50,
	"E2": 3.50,
	"E3": 4.00,
	"E4": 4.50,
	"E5": 5.50,
	"E6": 6.50,
	"E7": 7.50,
}

// ImportOptions controls ImportCodeMatrixCSV.
type ImportOptions struct {
	Name string `validate:"required"`
	// PriceList derives the price matrix from codes. Nil leaves Prices absent.
	PriceList map[string]float64 `validate:"omitempty,dive,keys,required,endkeys,gte=0"`
}

// ErrNoStopsInHeader is returned when the CSV header row has no stop names.
var ErrNoStopsInHeader = errors.New("tariff: header row has no stop names")

// ImportCodeMatrixCSV builds a line from a spreadsheet export. The first row
// holds the stop names; empty header cells are skipped. Each following row
// holds the ticket codes from one departure stop. A row one cell longer than
// the stop list is assumed to start with the stop name, which is dropped.
func ImportCodeMatrixCSV(r io.Reader, opts ImportOptions) (*Line, error) {
	if err := validator.New().Struct(opts); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	stops := make([]string, 0, len(header))
	for _, cell := range header {
		if name := strings.TrimSpace(cell); name != "" {
			stops = append(stops, name)
		}
	}
	if len(stops) == 0 {
		return nil, ErrNoStopsInHeader
	}

	codes := CodeMatrix{}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read codes: %w", err)
		}
		if len(rec) == len(stops)+1 {
			rec = rec[1:]
		}
		row := make([]string, len(rec))
		for j, cell := range rec {
			row[j] = strings.TrimSpace(cell)
		}
		codes = append(codes, row)
	}

	line := &Line{Name: opts.Name, Stops: stops, Codes: codes}
	if opts.PriceList != nil {
		line.Prices = DerivePrices(len(stops), codes, opts.PriceList)
	}
	return line, nil
}

// DerivePrices builds an n×n price matrix from ticket codes. The diagonal
// and codes missing from the price list get 0.
func DerivePrices(n int, codes CodeMatrix, priceList map[string]float64) PriceMatrix {
	prices := make(PriceMatrix, n)
	for i := 0; i < n; i++ {
		prices[i] = make([]PriceCell, n)
		for j := 0; j < n; j++ {
			prices[i][j] = Amount(0)
			if i == j {
				continue
			}
			if p, ok := priceList[codes.Cell(i, j)]; ok {
				prices[i][j] = Amount(p)
			}
		}
	}
	return prices
}
