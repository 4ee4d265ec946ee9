package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"github.com/rgehrsitz/consorcio/internal/domain"
)

// CSVScheduleFormatter writes one row per month of the schedule
type CSVScheduleFormatter struct{}

func (c CSVScheduleFormatter) Name() string { return "csv" }

func (c CSVScheduleFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Month", "Phase", "CreditValue", "AccessedCredit", "AdministrationTax", "ReserveFund", "InstallmentValue", "OutstandingBalance", "IsContemplationMonth"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range result.Rows {
		row := []string{
			strconv.Itoa(r.Month),
			string(r.Phase),
			r.CreditValue.StringFixed(2),
			r.AccessedCredit.StringFixed(2),
			r.AdministrationTax.StringFixed(2),
			r.ReserveFund.StringFixed(2),
			r.InstallmentValue.StringFixed(2),
			r.OutstandingBalance.StringFixed(2),
			strconv.FormatBool(r.IsContemplationMonth),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSONFormatter serializes the whole simulation result
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}
