package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/segyhp/amortization-engine/internal/domain"
)

// ScheduleFilename is the download name used for exported schedules
const ScheduleFilename = "amortization_schedule.csv"

var scheduleHeader = []string{
	"Period",
	"Date",
	"Payment (base)",
	"Extra Payment",
	"Payment (total excl. fees)",
	"Fee",
	"Payment (grand total)",
	"Interest",
	"Principal",
	"Balance",
}

// WriteScheduleCSV writes a header and one record per row. Dates are
// YYYY-MM-DD and money always carries two decimals.
func WriteScheduleCSV(w io.Writer, rows []domain.ScheduleRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(scheduleHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Period),
			row.Date.Format(time.DateOnly),
			row.BasePayment.StringFixed(2),
			row.ExtraPayment.StringFixed(2),
			row.TotalPaymentExclFee.StringFixed(2),
			row.Fee.StringFixed(2),
			row.TotalPaymentInclFee.StringFixed(2),
			row.Interest.StringFixed(2),
			row.PrincipalPaid.StringFixed(2),
			row.Balance.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv period %d: %w", row.Period, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
