package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// reportPageSize is the repository page size used while streaming all rows
// into a report.
const reportPageSize = 500

// ReportService exports the withdrawal ledger as an Excel workbook for
// finance/admin use.
type ReportService struct {
	withdrawals WithdrawalRepository
}

func NewReportService(withdrawals WithdrawalRepository) *ReportService {
	return &ReportService{withdrawals: withdrawals}
}

// WriteWithdrawalsReport renders every withdrawal into an xlsx workbook and
// writes it to w.
func (s *ReportService) WriteWithdrawalsReport(ctx context.Context, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Withdrawals"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Code", "User ID", "Bank Account ID", "Amount", "Admin Fee", "Net Amount", "Status", "Admin Notes", "Requested At", "Completed At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("report service: write header: %w", err)
		}
	}

	row := 2
	for offset := 0; ; offset += reportPageSize {
		page, err := s.withdrawals.ListAll(ctx, reportPageSize, offset)
		if err != nil {
			return fmt.Errorf("report service: list withdrawals: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, wd := range page {
			values := []interface{}{
				wd.WithdrawalCode,
				wd.UserID.String(),
				wd.BankAccountID.String(),
				wd.Amount.InexactFloat64(),
				wd.AdminFee.InexactFloat64(),
				wd.NetAmount.InexactFloat64(),
				string(wd.Status),
				stringOrEmpty(wd.AdminNotes),
				wd.CreatedAt.Format(time.RFC3339),
				timeOrEmpty(wd.CompletedAt),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fmt.Errorf("report service: write row: %w", err)
				}
			}
			row++
		}

		if len(page) < reportPageSize {
			break
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("report service: write workbook: %w", err)
	}
	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
