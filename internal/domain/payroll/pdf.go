package payroll

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"ems/internal/domain/employee"
)

type PDFData struct {
	FirstName    string
	LastName     string
	Email        string
	EmployeeCode string
	Department   string
	Position     string
	Month        int
	Year         int
	BasicSalary  float64
	Allowances   employee.Allowances
	Deductions   employee.Deductions
	GrossSalary  float64
	NetSalary    float64
}

// ExportPDF renders a payslip document under dir and records the file path
// on the payslip. Returns the path of the written file.
func (s *Service) ExportPDF(ctx context.Context, payslipID, dir string) (string, error) {
	data, err := s.store.PDFData(ctx, payslipID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, payslipID+".pdf")

	period := time.Date(data.Year, time.Month(data.Month), 1, 0, 0, 0, 0, time.UTC)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip - "+period.Format("January 2006"))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s (%s)", data.FirstName, data.LastName, data.EmployeeCode))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", data.Email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Department: %s / %s", data.Department, data.Position))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Basic: %.2f", data.BasicSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("HRA: %.2f  Transport: %.2f  Medical: %.2f  Other: %.2f",
		data.Allowances.HRA, data.Allowances.Transport, data.Allowances.Medical, data.Allowances.Other))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Tax: %.2f  PF: %.2f  Other: %.2f",
		data.Deductions.Tax, data.Deductions.ProvidentFund, data.Deductions.Other))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %.2f", data.GrossSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %.2f", data.NetSalary))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	if err := s.store.UpdateFilePath(ctx, payslipID, filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
