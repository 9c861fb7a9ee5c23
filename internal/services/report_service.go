package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/studenthub/marketplace-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) UsersReport(ctx context.Context, format string) (*Report, error) {
	users, err := s.repo.User().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	header := []string{"name", "email", "role", "createdAt"}
	rows := make([][]string, len(users))
	for i, user := range users {
		rows[i] = []string{
			user.Name,
			user.Email,
			string(user.Role),
			user.CreatedAt.Format(time.RFC3339),
		}
	}

	return s.render("users-report", format, header, rows)
}

func (s *reportService) RevenueReport(ctx context.Context, format string) (*Report, error) {
	report, err := s.repo.Dashboard().RevenueReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue report: %w", err)
	}

	header := []string{"course", "price", "student", "date"}
	rows := make([][]string, len(report))
	for i, row := range report {
		rows[i] = []string{
			row.Course,
			strconv.FormatFloat(row.Price, 'f', 2, 64),
			row.Student,
			row.Date.Format(time.RFC3339),
		}
	}

	return s.render("revenue-report", format, header, rows)
}

func (s *reportService) CoursePerformanceReport(ctx context.Context, format string) (*Report, error) {
	report, err := s.repo.Dashboard().CoursePerformanceReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build course report: %w", err)
	}

	header := []string{"course", "price", "totalEnrollments", "totalRevenue"}
	rows := make([][]string, len(report))
	for i, row := range report {
		rows[i] = []string{
			row.Course,
			strconv.FormatFloat(row.Price, 'f', 2, 64),
			strconv.FormatInt(row.TotalEnrollments, 10),
			strconv.FormatFloat(row.TotalRevenue, 'f', 2, 64),
		}
	}

	return s.render("courses-report", format, header, rows)
}

func (s *reportService) render(name, format string, header []string, rows [][]string) (*Report, error) {
	switch format {
	case FormatXLSX:
		data, err := renderXLSX(header, rows)
		if err != nil {
			return nil, err
		}
		return &Report{
			Filename:    name + ".xlsx",
			ContentType: xlsxContentType,
			Data:        data,
		}, nil
	case FormatCSV, "":
		data, err := renderCSV(header, rows)
		if err != nil {
			return nil, err
		}
		return &Report{
			Filename:    name + ".csv",
			ContentType: csvContentType,
			Data:        data,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported report format %q", ErrValidationFailed, format)
	}
}

func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(header []string, rows [][]string) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}
	for rowIdx, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
