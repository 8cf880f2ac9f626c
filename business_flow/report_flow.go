package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/repository"
	"github.com/xuri/excelize/v2"
)

// ReportFlow gives the marketing team cross-practice views of campaign
// plans, including a spreadsheet export
type ReportFlow interface {
	AdminListSelections(ctx context.Context, req *dto.AdminListSelectionsRequest, metadata *ClientMetadata) (*dto.AdminListSelectionsResponse, error)
	ExportPlanXLSX(ctx context.Context, req *dto.ExportPlanRequest, metadata *ClientMetadata) (*dto.ExportPlanResponse, error)
}

// ReportFlowImpl implements the reporting business flow
type ReportFlowImpl struct {
	selectionRepo repository.SelectionRepository
	practiceRepo  repository.PracticeRepository
	auditRepo     repository.AuditLogRepository
}

// NewReportFlow creates a new report flow instance
func NewReportFlow(
	selectionRepo repository.SelectionRepository,
	practiceRepo repository.PracticeRepository,
	auditRepo repository.AuditLogRepository,
) ReportFlow {
	return &ReportFlowImpl{
		selectionRepo: selectionRepo,
		practiceRepo:  practiceRepo,
		auditRepo:     auditRepo,
	}
}

// AdminListSelections lists selections across all practices, optionally
// filtered by workflow status
func (s *ReportFlowImpl) AdminListSelections(ctx context.Context, req *dto.AdminListSelectionsRequest, metadata *ClientMetadata) (*dto.AdminListSelectionsResponse, error) {
	var filter models.SelectionFilter
	if req.Status != nil {
		status := models.SelectionStatus(*req.Status)
		if !status.Valid() {
			return nil, NewBusinessError("INVALID_STATUS", "Invalid selection status", ErrInvalidStatus)
		}
		filter.Status = &status
	}

	page, pageSize := normalizePaging(req.Page, req.PageSize)
	selections, err := s.selectionRepo.ByFilter(ctx, filter, "from_date ASC, id ASC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("SELECTION_LOOKUP_FAILED", "Failed to list selections", err)
	}

	total, err := s.selectionRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("SELECTION_LOOKUP_FAILED", "Failed to count selections", err)
	}

	out := make([]dto.SelectionDTO, 0, len(selections))
	for _, sel := range selections {
		out = append(out, ToSelectionDTO(*sel))
	}

	return &dto.AdminListSelectionsResponse{
		Message:    "Selections retrieved successfully",
		Selections: out,
		Total:      total,
	}, nil
}

// ExportPlanXLSX builds a workbook of campaign plans, one sheet per
// practice. With a practice filter only that practice is exported.
func (s *ReportFlowImpl) ExportPlanXLSX(ctx context.Context, req *dto.ExportPlanRequest, metadata *ClientMetadata) (*dto.ExportPlanResponse, error) {
	var practices []*models.Practice
	if req.PracticeUUID != nil {
		practice, err := s.practiceRepo.ByUUID(ctx, *req.PracticeUUID)
		if err != nil {
			return nil, NewBusinessError("PRACTICE_LOOKUP_FAILED", "Failed to lookup practice", err)
		}
		if practice == nil {
			return nil, NewBusinessError("PRACTICE_NOT_FOUND", "Practice not found", ErrPracticeNotFound)
		}
		practices = []*models.Practice{practice}
	} else {
		var err error
		practices, err = s.practiceRepo.ListActive(ctx, 0, 0)
		if err != nil {
			return nil, NewBusinessError("PRACTICE_LOOKUP_FAILED", "Failed to list practices", err)
		}
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	usedNames := map[string]bool{}
	for i, practice := range practices {
		selections, err := s.selectionRepo.ListByPractice(ctx, practice.ID, 0, 0)
		if err != nil {
			return nil, NewBusinessError("SELECTION_LOOKUP_FAILED", "Failed to list selections", err)
		}

		baseName := sanitizeSheetName(practice.Name)
		name := baseName
		idx := 1
		for usedNames[name] {
			idx++
			name = truncateSheetName(fmt.Sprintf("%s_%d", baseName, idx))
		}
		usedNames[name] = true
		if i == 0 {
			xl.SetSheetName(xl.GetSheetName(0), name)
		} else {
			_, _ = xl.NewSheet(name)
		}

		header := []string{"campaign", "bespoke", "from", "to", "status", "total_cost", "chosen_creative", "created_at"}
		_ = xl.SetSheetRow(name, "A1", &header)

		for ri, sel := range selections {
			chosen := ""
			if sel.Assets.ChosenCreative != nil {
				chosen = *sel.Assets.ChosenCreative
			}
			record := []string{
				campaignName(sel),
				strconv.FormatBool(sel.Bespoke),
				sel.FromDate.Format("2006-01-02"),
				sel.ToDate.Format("2006-01-02"),
				sel.Status.String(),
				formatPence(sel.Assets.TotalCost()),
				chosen,
				sel.CreatedAt.UTC().Format(time.RFC3339),
			}
			cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
			_ = xl.SetSheetRow(name, cellRef, &record)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	msg := fmt.Sprintf("Plan export generated for %d practices", len(practices))
	audit := newAuditLog(ctx, models.AuditActionPlanExported, msg, true, nil, metadata)
	audit.AdminID = &req.AdminID
	_ = s.auditRepo.Save(ctx, audit)

	return &dto.ExportPlanResponse{
		FileName: fmt.Sprintf("campaign_plans_%s.xlsx", time.Now().UTC().Format("2006-01-02")),
		Content:  buf.Bytes(),
	}, nil
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := replacer.Replace(name)
	return truncateSheetName(strings.TrimSpace(safe))
}

func truncateSheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	if name == "" {
		return "Sheet"
	}
	return name
}
