package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/lemartins07/english-assessment-service/internal/repositories"
)

// ExportService renders finalized session results as spreadsheet files.
type ExportService interface {
	ExportSessionResult(ctx context.Context, sessionID string) ([]byte, error)
}

type exportService struct {
	sessions   repositories.SessionRepository
	blueprints repositories.BlueprintProvider
	logger     *slog.Logger
}

// NewExportService creates a result export service.
func NewExportService(sessions repositories.SessionRepository, blueprints repositories.BlueprintProvider, logger *slog.Logger) ExportService {
	return &exportService{
		sessions:   sessions,
		blueprints: blueprints,
		logger:     logger,
	}
}

// ExportSessionResult produces an xlsx workbook with the aggregate
// result and a per-question breakdown. The session must be finalized.
func (s *exportService) ExportSessionResult(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.Finalized() {
		return nil, ErrSessionNotFinalized
	}

	blueprint, err := s.blueprints.GetByID(ctx, session.BlueprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to load blueprint: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Result"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	result := session.Result
	summary := [][]interface{}{
		{"Session", session.ID},
		{"User", session.UserID},
		{"Blueprint", blueprint.Title},
		{"Aggregate Score", result.AggregateScore},
		{"Level", string(result.Level)},
		{"Finalized At", result.FinalizedAt.Format("2006-01-02 15:04:05")},
	}
	for i, row := range summary {
		for j, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+j, i+1)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	headerRow := len(summary) + 2
	headers := []string{"Question", "Skill", "Weight", "Score", "Transcript"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c%d", 'A'+i, headerRow)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, question := range blueprint.Questions {
		response := session.Responses[question.ID]
		row := []interface{}{
			question.Title,
			string(question.Skill),
			question.Weight,
			response.Score,
			response.Transcript,
		}
		for j, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+j, headerRow+1+i)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported session result",
		"session_id", session.ID,
		"bytes", buf.Len())

	return buf.Bytes(), nil
}
