package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/workhub-contracts/internal/model"
)

type PDFGenerator interface {
	Generate(statement model.ContractStatement) ([]byte, error)
}

type ExcelGenerator interface {
	Generate(statement model.ContractStatement) ([]byte, error)
}

type StatementStore interface {
	GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListMilestones(ctx context.Context, contractID uuid.UUID) ([]model.Milestone, error)
}

// StatementService answers progress queries and renders contract statements
// as downloadable documents.
type StatementService struct {
	store StatementStore
	pdf   PDFGenerator
	excel ExcelGenerator
}

func NewStatementService(store StatementStore, pdf PDFGenerator, excel ExcelGenerator) *StatementService {
	return &StatementService{store: store, pdf: pdf, excel: excel}
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func (s *StatementService) GetProgress(ctx context.Context, contractID uuid.UUID, principal model.Principal) (*model.ProgressSummary, error) {
	statement, err := s.buildStatement(ctx, contractID, principal)
	if err != nil {
		return nil, err
	}
	return &statement.Progress, nil
}

func (s *StatementService) ExportPDF(ctx context.Context, contractID uuid.UUID, principal model.Principal) (*ExportResult, error) {
	statement, err := s.buildStatement(ctx, contractID, principal)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*statement)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return &ExportResult{
		FileName: buildStatementFileName(statement, "pdf"),
		Content:  content,
	}, nil
}

func (s *StatementService) ExportExcel(ctx context.Context, contractID uuid.UUID, principal model.Principal) (*ExportResult, error) {
	statement, err := s.buildStatement(ctx, contractID, principal)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*statement)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return &ExportResult{
		FileName: buildStatementFileName(statement, "xlsx"),
		Content:  content,
	}, nil
}

func (s *StatementService) buildStatement(ctx context.Context, contractID uuid.UUID, principal model.Principal) (*model.ContractStatement, error) {
	contract, err := s.store.GetContract(ctx, contractID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: contract %s", ErrNotFound, contractID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if principal.UserID != contract.CompanyID && principal.UserID != contract.FreelancerID {
		return nil, fmt.Errorf("%w: not a party to this contract", ErrPermissionDenied)
	}

	project, err := s.store.GetProject(ctx, contract.ProjectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %s missing for contract %s", ErrInternal, contract.ProjectID, contract.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	milestones, err := s.store.ListMilestones(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return &model.ContractStatement{
		Contract:   *contract,
		Project:    *project,
		Milestones: milestones,
		Progress:   ComputeProgress(*contract, milestones),
	}, nil
}

func buildStatementFileName(statement *model.ContractStatement, ext string) string {
	title := sanitizeFileName(statement.Project.Title)
	if title == "" {
		title = statement.Contract.ID.String()
	}
	return fmt.Sprintf("contract-%s-%s.%s", title, statement.Contract.CreatedAt.Format("20060102"), ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
