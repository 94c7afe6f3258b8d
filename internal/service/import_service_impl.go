package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planflow/internal/contract"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/importer"
)

type importService struct {
	plans PlanService
}

// NewImportService loads plan files and hands them to plans, so imports go
// through the same permission checks and transactions as direct calls.
func NewImportService(plans PlanService) ImportService {
	return &importService{plans: plans}
}

func (s *importService) ImportPlan(ctx context.Context, actor domain.Actor, path string) (*domain.Plan, error) {
	in, err := s.load(path)
	if err != nil {
		return nil, err
	}
	return s.plans.CreatePlan(ctx, actor, in)
}

func (s *importService) ReimportPlan(ctx context.Context, actor domain.Actor, planID, path string) (*domain.Plan, error) {
	in, err := s.load(path)
	if err != nil {
		return nil, err
	}
	return s.plans.UpdatePlan(ctx, actor, planID, in)
}

func (s *importService) load(path string) (contract.PlanInput, error) {
	pf, err := importer.LoadPlanFile(path)
	if err != nil {
		return contract.PlanInput{}, fmt.Errorf("loading plan file: %w", err)
	}
	if errs := importer.Validate(pf); len(errs) > 0 {
		return contract.PlanInput{}, formatValidationErrors(errs)
	}
	in, err := importer.ToInput(pf)
	if err != nil {
		return contract.PlanInput{}, fmt.Errorf("converting plan file: %w", err)
	}
	return in, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("plan file validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}
