package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planflow/internal/contract"
)

// ToInput converts a validated plan file into a create or update request.
// Call Validate first; ToInput only reports date parse failures.
func ToInput(pf *PlanFile) (contract.PlanInput, error) {
	start, err := time.Parse(dateLayout, pf.StartDate)
	if err != nil {
		return contract.PlanInput{}, fmt.Errorf("parsing start_date: %w", err)
	}
	complete, err := time.Parse(dateLayout, pf.CompleteDate)
	if err != nil {
		return contract.PlanInput{}, fmt.Errorf("parsing complete_date: %w", err)
	}

	in := contract.PlanInput{
		Name:         strings.TrimSpace(pf.Name),
		Description:  pf.Description,
		StartDate:    start,
		CompleteDate: complete,
		Conditions:   make([]contract.ConditionInput, 0, len(pf.Conditions)),
	}
	for _, c := range pf.Conditions {
		in.Conditions = append(in.Conditions, contract.ConditionInput{
			Name:     strings.TrimSpace(c.Name),
			Overview: c.Overview,
			EstTime:  c.EstTime,
		})
	}
	return in, nil
}
