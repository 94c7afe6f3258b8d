package importer

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Validate checks the plan file and returns every problem found.
func Validate(pf *PlanFile) []error {
	var errs []error

	if strings.TrimSpace(pf.Name) == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}

	start, startOK := parseDate("start_date", pf.StartDate, &errs)
	complete, completeOK := parseDate("complete_date", pf.CompleteDate, &errs)
	if startOK && completeOK && !complete.After(start) {
		errs = append(errs, fmt.Errorf("complete_date %q must be after start_date %q", pf.CompleteDate, pf.StartDate))
	}

	seen := make(map[string]bool, len(pf.Conditions))
	for i, c := range pf.Conditions {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("conditions[%d].name is required", i))
		} else if seen[name] {
			errs = append(errs, fmt.Errorf("conditions[%d].name %q is duplicated", i, name))
		}
		seen[name] = true
		if c.EstTime < 0 {
			errs = append(errs, fmt.Errorf("conditions[%d].est_time must not be negative", i))
		}
	}

	return errs
}

func parseDate(field, value string, errs *[]error) (time.Time, bool) {
	if value == "" {
		*errs = append(*errs, fmt.Errorf("%s is required", field))
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value))
		return time.Time{}, false
	}
	return t, true
}
