package plans

import "fmt"

type NotFoundError struct {
	PlanCode string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("plan not found: %s", e.PlanCode)
}

type InactiveError struct {
	PlanCode string
}

func (e *InactiveError) Error() string {
	return fmt.Sprintf("plan is inactive: %s", e.PlanCode)
}

type SystemPlanProtectedError struct {
	PlanCode string
}

func (e *SystemPlanProtectedError) Error() string {
	return fmt.Sprintf("system plan is protected: %s", e.PlanCode)
}

type CodeImmutableError struct {
	Current   string
	Requested string
}

func (e *CodeImmutableError) Error() string {
	return "plan code cannot be changed"
}
