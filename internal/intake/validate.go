package intake

import (
	"strings"

	"github.com/fefrre/ferweb/internal/catalog"
)

// ValidationError names the first field that blocks submission and the
// message shown to the visitor.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// Validate runs the submit-time checks in order and returns the first
// failure, or nil.
func (f *Form) Validate() *ValidationError {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return &ValidationError{"name", "Por favor ingresa tu nombre"}
	case strings.TrimSpace(f.Email) == "":
		return &ValidationError{"email", "Necesitamos tu email para contactarte"}
	case !strings.Contains(f.Email, "@"):
		return &ValidationError{"email", "Por favor ingresa un email válido"}
	case !catalog.IsProjectType(f.ProjectType):
		return &ValidationError{"projectType", "Selecciona el tipo de proyecto que necesitas"}
	case !catalog.IsBudget(f.BudgetRange):
		return &ValidationError{"budgetRange", "Indícanos un rango de presupuesto aproximado"}
	case strings.TrimSpace(f.Description) == "":
		return &ValidationError{"description", "Descripción breve del proyecto es requerida"}
	}
	return nil
}
