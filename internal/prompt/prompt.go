// Package prompt extracts template variables from a manager's state and
// populates {{VAR}} placeholders, replacing the old context-bundle script.
package prompt

import (
	"fmt"
	"strings"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
)

// Variable names recognised in templates.
const (
	VarGameweek       = "GW"
	VarBank           = "BANK"
	VarFreeTransfers  = "FT"
	VarChipsAvailable = "CHIPS_AVAILABLE"
)

// ExtractVariables builds the template variable map. myTeam is nil when
// the authenticated path was unavailable; free transfers then fall back to
// the standard single transfer and chips report as unavailable.
func ExtractVariables(gw int, history fplapi.History, myTeam *fplapi.MyTeam) map[string]string {
	vars := map[string]string{
		VarGameweek:       fmt.Sprintf("%d", gw),
		VarBank:           "0.0",
		VarFreeTransfers:  "1",
		VarChipsAvailable: "Data unavailable (requires authentication)",
	}

	if n := len(history.Current); n > 0 {
		vars[VarBank] = fmt.Sprintf("%.1f", float64(history.Current[n-1].Bank)/10.0)
	}

	if myTeam != nil {
		vars[VarBank] = fmt.Sprintf("%.1f", float64(myTeam.Transfers.Bank)/10.0)
		vars[VarFreeTransfers] = fmt.Sprintf("%d", myTeam.Transfers.Limit-myTeam.Transfers.Made)

		available := make([]string, 0, len(myTeam.Chips))
		for _, chip := range myTeam.Chips {
			if chip.StatusForEntry == "available" {
				available = append(available, chip.Name)
			}
		}
		if len(available) > 0 {
			vars[VarChipsAvailable] = strings.Join(available, ", ")
		} else {
			vars[VarChipsAvailable] = "None"
		}
	}

	return vars
}

// Populate substitutes every known {{VAR}} placeholder. Unknown
// placeholders are left intact so a template author can spot them.
func Populate(template string, vars map[string]string) string {
	out := template
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}
