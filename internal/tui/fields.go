package tui

import (
	"fmt"
	"strings"

	"github.com/brizzai/hotel-console/internal/tui/models"
)

// renderFields draws label/value lines, skipping empty values.
func renderFields(fields []models.Field) string {
	var sb strings.Builder
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", editHeaderStyle.Render(fmt.Sprintf("%-15s", f.Label)), f.Value))
	}
	return sb.String()
}
