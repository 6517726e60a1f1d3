package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/table"
)

func WriteCSV(writer io.Writer, t *table.Table) error {
	w := csv.NewWriter(writer)

	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}
