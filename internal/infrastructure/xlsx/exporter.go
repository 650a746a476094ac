// Package xlsx genera planillas Excel con el inventario de lotes.
package xlsx

import (
	"fmt"
	"io"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/xuri/excelize/v2"
)

var _ usecase.BatchExporter = (*Exporter)(nil)

// SheetName nombre de la hoja con los lotes.
const SheetName = "Inventario"

var header = []interface{}{"Código", "Nombre", "Cajas", "Unidades por caja", "Unidades totales", "Actualizado"}

// Exporter escribe lotes en formato XLSX.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// WriteBatches escribe una fila por lote debajo del encabezado.
func (e *Exporter) WriteBatches(w io.Writer, batches []dto.BatchResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("xlsx hoja: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx encabezado: %w", err)
	}
	for i, b := range batches {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx celda: %w", err)
		}
		row := []interface{}{
			b.ProductCode,
			b.Name,
			b.Boxes,
			b.UnitsPerBox,
			b.TotalUnits,
			b.UpdatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("xlsx fila %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "B", 24); err != nil {
		return fmt.Errorf("xlsx ancho: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx escribir: %w", err)
	}
	return nil
}
