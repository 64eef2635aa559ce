// Package export writes the PM-facing XLSX report: one sheet of enriched
// insights, one sheet of epic summaries.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/insightforge/insightforge/internal/models"
	"github.com/insightforge/insightforge/pkg/utils"
	"github.com/xuri/excelize/v2"
)

const (
	insightSheet = "Insights"
	epicSheet    = "Epics"

	sampleTextLimit = 300
)

var insightHeader = []interface{}{
	"ID", "Brand", "Subtag", "All Subtags", "Type", "Sentiment", "Persona",
	"Severity", "PM Priority", "Percentile", "Signal Strength",
	"Urgent", "Frustration", "Source", "Post Date", "Text",
}

var epicHeader = []interface{}{
	"Cluster ID", "Epic", "Size", "Complaints", "Feature Requests",
	"Negative", "Positive", "Description", "Product Opportunity",
}

// WriteReport writes insights and epics to an XLSX workbook at path,
// creating parent directories as needed.
func WriteReport(path string, insights []*models.Insight, epics []*models.Epic) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeInsightSheet(f, insights); err != nil {
		return err
	}
	if err := writeEpicSheet(f, epics); err != nil {
		return err
	}

	// The default sheet becomes the insight sheet; drop the placeholder name.
	f.SetSheetName("Sheet1", insightSheet)
	if idx, err := f.GetSheetIndex(insightSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func writeInsightSheet(f *excelize.File, insights []*models.Insight) error {
	sheet := "Sheet1"
	if err := setRow(f, sheet, 1, insightHeader); err != nil {
		return err
	}
	for i, in := range insights {
		row := []interface{}{
			in.ID,
			in.TargetBrand,
			in.PrimarySubtag,
			strings.Join(in.AllSubtags, ", "),
			in.TypeTag,
			in.Sentiment,
			in.Persona,
			in.SeverityScore,
			in.PMPriorityScore,
			in.PMPriorityPercentile,
			in.SignalStrength,
			in.IsUrgent,
			in.IsFrustration,
			in.Source,
			in.PostDate,
			utils.Truncate(in.Text, sampleTextLimit),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeEpicSheet(f *excelize.File, epics []*models.Epic) error {
	if _, err := f.NewSheet(epicSheet); err != nil {
		return fmt.Errorf("failed to create epic sheet: %w", err)
	}
	if err := setRow(f, epicSheet, 1, epicHeader); err != nil {
		return err
	}
	for i, e := range epics {
		row := []interface{}{
			e.ClusterID,
			e.Title,
			e.Size,
			e.Counts.Complaints,
			e.Counts.FeatureRequests,
			e.Counts.Negative,
			e.Counts.Positive,
			e.Description,
			e.ProductOpportunity,
		}
		if err := setRow(f, epicSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNum, sheet, err)
	}
	return nil
}
