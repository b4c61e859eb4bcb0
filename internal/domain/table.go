package domain

import (
	"math"
	"sort"
	"strconv"
)

// Fixed leading table columns, in order. Facet dimension columns follow,
// then one column per observed "{generator}: {metric}" pair.
var leadingColumns = []string{"#", "Model", "Group", "Field", "N"}

// missingCell is rendered when a row has no value for a column.
const missingCell = "-"

// Table is the flat projection of the metrics store handed to rendering
// collaborators: an ordered header and one display row per stored row.
type Table struct {
	// Header holds the ordered column names.
	Header []string

	// Rows holds the projected rows, one per store row, in store order.
	Rows []TableRow
}

// TableRow is one projected row. Cells align with the table header; values
// are strings or numbers ready for display. ExampleIDs preserves the row's
// contributing examples so selection by row index can map back to them.
type TableRow struct {
	Cells      []any
	ExampleIDs []string
}

// metricColumn addresses one projected metric column: the generator and
// metric it resolves through, plus the rendered "{generator}: {metric}"
// header identifier.
type metricColumn struct {
	generator string
	metric    string
	header    string
}

// ProjectTable computes the tabular view of the given rows for the selected
// facet dimensions. It is a pure function and is recomputed on every read;
// the result never aliases store state. Metric columns appear in first-seen
// row order, with each row's generators and metrics visited in lexicographic
// order so that repeated projections of the same store are identical.
func ProjectTable(rows []MetricsRow, facetDims []string) Table {
	metricColumns := collectMetricColumns(rows)

	header := make([]string, 0, len(leadingColumns)+len(facetDims)+len(metricColumns))
	header = append(header, leadingColumns...)
	header = append(header, facetDims...)
	for _, column := range metricColumns {
		header = append(header, column.header)
	}

	projected := make([]TableRow, len(rows))
	for i, row := range rows {
		cells := make([]any, 0, len(header))
		cells = append(cells, i, row.Model, row.Group, row.PredKey, len(row.ExampleIDs))

		for _, dim := range facetDims {
			if value, ok := row.Facets[dim]; ok {
				cells = append(cells, value)
			} else {
				cells = append(cells, missingCell)
			}
		}

		for _, column := range metricColumns {
			cells = append(cells, metricCell(row, column))
		}

		projected[i] = TableRow{Cells: cells, ExampleIDs: row.ExampleIDs}
	}

	return Table{Header: header, Rows: projected}
}

// collectMetricColumns gathers every observed metric column.
// Cross-row order is first-seen; within a row, names are visited sorted
// because map iteration order would otherwise make projections unstable.
func collectMetricColumns(rows []MetricsRow) []metricColumn {
	seen := make(map[string]struct{})
	var columns []metricColumn
	for _, row := range rows {
		for _, generator := range sortedKeys(row.Metrics) {
			for _, metric := range sortedKeys(row.Metrics[generator]) {
				header := generator + ": " + metric
				if _, ok := seen[header]; ok {
					continue
				}
				seen[header] = struct{}{}
				columns = append(columns, metricColumn{
					generator: generator,
					metric:    metric,
					header:    header,
				})
			}
		}
	}
	return columns
}

// metricCell resolves one metric column for one row: the placeholder when
// the row lacks the generator or metric, otherwise the formatted value.
func metricCell(row MetricsRow, column metricColumn) any {
	metrics, ok := row.Metrics[column.generator]
	if !ok {
		return missingCell
	}
	value, ok := metrics[column.metric]
	if !ok {
		return missingCell
	}
	return FormatMetric(value)
}

// FormatMetric renders a metric value for display: whole numbers pass
// through unchanged, everything else is fixed to exactly three decimals.
func FormatMetric(value float64) any {
	if value == math.Trunc(value) && !math.IsInf(value, 0) {
		return value
	}
	return strconv.FormatFloat(value, 'f', 3, 64)
}

// sortedKeys returns the map's keys in lexicographic order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
