package pbit

import (
	"encoding/json"
	"fmt"

	"market-reporter/src/models"
)

// -----------------------------------------------------------------------------
// Schema and layout documents
//
// Typed descriptors for the two variable JSON parts. The model schema wraps
// the embedded DATATABLE expression under the fixed model envelope; the
// layout places visuals bound to report columns.
// -----------------------------------------------------------------------------

type ModelSchemaDoc struct {
	Name               string   `json:"name"`
	CompatibilityLevel int      `json:"compatibilityLevel"`
	Model              ModelDef `json:"model"`
}

type ModelDef struct {
	Culture string       `json:"culture"`
	Tables  []TableModel `json:"tables"`
}

type TableModel struct {
	Name       string           `json:"name"`
	Columns    []ColumnModel    `json:"columns"`
	Partitions []PartitionModel `json:"partitions"`
}

type ColumnModel struct {
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

type PartitionModel struct {
	Name   string          `json:"name"`
	Mode   string          `json:"mode"`
	Source PartitionSource `json:"source"`
}

type PartitionSource struct {
	Type       string `json:"type"`
	Expression string `json:"expression"`
}

// -----------------------------------------------------------------------------

// BuildModelSchema wraps a rendered table expression under the model envelope.
// Column declarations come from the table's schema, in declaration order.
func BuildModelSchema(cfg models.MReportConfig, table Table, expression string) ModelSchemaDoc {
	columns := make([]ColumnModel, 0, len(table.Columns))
	for _, col := range table.Columns {
		columns = append(columns, ColumnModel{Name: col.Name, DataType: col.Type.DataType()})
	}

	return ModelSchemaDoc{
		Name:               cfg.ModelName,
		CompatibilityLevel: cfg.CompatibilityLevel,
		Model: ModelDef{
			Culture: cfg.Locale,
			Tables: []TableModel{{
				Name:    table.Name,
				Columns: columns,
				Partitions: []PartitionModel{{
					Name: table.Name,
					Mode: "import",
					Source: PartitionSource{
						Type:       "calculated",
						Expression: expression,
					},
				}},
			}},
		},
	}
}

// -----------------------------------------------------------------------------
// Layout document
// -----------------------------------------------------------------------------

type LayoutDoc struct {
	Sections []LayoutSection `json:"sections"`
}

type LayoutSection struct {
	Name             string            `json:"name"`
	DisplayName      string            `json:"displayName"`
	VisualContainers []VisualContainer `json:"visualContainers"`
}

// VisualContainer places one visual. Config is itself a JSON document,
// carried as a string; that nesting is part of the consumer's format.
type VisualContainer struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Config string `json:"config"`
}

type visualConfig struct {
	Name         string       `json:"name"`
	SingleVisual singleVisual `json:"singleVisual"`
}

type singleVisual struct {
	VisualType     string                 `json:"visualType"`
	Projections    map[string][]queryRef  `json:"projections,omitempty"`
	PrototypeQuery *prototypeQuery        `json:"prototypeQuery,omitempty"`
	Objects        map[string]interface{} `json:"objects,omitempty"`
}

type queryRef struct {
	QueryRef string `json:"queryRef"`
}

type prototypeQuery struct {
	Version int           `json:"Version"`
	From    []fromEntity  `json:"From"`
	Select  []selectField `json:"Select"`
}

type fromEntity struct {
	Name   string `json:"Name"`
	Entity string `json:"Entity"`
	Type   int    `json:"Type"`
}

type selectField struct {
	Column columnRef `json:"Column"`
	Name   string    `json:"Name"`
}

type columnRef struct {
	Expression sourceExpr `json:"Expression"`
	Property   string     `json:"Property"`
}

type sourceExpr struct {
	SourceRef sourceRef `json:"SourceRef"`
}

type sourceRef struct {
	Source string `json:"Source"`
}

// -----------------------------------------------------------------------------

var visualTypeMap = map[string]string{
	"line": "lineChart",
	"bar":  "columnChart",
	"card": "card",
}

// BuildLayout renders the layout document from chart descriptors. Charts with
// an empty column become a textbox carrying the narrative text.
func BuildLayout(tableName string, meta models.MReportMeta) (LayoutDoc, error) {
	containers := make([]VisualContainer, 0, len(meta.Charts))

	for _, chart := range meta.Charts {
		var cfg visualConfig
		if chart.Type == "textbox" {
			cfg = textboxConfig(chart.Name, meta.Narrative)
		} else {
			cfg = chartConfig(tableName, chart)
		}

		raw, err := json.Marshal(cfg)
		if err != nil {
			return LayoutDoc{}, fmt.Errorf("marshaling visual %q: %w", chart.Name, err)
		}

		containers = append(containers, VisualContainer{
			X:      chart.X,
			Y:      chart.Y,
			Width:  chart.Width,
			Height: chart.Height,
			Config: string(raw),
		})
	}

	return LayoutDoc{
		Sections: []LayoutSection{{
			Name:             "ReportSection1",
			DisplayName:      "Overview",
			VisualContainers: containers,
		}},
	}, nil
}

// -----------------------------------------------------------------------------

// chartConfig binds one visual to a column of the report table. Non-card
// visuals additionally project the Date column as category axis.
func chartConfig(tableName string, chart models.MChartSpec) visualConfig {
	vType, ok := visualTypeMap[chart.Type]
	if !ok {
		vType = "lineChart"
	}

	ref := fmt.Sprintf("%s.%s", tableName, chart.Column)
	projections := map[string][]queryRef{
		"Y": {{QueryRef: ref}},
	}
	query := &prototypeQuery{
		Version: 2,
		From:    []fromEntity{{Name: "f", Entity: tableName, Type: 0}},
		Select: []selectField{{
			Column: columnRef{Expression: sourceExpr{SourceRef: sourceRef{Source: "f"}}, Property: chart.Column},
			Name:   ref,
		}},
	}

	if chart.Type != "card" {
		dateRef := fmt.Sprintf("%s.Date", tableName)
		projections["Category"] = []queryRef{{QueryRef: dateRef}}
		query.Select = append(query.Select, selectField{
			Column: columnRef{Expression: sourceExpr{SourceRef: sourceRef{Source: "f"}}, Property: "Date"},
			Name:   dateRef,
		})
	}

	return visualConfig{
		Name: chart.Name,
		SingleVisual: singleVisual{
			VisualType:     vType,
			Projections:    projections,
			PrototypeQuery: query,
		},
	}
}

// -----------------------------------------------------------------------------

func textboxConfig(name, narrative string) visualConfig {
	return visualConfig{
		Name: name,
		SingleVisual: singleVisual{
			VisualType: "textbox",
			Objects: map[string]interface{}{
				"general": []map[string]interface{}{{
					"properties": map[string]interface{}{
						"paragraphs": []map[string]interface{}{{
							"textRuns": []map[string]interface{}{{
								"value": narrative,
							}},
						}},
					},
				}},
			},
		},
	}
}

// -----------------------------------------------------------------------------

// DefaultCharts is the stock dashboard arrangement: three summary cards, a
// price line chart, a volume bar chart and a narrative textbox.
func DefaultCharts() []models.MChartSpec {
	return []models.MChartSpec{
		{Type: "card", Name: "CardClose", Column: "Close", X: 10, Y: 10, Width: 300, Height: 150},
		{Type: "card", Name: "CardHigh", Column: "High", X: 320, Y: 10, Width: 300, Height: 150},
		{Type: "card", Name: "CardVol", Column: "Volume", X: 630, Y: 10, Width: 300, Height: 150},
		{Type: "line", Name: "MainChart", Column: "Close", X: 10, Y: 170, Width: 920, Height: 350},
		{Type: "bar", Name: "VolChart", Column: "Volume", X: 10, Y: 530, Width: 920, Height: 150},
		{Type: "textbox", Name: "TextBox1", X: 10, Y: 690, Width: 920, Height: 50},
	}
}

// -----------------------------------------------------------------------------

// SettingsDoc is the variable settings part.
type SettingsDoc struct {
	Locale string `json:"locale"`
}
