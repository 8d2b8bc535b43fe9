// Package projector 视图投影：把字段目录和对账存储内容投影为三种可序列化视图。
// 全部为纯函数，不持有状态；每次调用从入参重新派生。
package projector

import (
	"github.com/MaxiE97/homologation-vehicle/internal/model"
)

// CellKind 矩阵单元格类别
type CellKind string

const (
	CellField CellKind = "field" // 可编辑字段单元格
	CellEmpty CellKind = "empty" // 行未映射该列：空占位符
	CellError CellKind = "error" // 行引用了不存在的字段：显式配置错误标记
)

// ConfigErrorMarker 配置错误单元格的显示文本
// 表格组引用不存在的字段时就地亮出错误，不吞掉也不中断其余渲染。
const ConfigErrorMarker = "Error: field configuration not found"

// EmptyCellPlaceholder 未映射列的占位文本
const EmptyCellPlaceholder = "-"

// FieldView 单个字段的渲染模型
type FieldView struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Type    model.ValueType `json:"type"`
	Options []string        `json:"options,omitempty"`
	Value   string          `json:"value"`
}

// TableCellView 矩阵单元格
type TableCellView struct {
	Kind  CellKind   `json:"kind"`
	Text  string     `json:"text,omitempty"`  // empty/error 单元格的显示文本
	Field *FieldView `json:"field,omitempty"` // field 单元格
}

// TableRowView 矩阵行：行标签加上按列顺序排列的单元格
type TableRowView struct {
	Label string          `json:"rowLabel"`
	Cells []TableCellView `json:"cells"`
}

// TableView 表格组渲染模型
type TableView struct {
	ID      string              `json:"id"`
	Title   string              `json:"title,omitempty"`
	Columns []model.TableColumn `json:"columns"`
	Rows    []TableRowView      `json:"rows"`
}

// SectionView 分区渲染模型
// Tables 在前、散列字段在后；被表格组覆盖的字段不出现在 Fields 中。
type SectionView struct {
	Title     string      `json:"title"`
	Color     string      `json:"color"`
	Tables    []TableView `json:"tables,omitempty"`
	Fields    []FieldView `json:"fields"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
}

// ComparisonRow 三源对照行：来源观测值三列加最终值列
type ComparisonRow struct {
	Key        string          `json:"key"`
	Label      string          `json:"label"`
	Type       model.ValueType `json:"type"`
	Site1      string          `json:"site1"`
	Site2      string          `json:"site2"`
	Site3      string          `json:"site3"`
	FinalValue string          `json:"finalValue"`
}

// Comparison 三源对照投影：每个字段一行，平铺、忽略分区。
// 来源列与最终值列均可编辑，由调用方决定是否放开来源列。
func Comparison(fields []model.FieldDefinition, snapshot map[string]string, observations map[string]map[string]string) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(fields))
	for _, f := range fields {
		sites := observations[f.Key]
		rows = append(rows, ComparisonRow{
			Key:        f.Key,
			Label:      f.Label,
			Type:       f.Type,
			Site1:      sites[model.SiteVoertuig],
			Site2:      sites[model.SiteTypenscheine],
			Site3:      sites[model.SiteAutoData],
			FinalValue: snapshot[f.Key],
		})
	}
	return rows
}

// Sectioned 分区投影：每个分区一个可折叠面板。
// 表格组成员按矩阵布局渲染，其余字段按通用两列网格逐个渲染；
// 每个分区附带完成度（非空最终值字段数 / 分区字段数）。
func Sectioned(sections []model.SectionDefinition, snapshot map[string]string) []SectionView {
	views := make([]SectionView, 0, len(sections))
	for i := range sections {
		views = append(views, projectSection(&sections[i], snapshot))
	}
	return views
}

// Unified 连续投影：与分区投影相同的表格/散列字段拆分，
// 但所有分区在单个连续滚动中渲染，无折叠控件。投影数据与 Sectioned 一致，
// 折叠状态本就不属于投影层，由前端自行维护。
func Unified(sections []model.SectionDefinition, snapshot map[string]string) []SectionView {
	return Sectioned(sections, snapshot)
}

func projectSection(sec *model.SectionDefinition, snapshot map[string]string) SectionView {
	inTable := sec.InTableSet()

	view := SectionView{
		Title: sec.Title,
		Color: sec.Color,
		Total: len(sec.Fields),
	}

	for _, f := range sec.Fields {
		if isCompleted(snapshot[f.Key]) {
			view.Completed++
		}
	}

	for _, g := range sec.TableGroups {
		view.Tables = append(view.Tables, projectTable(sec, &g, snapshot))
	}

	for _, f := range sec.Fields {
		if inTable[f.Key] {
			continue
		}
		view.Fields = append(view.Fields, fieldView(f, snapshot[f.Key]))
	}
	return view
}

// projectTable 渲染单个表格组。
// 首列为行标签列；其余每列在行映射中找字段 key：
// 映射缺失 → 空占位符，字段不存在 → 显式错误标记（其余单元格照常渲染）。
func projectTable(sec *model.SectionDefinition, g *model.TableGroupDefinition, snapshot map[string]string) TableView {
	byKey := make(map[string]model.FieldDefinition, len(sec.Fields))
	for _, f := range sec.Fields {
		byKey[f.Key] = f
	}

	table := TableView{
		ID:      g.ID,
		Title:   g.Title,
		Columns: g.ColumnHeaders,
	}

	for _, row := range g.Rows {
		rowView := TableRowView{Label: row.Label}
		for _, col := range g.ColumnHeaders[1:] {
			fieldKey, ok := row.FieldKeys[col.Key]
			if !ok || fieldKey == "" {
				rowView.Cells = append(rowView.Cells, TableCellView{Kind: CellEmpty, Text: EmptyCellPlaceholder})
				continue
			}
			def, ok := byKey[fieldKey]
			if !ok {
				rowView.Cells = append(rowView.Cells, TableCellView{Kind: CellError, Text: ConfigErrorMarker})
				continue
			}
			fv := fieldView(def, snapshot[fieldKey])
			rowView.Cells = append(rowView.Cells, TableCellView{Kind: CellField, Field: &fv})
		}
		table.Rows = append(table.Rows, rowView)
	}
	return table
}

func fieldView(f model.FieldDefinition, value string) FieldView {
	return FieldView{
		Key:     f.Key,
		Label:   f.Label,
		Type:    f.Type,
		Options: f.Options,
		Value:   value,
	}
}

func isCompleted(value string) bool {
	for _, r := range value {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
