// Package exporter 证书文档导出：把最终值快照按字段目录的分区布局
// 渲染为 xlsx 工作簿，表格组按矩阵输出，Remarks 块按模板规则压实。
package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MaxiE97/homologation-vehicle/internal/model"
	"github.com/MaxiE97/homologation-vehicle/internal/schema"
)

const sheetName = "Certificate"

// Exporter 证书导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// remarksBlock Remarks 压实规则：有效值（非空且非 "-"）带标签顶到前面，
// 剩余行用 "-" 填充，保持四行槽位
var remarksBlock = []struct {
	key   string
	label string
}{
	{"remarks_6_1", "Zu* 6.1.:"},
	{"remarks_7_1", "Zu* 7.1.:"},
	{"remarks_8", "Zu* 8.:"},
	{"remarks_11", "Zu* 11.:"},
}

// Export 生成证书工作簿。
// snapshot 为目标语言的最终值快照；locale 只进文档头，不参与翻译。
func (e *Exporter) Export(snapshot map[string]string, locale string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	sectionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	row := 1
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Vehicle Homologation Certificate")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), titleStyle)
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("Language: %s", locale))
	row += 2

	for _, sec := range schema.SectionLayout() {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), sec.Title)
		f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), sectionStyle)
		row++

		if sec.Title == "Remarks and Alternatives Types" {
			row = e.writeRemarks(f, snapshot, row)
			row = e.writeFields(f, remainingRemarksFields(&sec), snapshot, row)
			row++
			continue
		}

		inTable := sec.InTableSet()
		var loose []model.FieldDefinition
		for _, field := range sec.Fields {
			if !inTable[field.Key] {
				loose = append(loose, field)
			}
		}
		row = e.writeFields(f, loose, snapshot, row)

		for _, g := range sec.TableGroups {
			row = e.writeTableGroup(f, &sec, &g, snapshot, row, headerStyle)
		}
		row++
	}

	f.SetColWidth(sheetName, "A", "A", 55)
	f.SetColWidth(sheetName, "B", "D", 24)
	f.SetActiveSheet(0)
	return f, nil
}

// writeFields 通用 label/value 两列输出
func (e *Exporter) writeFields(f *excelize.File, fields []model.FieldDefinition, snapshot map[string]string, row int) int {
	for _, field := range fields {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), field.Label)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), snapshot[field.Key])
		row++
	}
	return row
}

// writeRemarks Remarks 四行槽位压实输出
func (e *Exporter) writeRemarks(f *excelize.File, snapshot map[string]string, row int) int {
	var formatted []string
	for _, r := range remarksBlock {
		value := strings.TrimSpace(snapshot[r.key])
		if value != "" && value != "-" {
			formatted = append(formatted, r.label+" "+value)
		}
	}

	for i := 0; i < len(remarksBlock); i++ {
		line := "-"
		if i < len(formatted) {
			line = formatted[i]
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("Remarks (line %d)", i+1))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line)
		row++
	}
	return row
}

// remainingRemarksFields Remarks 分区中不属于压实块的字段（备选型式等）
func remainingRemarksFields(sec *model.SectionDefinition) []model.FieldDefinition {
	inBlock := make(map[string]bool, len(remarksBlock))
	for _, r := range remarksBlock {
		inBlock[r.key] = true
	}
	var out []model.FieldDefinition
	for _, f := range sec.Fields {
		if !inBlock[f.Key] {
			out = append(out, f)
		}
	}
	return out
}

// writeTableGroup 矩阵输出：首行列头，之后每行行标签加单元格值
func (e *Exporter) writeTableGroup(f *excelize.File, sec *model.SectionDefinition, g *model.TableGroupDefinition, snapshot map[string]string, row int, headerStyle int) int {
	if g.Title != "" {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), g.Title)
		row++
	}

	for i, col := range g.ColumnHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheetName, cell, col.Label)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	row++

	byKey := make(map[string]bool, len(sec.Fields))
	for _, field := range sec.Fields {
		byKey[field.Key] = true
	}

	for _, tr := range g.Rows {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tr.Label)
		for i, col := range g.ColumnHeaders[1:] {
			cell, _ := excelize.CoordinatesToCellName(i+2, row)
			fieldKey, ok := tr.FieldKeys[col.Key]
			switch {
			case !ok || fieldKey == "":
				f.SetCellValue(sheetName, cell, "-")
			case !byKey[fieldKey]:
				// 配置引用了不存在的字段：就地亮出错误，不中断导出
				f.SetCellValue(sheetName, cell, "#CONFIG")
			default:
				f.SetCellValue(sheetName, cell, snapshot[fieldKey])
			}
		}
		row++
	}
	return row
}

// SuggestedFilename 导出文件名：homologacion_<CdS>.xlsx，空格转下划线
func SuggestedFilename(snapshot map[string]string) string {
	cds := strings.TrimSpace(snapshot["CdS"])
	if cds == "" {
		cds = "N-A"
	}
	return fmt.Sprintf("homologacion_%s.xlsx", strings.ReplaceAll(cds, " ", "_"))
}
