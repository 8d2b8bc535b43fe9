package model

// ValueType 字段值类型
type ValueType string

const (
	TypeText     ValueType = "text"     // 短文本
	TypeTextarea ValueType = "textarea" // 长文本
	TypeNumber   ValueType = "number"   // 数值
	TypeSelect   ValueType = "select"   // 枚举选择
)

// FieldDefinition 字段定义（启动时从静态目录构建，之后只读）
type FieldDefinition struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Type    ValueType `json:"type"`
	Options []string  `json:"options,omitempty"` // 仅 select 类型
}

// TableColumn 表格组列头
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TableRow 表格组行定义
// FieldKeys 将列头 key 映射到该单元格对应的字段 key；
// 缺失的列在渲染时显示空占位符。
type TableRow struct {
	Label     string            `json:"rowLabel"`
	FieldKeys map[string]string `json:"fieldKeys"`
}

// TableGroupDefinition 表格组定义
// 把一个 section 内的若干平铺字段重投影为 行×列 矩阵展示。
// FieldsInTable 列出被矩阵覆盖的字段 key，这些字段不再单独渲染。
type TableGroupDefinition struct {
	ID            string        `json:"id"`
	Title         string        `json:"title,omitempty"`
	ColumnHeaders []TableColumn `json:"columnHeaders"`
	Rows          []TableRow    `json:"rows"`
	FieldsInTable []string      `json:"fieldsInTable"`
}

// SectionDefinition 分区定义
type SectionDefinition struct {
	Title       string                 `json:"title"`
	Color       string                 `json:"color"`
	Fields      []FieldDefinition      `json:"fields"`
	TableGroups []TableGroupDefinition `json:"tableGroups,omitempty"`
}

// InTableSet 返回被任意表格组覆盖的字段 key 集合
func (s *SectionDefinition) InTableSet() map[string]bool {
	set := make(map[string]bool)
	for _, g := range s.TableGroups {
		for _, key := range g.FieldsInTable {
			set[key] = true
		}
	}
	return set
}
