package ingest

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/MaxiE97/homologation-vehicle/internal/i18n"
	"github.com/MaxiE97/homologation-vehicle/internal/model"
	"github.com/MaxiE97/homologation-vehicle/internal/schema"
)

// MockClient 占位数据生成器：未配置外部处理服务时使用。
//
// 与真实服务相同的行集合与合并优先级（site2 > site1 > site3）。
// 推导不出的字段最终值保持为空字符串：空代表“尚未决定”，
// 绝不代入 0 或首个枚举项冒充用户选择。
type MockClient struct {
	seed int64
}

// NewMockClient 创建占位生成器；seed 固定时输出可复现
func NewMockClient(seed int64) *MockClient {
	return &MockClient{seed: seed}
}

// 翻译表覆盖字段的规范值直接取自翻译表本身，让占位数据能演示翻译流程。
// 排序保证固定 seed 下输出可复现。
var canonicalSamples = func() map[string][]string {
	samples := make(map[string][]string)
	keys := i18n.TranslatableFields()
	sort.Strings(keys)
	for _, key := range keys {
		values := make([]string, 0, len(i18n.FieldTranslations(key)))
		for v := range i18n.FieldTranslations(key) {
			values = append(values, v)
		}
		sort.Strings(values)
		samples[key] = values
	}
	return samples
}()

// Fetch 生成覆盖整个字段目录的占位行
func (m *MockClient) Fetch(_ context.Context, req model.IngestRequest) ([]model.VehicleRow, error) {
	rng := rand.New(rand.NewSource(m.seed))

	urls := req.URLs()
	fields := schema.AllFields()
	rows := make([]model.VehicleRow, 0, len(fields))

	for _, f := range fields {
		row := model.VehicleRow{Key: f.Key}

		values := [3]string{}
		for i := range values {
			// 没给该来源的 URL 就不模拟它的观测值
			if urls[i] == "" {
				continue
			}
			// 三成概率该来源缺数据
			if rng.Float64() < 0.3 {
				continue
			}
			values[i] = m.sampleValue(rng, f)
		}
		row.Site1Value, row.Site2Value, row.Site3Value = values[0], values[1], values[2]

		// 合并优先级 site2 > site1 > site3；全缺则保持为空
		switch {
		case row.Site2Value != "":
			row.FinalValue = row.Site2Value
		case row.Site1Value != "":
			row.FinalValue = row.Site1Value
		case row.Site3Value != "":
			row.FinalValue = row.Site3Value
		}

		rows = append(rows, row)
	}
	return rows, nil
}

func (m *MockClient) sampleValue(rng *rand.Rand, f model.FieldDefinition) string {
	if samples, ok := canonicalSamples[f.Key]; ok {
		return samples[rng.Intn(len(samples))]
	}
	switch f.Type {
	case model.TypeNumber:
		return fmt.Sprintf("%d", 10+rng.Intn(4990))
	case model.TypeSelect:
		return f.Options[rng.Intn(len(f.Options))]
	default:
		return fmt.Sprintf("Sample %s %d", f.Key, rng.Intn(1000))
	}
}
