// Package recon 对账存储：每个字段持有最多三个来源观测值和一个最终值。
// 摄取整体替换，编辑逐格覆盖，不保留历史。
package recon

import (
	"strings"
	"sync"

	"github.com/MaxiE97/homologation-vehicle/internal/model"
	"github.com/MaxiE97/homologation-vehicle/internal/schema"
)

// Store 内存对账存储
//
// 独占持有来源观测值、最终值快照和摄取时冻结的原始快照。
// 原始快照是翻译操作的不变基线，摄取后只能被下一次摄取替换。
type Store struct {
	mu sync.RWMutex

	observations map[string]map[string]string // fieldKey → site → 观测值
	snapshot     map[string]string            // fieldKey → 最终值
	original     map[string]string            // 摄取时冻结的规范语言基线
	populated    bool
}

// NewStore 创建空的对账存储
func NewStore() *Store {
	return &Store{
		observations: make(map[string]map[string]string),
		snapshot:     make(map[string]string),
		original:     make(map[string]string),
	}
}

// Ingest 用摄取结果整体替换存储内容。
// rows 未覆盖的字段不保留任何旧状态（整体替换而非合并）。
// 最终值为空的字段写入空字符串，绝不缺省为 0 或首个枚举项。
func (s *Store) Ingest(rows []model.VehicleRow) {
	observations := make(map[string]map[string]string, len(rows))
	snapshot := make(map[string]string, len(rows))

	for _, row := range rows {
		if row.Key == "" {
			continue
		}
		sites := make(map[string]string, len(model.Sites))
		for _, site := range model.Sites {
			sites[site] = row.SiteValue(site)
		}
		observations[row.Key] = sites
		snapshot[row.Key] = row.FinalValue
	}

	original := make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		original[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations = observations
	s.snapshot = snapshot
	s.original = original
	s.populated = true
}

// Restore 从持久化状态恢复（启动时调用一次）
func (s *Store) Restore(snapshot, original map[string]string, observations map[string]map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		s.snapshot[k] = v
	}
	s.original = make(map[string]string, len(original))
	for k, v := range original {
		s.original[k] = v
	}
	s.observations = make(map[string]map[string]string, len(observations))
	for k, sites := range observations {
		copied := make(map[string]string, len(sites))
		for site, v := range sites {
			copied[site] = v
		}
		s.observations[k] = copied
	}
	s.populated = len(s.snapshot) > 0
}

// SetSourceValue 覆盖单个来源观测值；不影响最终值。
// 未知的 fieldKey 直接插入，本层没有错误条件。
func (s *Store) SetSourceValue(fieldKey, site, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sites, ok := s.observations[fieldKey]
	if !ok {
		sites = make(map[string]string, len(model.Sites))
		s.observations[fieldKey] = sites
	}
	sites[site] = value
}

// SetFinalValue 覆盖最终值快照中的一项；不影响原始基线
func (s *Store) SetFinalValue(fieldKey, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot[fieldKey] = value
}

// ReplaceSnapshot 整体替换最终值快照（翻译操作使用）；原始基线不变
func (s *Store) ReplaceSnapshot(snapshot map[string]string) {
	copied := make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		copied[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = copied
}

// Snapshot 返回最终值快照拷贝
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.snapshot))
	for k, v := range s.snapshot {
		out[k] = v
	}
	return out
}

// OriginalSnapshot 返回原始基线拷贝
func (s *Store) OriginalSnapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.original))
	for k, v := range s.original {
		out[k] = v
	}
	return out
}

// Observations 返回来源观测值拷贝
func (s *Store) Observations() map[string]map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string]string, len(s.observations))
	for k, sites := range s.observations {
		copied := make(map[string]string, len(sites))
		for site, v := range sites {
			copied[site] = v
		}
		out[k] = copied
	}
	return out
}

// Populated 是否已有摄取数据
func (s *Store) Populated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.populated
}

// Empty 最终值快照是否为空
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot) == 0
}

// CompletionStats 完成度统计。
// total 恒等于目录字段总数，与摄取状态无关；从未摄取的字段计为未完成。
// completed 统计去除首尾空白后非空的最终值。
func (s *Store) CompletionStats() (completed, total int) {
	total = len(schema.AllFields())

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.snapshot {
		if strings.TrimSpace(v) != "" {
			completed++
		}
	}
	return completed, total
}
