// Package controller 表单控制器：把抓取、对账、翻译、导出串成
// 每个用户一份的会话状态机，并把状态落到 SQLite 供重启恢复。
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/MaxiE97/homologation-vehicle/internal/exporter"
	"github.com/MaxiE97/homologation-vehicle/internal/i18n"
	"github.com/MaxiE97/homologation-vehicle/internal/ingest"
	"github.com/MaxiE97/homologation-vehicle/internal/model"
	"github.com/MaxiE97/homologation-vehicle/internal/recon"
	"github.com/MaxiE97/homologation-vehicle/internal/store"
)

// Phase 表单阶段
type Phase string

const (
	PhaseEmpty      Phase = "empty"      // 未填充
	PhasePopulated  Phase = "populated"  // 已抓取填充
	PhaseEditing    Phase = "editing"    // 填充后有人工修改
	PhaseSubmitting Phase = "submitting" // 导出进行中
)

var (
	// ErrIngestBusy 已有抓取在执行
	ErrIngestBusy = errors.New("an ingest operation is already in progress")
	// ErrExportBusy 已有导出在执行
	ErrExportBusy = errors.New("an export operation is already in progress")
	// ErrEmptyForm 表单为空，无法执行该操作
	ErrEmptyForm = errors.New("form has no data yet")
	// ErrUnsupportedLocale 目标语言不在支持列表内
	ErrUnsupportedLocale = errors.New("unsupported target language")
	// ErrDownloadLimit 试用账号下载已达上限
	ErrDownloadLimit = errors.New("trial download limit reached")
)

// FormController 单用户表单会话
type FormController struct {
	mu sync.Mutex

	userID string
	db     *store.Store
	client ingest.Client
	exp    *exporter.Exporter

	recon   *recon.Store
	locale  string
	request model.IngestRequest
	edited  bool

	ingesting  bool
	exporting  bool
	trialLimit int
}

// NewFormController 创建表单控制器
func NewFormController(userID string, db *store.Store, client ingest.Client, trialLimit int) *FormController {
	return &FormController{
		userID:     userID,
		db:         db,
		client:     client,
		exp:        exporter.NewExporter(),
		recon:      recon.NewStore(),
		locale:     i18n.CanonicalLocale,
		trialLimit: trialLimit,
	}
}

// restore 从 form_state 表恢复会话（启动后首次访问时调用）
func (fc *FormController) restore() error {
	snapRaw, err := fc.db.GetState(fc.userID, store.StateKeySnapshot)
	if err != nil {
		return err
	}
	if snapRaw == "" {
		return nil
	}

	var snapshot, original map[string]string
	var observations map[string]map[string]string
	if err := json.Unmarshal([]byte(snapRaw), &snapshot); err != nil {
		return fmt.Errorf("failed to decode stored snapshot: %w", err)
	}
	origRaw, err := fc.db.GetState(fc.userID, store.StateKeyOriginal)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(origRaw), &original); err != nil {
		return fmt.Errorf("failed to decode stored original snapshot: %w", err)
	}
	obsRaw, err := fc.db.GetState(fc.userID, store.StateKeyObservations)
	if err != nil {
		return err
	}
	if obsRaw != "" {
		if err := json.Unmarshal([]byte(obsRaw), &observations); err != nil {
			return fmt.Errorf("failed to decode stored observations: %w", err)
		}
	}

	fc.recon.Restore(snapshot, original, observations)

	if locale, err := fc.db.GetState(fc.userID, store.StateKeyLocale); err == nil && locale != "" {
		fc.locale = locale
	}
	url1, _ := fc.db.GetState(fc.userID, store.StateKeyURL1)
	url2, _ := fc.db.GetState(fc.userID, store.StateKeyURL2)
	url3, _ := fc.db.GetState(fc.userID, store.StateKeyURL3)
	trans, _ := fc.db.GetState(fc.userID, store.StateKeyTransmission)
	fc.request = model.IngestRequest{URL1: url1, URL2: url2, URL3: url3, TransmissionOption: trans}
	return nil
}

// persist 把当前会话写回 form_state 表
func (fc *FormController) persist() error {
	snap, err := json.Marshal(fc.recon.Snapshot())
	if err != nil {
		return err
	}
	orig, err := json.Marshal(fc.recon.OriginalSnapshot())
	if err != nil {
		return err
	}
	obs, err := json.Marshal(fc.recon.Observations())
	if err != nil {
		return err
	}
	return fc.db.SetStates(fc.userID, map[string]string{
		store.StateKeySnapshot:     string(snap),
		store.StateKeyOriginal:     string(orig),
		store.StateKeyObservations: string(obs),
		store.StateKeyLocale:       fc.locale,
		store.StateKeyURL1:         fc.request.URL1,
		store.StateKeyURL2:         fc.request.URL2,
		store.StateKeyURL3:         fc.request.URL3,
		store.StateKeyTransmission: fc.request.TransmissionOption,
	})
}

// Ingest 抓取三个站点并整表替换表单。
// 正在抓取或导出时拒绝，避免并发写坏快照。
func (fc *FormController) Ingest(ctx context.Context, req model.IngestRequest, allowedHosts []string) error {
	if err := ingest.ValidateRequest(req, allowedHosts); err != nil {
		return err
	}

	fc.mu.Lock()
	if fc.ingesting {
		fc.mu.Unlock()
		return ErrIngestBusy
	}
	if fc.exporting {
		fc.mu.Unlock()
		return ErrExportBusy
	}
	fc.ingesting = true
	fc.mu.Unlock()

	defer func() {
		fc.mu.Lock()
		fc.ingesting = false
		fc.mu.Unlock()
	}()

	rows, err := fc.client.Fetch(ctx, req)
	if err != nil {
		return fmt.Errorf("vehicle data fetch failed: %w", err)
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.recon.Ingest(rows)
	fc.request = req
	fc.locale = i18n.CanonicalLocale
	fc.edited = false
	return fc.persist()
}

// SetFinalValue 人工编辑最终值
func (fc *FormController) SetFinalValue(key, value string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.recon.Empty() {
		return ErrEmptyForm
	}
	fc.recon.SetFinalValue(key, value)
	fc.edited = true
	return fc.persist()
}

// SetSourceValue 人工修正某一来源的观测值
func (fc *FormController) SetSourceValue(key, site, value string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.recon.Empty() {
		return ErrEmptyForm
	}
	if !validSite(site) {
		return fmt.Errorf("unknown source site: %s", site)
	}
	fc.recon.SetSourceValue(key, site, value)
	fc.edited = true
	return fc.persist()
}

func validSite(site string) bool {
	for _, s := range model.Sites {
		if s == site {
			return true
		}
	}
	return false
}

// Translate 把最终值快照翻译到目标语言。
// 翻译始终从抓取时冻结的原始快照推导，反复切换语言不会漂移。
// 返回值 changed 表示是否至少有一个字段被替换，供上层提示用户
// “已翻译”还是“没有可套用的预置翻译”。
func (fc *FormController) Translate(locale string) (bool, error) {
	normalized, ok := i18n.NormalizeLocale(locale)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedLocale, locale)
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.recon.Empty() {
		return false, ErrEmptyForm
	}
	translated, changed := i18n.Translate(fc.recon.OriginalSnapshot(), normalized)
	fc.recon.ReplaceSnapshot(translated)
	fc.locale = normalized
	fc.edited = false
	return changed, fc.persist()
}

// ExportResult 导出结果
type ExportResult struct {
	File     *excelize.File
	Filename string
}

// Export 生成证书文档并登记下载历史。
// role 为 trial 时检查下载次数上限。
func (fc *FormController) Export(role string) (*ExportResult, error) {
	fc.mu.Lock()
	if fc.exporting {
		fc.mu.Unlock()
		return nil, ErrExportBusy
	}
	if fc.recon.Empty() {
		fc.mu.Unlock()
		return nil, ErrEmptyForm
	}
	fc.exporting = true
	snapshot := fc.recon.Snapshot()
	locale := fc.locale
	fc.mu.Unlock()

	defer func() {
		fc.mu.Lock()
		fc.exporting = false
		fc.mu.Unlock()
	}()

	if role == model.RoleTrial && fc.trialLimit > 0 {
		count, err := fc.db.CountDownloads(fc.userID)
		if err != nil {
			return nil, err
		}
		if count >= fc.trialLimit {
			return nil, ErrDownloadLimit
		}
	}

	file, err := fc.exp.Export(snapshot, locale)
	if err != nil {
		return nil, fmt.Errorf("certificate export failed: %w", err)
	}

	cds := snapshot["CdS"]
	if _, err := fc.db.CreateDownload(fc.userID, cds, locale); err != nil {
		_ = file.Close()
		return nil, err
	}

	return &ExportResult{
		File:     file,
		Filename: exporter.SuggestedFilename(snapshot),
	}, nil
}

// Reset 清空会话与持久化状态
func (fc *FormController) Reset() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.recon = recon.NewStore()
	fc.locale = i18n.CanonicalLocale
	fc.request = model.IngestRequest{}
	fc.edited = false
	return fc.db.ClearState(fc.userID)
}

// Status 会话状态快照
type Status struct {
	Phase     Phase  `json:"phase"`
	Ingesting bool   `json:"ingesting"`
	Exporting bool   `json:"exporting"`
	Locale    string `json:"language"`
	Completed int    `json:"completedFields"`
	Total     int    `json:"totalFields"`
}

// Status 返回当前阶段与完成度
func (fc *FormController) Status() Status {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	completed, total := fc.recon.CompletionStats()
	phase := PhaseEmpty
	switch {
	case fc.exporting:
		phase = PhaseSubmitting
	case fc.recon.Populated() && fc.edited:
		phase = PhaseEditing
	case fc.recon.Populated():
		phase = PhasePopulated
	}

	return Status{
		Phase:     phase,
		Ingesting: fc.ingesting,
		Exporting: fc.exporting,
		Locale:    fc.locale,
		Completed: completed,
		Total:     total,
	}
}

// Recon 暴露只读对账视图给投影层
func (fc *FormController) Recon() *recon.Store {
	return fc.recon
}

// Locale 当前表单语言
func (fc *FormController) Locale() string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.locale
}

// Request 上次抓取请求（用于回显 URL）
func (fc *FormController) Request() model.IngestRequest {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.request
}

// Registry 按用户缓存表单控制器，首次访问时从数据库恢复会话
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*FormController

	db         *store.Store
	client     ingest.Client
	trialLimit int
}

// NewRegistry 创建控制器注册表
func NewRegistry(db *store.Store, client ingest.Client, trialLimit int) *Registry {
	return &Registry{
		controllers: make(map[string]*FormController),
		db:          db,
		client:      client,
		trialLimit:  trialLimit,
	}
}

// ForUser 取出（或恢复）该用户的控制器
func (r *Registry) ForUser(userID string) (*FormController, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fc, ok := r.controllers[userID]; ok {
		return fc, nil
	}
	fc := NewFormController(userID, r.db, r.client, r.trialLimit)
	if err := fc.restore(); err != nil {
		return nil, err
	}
	r.controllers[userID] = fc
	return fc, nil
}

// Evict 丢弃该用户的内存会话（登出时调用，下次访问重新恢复）
func (r *Registry) Evict(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, userID)
}
