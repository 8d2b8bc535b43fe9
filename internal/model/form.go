package model

import "time"

// 数据来源站点标识
const (
	SiteVoertuig     = "site1" // Voertuig
	SiteTypenscheine = "site2" // Typenscheine
	SiteAutoData     = "site3" // Auto-data
)

// Sites 固定的来源列顺序
var Sites = []string{SiteVoertuig, SiteTypenscheine, SiteAutoData}

// VehicleRow 摄取服务返回的单个字段行
// 三个来源观测值加上推荐的最终值；缺失用空字符串表示。
type VehicleRow struct {
	Key        string `json:"key"`
	Site1Value string `json:"site1Value"`
	Site2Value string `json:"site2Value"`
	Site3Value string `json:"site3Value"`
	FinalValue string `json:"finalValue"`
}

// SiteValue 按站点取值
func (r *VehicleRow) SiteValue(site string) string {
	switch site {
	case SiteVoertuig:
		return r.Site1Value
	case SiteTypenscheine:
		return r.Site2Value
	case SiteAutoData:
		return r.Site3Value
	}
	return ""
}

// IngestRequest 摄取请求：最多三个来源 URL 与变速箱选项
type IngestRequest struct {
	URL1               string `json:"url1"`
	URL2               string `json:"url2"`
	URL3               string `json:"url3"`
	TransmissionOption string `json:"transmissionOption"`
}

// URLs 以站点顺序返回三个 URL（允许为空）
func (r *IngestRequest) URLs() []string {
	return []string{r.URL1, r.URL2, r.URL3}
}

// DownloadRecord 下载历史记录
type DownloadRecord struct {
	ID            string    `json:"id"`
	CdSIdentifier string    `json:"cdsIdentifier"`
	Language      string    `json:"language"`
	DownloadedAt  time.Time `json:"downloadedAt"`
	Status        string    `json:"status"` // Ok / Under review
}

// 下载状态
const (
	DownloadStatusOk          = "Ok"
	DownloadStatusUnderReview = "Under review"
)

// UserProfile 用户资料与下载历史
type UserProfile struct {
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	Downloads []DownloadRecord `json:"downloads"`
}

// 用户角色
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleTrial = "trial" // trial 角色有下载次数上限
)
