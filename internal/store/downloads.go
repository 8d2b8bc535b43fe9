package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MaxiE97/homologation-vehicle/internal/model"
)

// ErrDownloadNotFound 下载记录不存在或不属于该用户
var ErrDownloadNotFound = errors.New("download record not found")

// CreateDownload 记录一次导出下载，返回记录 id
func (s *Store) CreateDownload(userID, cdsIdentifier, language string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO downloads (id, user_id, cds_identifier, language, status)
		VALUES (?, ?, ?, ?, ?)
	`, id, userID, cdsIdentifier, language, model.DownloadStatusOk)
	if err != nil {
		return "", fmt.Errorf("failed to create download record: %w", err)
	}
	return id, nil
}

// CountDownloads 用户的下载总数（trial 限额判断用）
func (s *Store) CountDownloads(userID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM downloads WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count downloads: %w", err)
	}
	return n, nil
}

// ListDownloads 用户的下载历史（按时间倒序）
func (s *Store) ListDownloads(userID string) ([]model.DownloadRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, cds_identifier, language, status, downloaded_at
		FROM downloads WHERE user_id = ?
		ORDER BY downloaded_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	defer rows.Close()

	var out []model.DownloadRecord
	for rows.Next() {
		var r model.DownloadRecord
		if err := rows.Scan(&r.ID, &r.CdSIdentifier, &r.Language, &r.Status, &r.DownloadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetDownloadStatus 更新下载记录状态；只能改自己的记录
func (s *Store) SetDownloadStatus(userID, downloadID, status string) error {
	res, err := s.db.Exec(`
		UPDATE downloads SET status = ? WHERE id = ? AND user_id = ?
	`, status, downloadID, userID)
	if err != nil {
		return fmt.Errorf("failed to update download status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrDownloadNotFound
	}
	return nil
}
