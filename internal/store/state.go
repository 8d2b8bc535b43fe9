package store

import (
	"database/sql"
	"fmt"
)

// 持久化表单状态的键。带应用前缀命名空间，
// 每次变更后同步写入，启动时读取一次，登出时整体清空。
const (
	StateKeySnapshot     = "homologation.form_snapshot"       // 序列化的最终值快照
	StateKeyOriginal     = "homologation.original_snapshot"   // 序列化的原始基线
	StateKeyObservations = "homologation.source_observations" // 序列化的来源观测值
	StateKeyURL1         = "homologation.pending_url1"
	StateKeyURL2         = "homologation.pending_url2"
	StateKeyURL3         = "homologation.pending_url3"
	StateKeyTransmission = "homologation.transmission_option"
	StateKeyLocale       = "homologation.selected_locale"
)

// GetState 读取单个状态项；不存在返回空串
func (s *Store) GetState(userID, key string) (string, error) {
	var value string
	err := s.db.QueryRow(`
		SELECT value FROM form_state WHERE user_id = ? AND key = ?
	`, userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read form state %q: %w", key, err)
	}
	return value, nil
}

// SetState 写入单个状态项
func (s *Store) SetState(userID, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO form_state (user_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, userID, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to write form state %q: %w", key, err)
	}
	return nil
}

// SetStates 批量写入状态项（单事务，整组落盘或整组失败）
func (s *Store) SetStates(userID string, states map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin state tx: %w", err)
	}
	for key, value := range states {
		if _, err := tx.Exec(`
			INSERT INTO form_state (user_id, key, value) VALUES (?, ?, ?)
			ON CONFLICT(user_id, key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
		`, userID, key, value, value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to write form state %q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state tx: %w", err)
	}
	return nil
}

// ClearState 清空用户的全部持久化状态（登出时调用）
func (s *Store) ClearState(userID string) error {
	_, err := s.db.Exec(`DELETE FROM form_state WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear form state: %w", err)
	}
	return nil
}
