package i18n

import "strings"

// compositeSeparator 复合值分隔符：各部分独立翻译后重新拼接
const compositeSeparator = "/"

// Translate 从规范快照派生目标语言的最终值集。
//
// 目标为规范语言时直接返回原始快照的拷贝（还原，而非“翻译回去”）。
// 其它语言：含分隔符的值拆分后逐段翻译再以 " / " 拼接；
// 整值查表失败时原样放行。返回值 changed 表示是否至少有一个字段发生了替换。
// 始终以 original 为基线派生，任意语言切换序列都不会累积损耗。
func Translate(original map[string]string, locale string) (map[string]string, bool) {
	out := make(map[string]string, len(original))
	for k, v := range original {
		out[k] = v
	}
	if locale == CanonicalLocale {
		return out, false
	}

	changed := false
	for fieldKey, value := range original {
		table := predefined[fieldKey]
		if table == nil {
			continue
		}

		if strings.Contains(value, compositeSeparator) {
			parts := strings.Split(value, compositeSeparator)
			translated := make([]string, len(parts))
			partChanged := false
			for i, part := range parts {
				trimmed := strings.TrimSpace(part)
				if t, ok := table[trimmed][locale]; ok {
					translated[i] = t
					partChanged = true
				} else {
					translated[i] = trimmed
				}
			}
			// 整个复合值都查不到时原样放行，不重排格式
			if partChanged {
				out[fieldKey] = strings.Join(translated, " "+compositeSeparator+" ")
				changed = true
			}
			continue
		}

		if t, ok := table[value][locale]; ok {
			out[fieldKey] = t
			changed = true
		}
	}
	return out, changed
}
