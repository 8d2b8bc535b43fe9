package i18n

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// 幂等性质：任意语言切换序列之后回到规范语言，必须逐字段还原基线快照。
func TestProperty_TranslateIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	locales := make([]string, len(SupportedLanguages))
	for i, l := range SupportedLanguages {
		locales[i] = l.Code
	}

	// 值域混合：翻译表命中的规范值和任意字符串
	knownValues := []string{
		"Yes", "No", "Diesel", "Petrol", "Electric",
		"Manual", "Automatic", "Ventilated discs / Disc",
		"Spark Ignition, 4-stroke", "4, in line",
	}

	genValue := gen.OneGenOf(
		gen.OneConstOf(toAny(knownValues)...),
		gen.AlphaString(),
	)
	genLocale := gen.OneConstOf(toAny(locales)...)

	properties.Property("translate(en) after translate(X) restores the original", prop.ForAll(
		func(value, intermediate string) bool {
			original := map[string]string{
				"direct_injection": value,
				"fuel":             value,
				"braking_system_2": value,
				"make":             value,
			}

			translated, _ := Translate(original, intermediate)
			_ = translated // 中间结果不参与还原：翻译始终从基线派生

			restored, changed := Translate(original, CanonicalLocale)
			if changed {
				return false
			}
			if len(restored) != len(original) {
				return false
			}
			for k, v := range original {
				if restored[k] != v {
					return false
				}
			}
			return true
		},
		genValue,
		genLocale,
	))

	properties.Property("translating twice to the same locale yields the same snapshot", prop.ForAll(
		func(value, locale string) bool {
			original := map[string]string{"fuel": value, "gearbox_type": value}

			first, _ := Translate(original, locale)
			second, _ := Translate(original, locale)

			for k, v := range first {
				if second[k] != v {
					return false
				}
			}
			return len(first) == len(second)
		},
		genValue,
		genLocale,
	))

	properties.TestingRun(t)
}

func toAny(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
