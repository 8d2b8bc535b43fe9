package i18n

import "testing"

// TestTranslateIdenticalInGerman 场景：德语中拼写相同的值保持不变
func TestTranslateIdenticalInGerman(t *testing.T) {
	original := map[string]string{
		"fuel":              "Diesel",
		"working_principle": "Common rail",
	}

	out, _ := Translate(original, "de")

	if out["fuel"] != "Diesel" {
		t.Errorf("fuel = %q, want Diesel", out["fuel"])
	}
	if out["working_principle"] != "Common rail" {
		t.Errorf("working_principle = %q, want Common rail", out["working_principle"])
	}
}

// TestTranslateRoundTrip 场景：翻译到德语再还原英语
func TestTranslateRoundTrip(t *testing.T) {
	original := map[string]string{"direct_injection": "Yes"}

	de, changed := Translate(original, "de")
	if !changed {
		t.Error("Translate(de) should report a change")
	}
	if de["direct_injection"] != "Ja" {
		t.Errorf("direct_injection(de) = %q, want Ja", de["direct_injection"])
	}

	en, _ := Translate(original, "en")
	if en["direct_injection"] != "Yes" {
		t.Errorf("direct_injection(en) = %q, want Yes", en["direct_injection"])
	}
}

// TestTranslateComposite 场景：复合值逐段翻译后拼接
func TestTranslateComposite(t *testing.T) {
	original := map[string]string{"braking_system_2": "Ventilated discs / Disc"}

	out, changed := Translate(original, "fr")
	if !changed {
		t.Error("composite translation should report a change")
	}
	if out["braking_system_2"] != "Disques ventilés / Disques" {
		t.Errorf("braking_system_2(fr) = %q, want %q", out["braking_system_2"], "Disques ventilés / Disques")
	}
}

// TestTranslateCompositePartialMiss 复合值中未命中的段原样保留
func TestTranslateCompositePartialMiss(t *testing.T) {
	original := map[string]string{"braking_system_2": "Ventilated discs / X99"}

	out, changed := Translate(original, "de")
	if !changed {
		t.Error("partially translated composite should report a change")
	}
	if out["braking_system_2"] != "Belüftete Scheiben / X99" {
		t.Errorf("braking_system_2(de) = %q", out["braking_system_2"])
	}
}

// TestTranslateMissIsPassthrough 查表未命中不是错误，原值放行
func TestTranslateMissIsPassthrough(t *testing.T) {
	original := map[string]string{
		"make": "Volkswagen", // 字段不在翻译表
		"fuel": "Hydrogen",   // 字段在表、值不在
	}

	out, changed := Translate(original, "pl")
	if changed {
		t.Error("no applicable translation: changed should be false")
	}
	if out["make"] != "Volkswagen" || out["fuel"] != "Hydrogen" {
		t.Errorf("passthrough failed: %v", out)
	}
}

// TestTranslateDoesNotMutateOriginal 翻译不得修改基线快照
func TestTranslateDoesNotMutateOriginal(t *testing.T) {
	original := map[string]string{"gearbox_type": "Manual"}

	out, _ := Translate(original, "de")
	if out["gearbox_type"] != "Handbuch" {
		t.Fatalf("gearbox_type(de) = %q", out["gearbox_type"])
	}
	if original["gearbox_type"] != "Manual" {
		t.Error("Translate mutated the original snapshot")
	}
}

// TestNormalizeLocale 语言标记归一
func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"de", "de", true},
		{"de-DE", "de", true},
		{"en-GB", "en", true},
		{"FR", "fr", true},
		{"zz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeLocale(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NormalizeLocale(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
