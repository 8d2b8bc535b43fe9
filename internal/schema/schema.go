// Package schema 静态字段目录：整车认证证书的全部数据字段，
// 按分区组织，并声明 NEDC/WLTP 油耗矩阵两个表格组。
// 进程生命周期内恒定；配置错误属于构建期缺陷（见 Validate）。
package schema

import (
	"fmt"

	"github.com/MaxiE97/homologation-vehicle/internal/model"
)

// nedcTableGroup 47. CO2 排放/油耗 NEDC 值
var nedcTableGroup = model.TableGroupDefinition{
	ID:    "consumptionNEDC",
	Title: "47. CO2 emissions/fuel consumption NEDC values",
	ColumnHeaders: []model.TableColumn{
		{Key: "condition", Label: "Condition"},
		{Key: "co2", Label: "CO₂ (g/km)"},
		{Key: "fuel", Label: "Consumption (l/100km)"},
	},
	Rows: []model.TableRow{
		{Label: "Urban conditions", FieldKeys: map[string]string{"co2": "co2_urban_nedc", "fuel": "fuel_urban_nedc"}},
		{Label: "Extra-urban conditions", FieldKeys: map[string]string{"co2": "co2_extra_urban_nedc", "fuel": "fuel_extra_urban_nedc"}},
		{Label: "Combined", FieldKeys: map[string]string{"co2": "co2_combined_nedc", "fuel": "fuel_combined_nedc"}},
	},
	FieldsInTable: []string{
		"co2_urban_nedc", "fuel_urban_nedc",
		"co2_extra_urban_nedc", "fuel_extra_urban_nedc",
		"co2_combined_nedc", "fuel_combined_nedc",
	},
}

// wltpTableGroup 47.1. CO2 排放/油耗 WLTP 值
var wltpTableGroup = model.TableGroupDefinition{
	ID:    "consumptionWLTP",
	Title: "47.1. CO2 emissions/fuel consumption WLTP values",
	ColumnHeaders: []model.TableColumn{
		{Key: "condition", Label: "Condition"},
		{Key: "co2", Label: "CO₂ (g/km)"},
		{Key: "fuel", Label: "Consumption (l/100km)"},
	},
	Rows: []model.TableRow{
		{Label: "Low", FieldKeys: map[string]string{"co2": "co2_low_wltp", "fuel": "fuel_low_wltp"}},
		{Label: "Medium", FieldKeys: map[string]string{"co2": "co2_medium_wltp", "fuel": "fuel_medium_wltp"}},
		{Label: "High", FieldKeys: map[string]string{"co2": "co2_high_wltp", "fuel": "fuel_high_wltp"}},
		{Label: "Maximum value", FieldKeys: map[string]string{"co2": "co2_maximum_value_wltp", "fuel": "fuel_maximum_value_wltp"}},
		{Label: "Combined", FieldKeys: map[string]string{"co2": "co2_combined_wltp", "fuel": "fuel_combined_wltp"}},
	},
	FieldsInTable: []string{
		"co2_low_wltp", "fuel_low_wltp",
		"co2_medium_wltp", "fuel_medium_wltp",
		"co2_high_wltp", "fuel_high_wltp",
		"co2_maximum_value_wltp", "fuel_maximum_value_wltp",
		"co2_combined_wltp", "fuel_combined_wltp",
	},
}

var sections = []model.SectionDefinition{
	{
		Title: "Base Vehicle and Identification Details",
		Color: "yellow",
		Fields: []model.FieldDefinition{
			{Label: "CdS", Key: "CdS", Type: model.TypeText},
			{Label: "0.1 Make", Key: "make", Type: model.TypeText},
			{Label: "0.2 Type", Key: "type", Type: model.TypeText},
			{Label: "0.2 Variant", Key: "variant", Type: model.TypeText},
			{Label: "0.2 Version", Key: "version", Type: model.TypeText},
			{Label: "0.2.1 Commercial name(s)", Key: "commercial_name", Type: model.TypeText},
			{Label: "0.4 Category", Key: "category", Type: model.TypeText},
			{Label: "0.5 Name and address of manufacturer of the base vehicle", Key: "manufacturer_base_vehicle", Type: model.TypeText},
			{Label: "0.6 Manufacturer address - Line 1", Key: "manufacturer_address_line1", Type: model.TypeText},
			{Label: "0.6 Manufacturer address - Line 2", Key: "manufacturer_address_line2", Type: model.TypeText},
			{Label: "0.6 Manufacturer address - Line 3", Key: "manufacturer_address_line3", Type: model.TypeText},
			{Label: "Vehicle identification number", Key: "vin", Type: model.TypeText},
			{Label: "Location of the VIN", Key: "vin_location", Type: model.TypeText},
			{Label: "Implication number", Key: "implication_number", Type: model.TypeText},
			{Label: "Type described", Key: "type_described", Type: model.TypeText},
			{Label: "Date", Key: "date", Type: model.TypeText},
		},
	},
	{
		Title: "Remarks and Alternatives Types",
		Color: "blue",
		Fields: []model.FieldDefinition{
			{Label: "Remarks 6.1 - Length:(mm)", Key: "remarks_6_1", Type: model.TypeText},
			{Label: "Remarks 7.1 - Width:(mm)", Key: "remarks_7_1", Type: model.TypeText},
			{Label: "Remarks 8 - Height:(mm)", Key: "remarks_8", Type: model.TypeText},
			{Label: "Remarks 11 - Rear overhang:(mm)", Key: "remarks_11", Type: model.TypeText},
			{Label: "Alternative type 1", Key: "alternative_type_1", Type: model.TypeText},
			{Label: "Alternative type 2", Key: "alternative_type_2", Type: model.TypeText},
			{Label: "Alternative type 3", Key: "alternative_type_3", Type: model.TypeText},
		},
	},
	{
		Title: "Dimensions and Structure",
		Color: "cyan",
		Fields: []model.FieldDefinition{
			{Label: "1.    Number of axles / wheels:", Key: "axles", Type: model.TypeNumber},
			{Label: "2.    Powered axles:", Key: "powered_axles", Type: model.TypeNumber},
			{Label: "3.    Wheelbase :(mm)", Key: "wheelbase", Type: model.TypeNumber},
			{Label: "5.    Axle(s) track – 1/ 2: (mm)", Key: "axle_track", Type: model.TypeText},
			{Label: "6.1.  Length:(mm)", Key: "length", Type: model.TypeNumber},
			{Label: "7.1.  Width:(mm)", Key: "width", Type: model.TypeNumber},
			{Label: "8.    Height:(mm)", Key: "height", Type: model.TypeNumber},
			{Label: "11.   Rear overhang:(mm)", Key: "rear_overhang", Type: model.TypeNumber},
		},
	},
	{
		Title: "Masses and Loads",
		Color: "purple",
		Fields: []model.FieldDefinition{
			{Label: "12.1. Mass of the vehicle with bodywork in running order:(kg)", Key: "running_mass", Type: model.TypeNumber},
			{Label: "14.1. Technically permissable maximum laden mass:(kg)", Key: "max_mass", Type: model.TypeNumber},
			{Label: "14.2. Distribution of this mass among the axles – 1 / 2:(kg)", Key: "mass_distribution", Type: model.TypeText},
			{Label: "14.3. Technically perm. max mass on each axle – 1 / 2:(kg)", Key: "max_axle_mass", Type: model.TypeText},
			{Label: "16.   Maximum permissible roof load:(kg)", Key: "max_roof_load", Type: model.TypeNumber},
			{Label: "17.   Maximum mass of trailer – braked / unbraked:(kg)", Key: "max_trailer_mass", Type: model.TypeText},
			{Label: "18.   Maximum mass of combination:(kg)", Key: "max_combination_mass", Type: model.TypeNumber},
			{Label: "19.1. Maximum vertical load at the coupling point for a trailer:(kg)", Key: "max_coupling_load", Type: model.TypeNumber},
		},
	},
	{
		Title: "Engine and Propulsion",
		Color: "orange",
		Fields: []model.FieldDefinition{
			{Label: "20.    Engine manufacturer:", Key: "engine_manufacturer", Type: model.TypeText},
			{Label: "21.    Engine code as marked on the engine:", Key: "engine_code", Type: model.TypeText},
			{Label: "22.    Working principle:", Key: "working_principle", Type: model.TypeText},
			{Label: "22.1. Direct injection:", Key: "direct_injection", Type: model.TypeSelect, Options: []string{"Yes", "No"}},
			{Label: "23.    Pure electric:", Key: "pure_electric", Type: model.TypeSelect, Options: []string{"Yes", "No"}},
			{Label: "23.1  Hybrid [electric] vehicle:", Key: "hybrid", Type: model.TypeSelect, Options: []string{"Yes", "No"}},
			{Label: "24.    Number and arrangement of cylinders:", Key: "cylinders", Type: model.TypeText},
			{Label: "25.    Capacity:( cm3)", Key: "capacity", Type: model.TypeNumber},
			{Label: "26.    Fuel:", Key: "fuel", Type: model.TypeText},
			{Label: "27.    Maximum net power:( kW/min -1)", Key: "max_power", Type: model.TypeText},
		},
	},
	{
		Title: "Transmission and Chassis",
		Color: "green",
		Fields: []model.FieldDefinition{
			{Label: "28.   Clutch (type):", Key: "clutch_type", Type: model.TypeText},
			{Label: "29.   Gearbox (type):", Key: "gearbox_type", Type: model.TypeText},
			{Label: "29.1. Gear", Key: "gear", Type: model.TypeText},
			{Label: "30.   Final drive ratio:", Key: "final_drive_ratio", Type: model.TypeText},
			{Label: "32.   Tyres on wheels 1:", Key: "tyres_wheels_1", Type: model.TypeText},
			{Label: "32.   Tyres on wheels 2:", Key: "tyres_wheels_2", Type: model.TypeText},
			{Label: "34.   Steering, method of assistance:", Key: "steering_assistance", Type: model.TypeText},
			{Label: "35.   Brief description of the braking system (line 1)", Key: "braking_system_1", Type: model.TypeText},
			{Label: "35.   Brief description of the braking system (line 2)", Key: "braking_system_2", Type: model.TypeText},
		},
	},
	{
		Title: "Bodywork and Features",
		Color: "indigo",
		Fields: []model.FieldDefinition{
			{Label: "37.   Type of body", Key: "body_type", Type: model.TypeText},
			{Label: "38.   Colour of vehicle", Key: "vehicle_color", Type: model.TypeText},
			{Label: "41.   Number and configuration of doors", Key: "doors_config", Type: model.TypeText},
			{Label: "42.1. Number and position of seats", Key: "seats_config", Type: model.TypeText},
			{Label: "43.1. EC approval mark of coupling device if fitted", Key: "coupling_approval", Type: model.TypeText},
			{Label: "44.   Maximum speed:(km/h)", Key: "max_speed", Type: model.TypeNumber},
		},
	},
	{
		Title: "Emissions and Regulations",
		Color: "emerald",
		Fields: []model.FieldDefinition{
			{Label: "45.   Sound level - Stationary noise level (dB(A))", Key: "noise_stationary", Type: model.TypeText},
			{Label: "45.   Sound level - Drive-by noise level (dB(A))", Key: "noise_drive_by", Type: model.TypeText},
			{Label: "46    Emissions standard", Key: "emissions_standard", Type: model.TypeText},
			{Label: "46.1. Exhaust emission", Key: "emissions_exhaust", Type: model.TypeText},
			{Label: "CO (g/km)", Key: "co_emissions", Type: model.TypeNumber},
			{Label: "HC (g/km)", Key: "hc_emissions", Type: model.TypeNumber},
			{Label: "NOX (g/km)", Key: "nox_emissions", Type: model.TypeNumber},
			{Label: "HC+NOX (g/km)", Key: "hc_nox_emissions", Type: model.TypeNumber},
			{Label: "Particulates (g/km)", Key: "particulates", Type: model.TypeNumber},
			{Label: "46.2  Smoke (corrected value of the absorption coefficient)", Key: "smoke_absorption", Type: model.TypeNumber},
		},
	},
	{
		Title:       "Consumption and Efficiency",
		Color:       "amber",
		TableGroups: []model.TableGroupDefinition{nedcTableGroup, wltpTableGroup},
		Fields: []model.FieldDefinition{
			// NEDC（由表格组渲染）
			{Label: "CO₂ urban (g/km)", Key: "co2_urban_nedc", Type: model.TypeNumber},
			{Label: "Fuel consumption urban (l/100km)", Key: "fuel_urban_nedc", Type: model.TypeNumber},
			{Label: "CO₂ extra-urban (g/km)", Key: "co2_extra_urban_nedc", Type: model.TypeNumber},
			{Label: "Fuel consumption extra-urban (l/100km)", Key: "fuel_extra_urban_nedc", Type: model.TypeNumber},
			{Label: "CO₂ combined (g/km)", Key: "co2_combined_nedc", Type: model.TypeNumber},
			{Label: "Fuel consumption combined (l/100km)", Key: "fuel_combined_nedc", Type: model.TypeNumber},

			// WLTP（由表格组渲染）
			{Label: "CO₂ low (g/km)", Key: "co2_low_wltp", Type: model.TypeNumber},
			{Label: "Fuel consumption low (l/100km)", Key: "fuel_low_wltp", Type: model.TypeNumber},
			{Label: "CO₂ medium (g/km)", Key: "co2_medium_wltp", Type: model.TypeNumber},
			{Label: "Fuel consumption medium (l/100km)", Key: "fuel_medium_wltp", Type: model.TypeNumber},
			{Label: "CO₂ high (g/km)", Key: "co2_high_wltp", Type: model.TypeNumber},
			{Label: "Fuel consumption high (l/100km)", Key: "fuel_high_wltp", Type: model.TypeNumber},
			{Label: "CO₂ maximum value (g/km)", Key: "co2_maximum_value_wltp", Type: model.TypeNumber},
			{Label: "Fuel consumption maximum value (l/100km)", Key: "fuel_maximum_value_wltp", Type: model.TypeNumber},
			{Label: "CO₂ combined (g/km)", Key: "co2_combined_wltp", Type: model.TypeNumber},
			{Label: "Fuel consumption combined (l/100km)", Key: "fuel_combined_wltp", Type: model.TypeNumber},

			// 单独渲染的电动车字段
			{Label: "Power consumption weighted/combined", Key: "power_consumption", Type: model.TypeNumber},
			{Label: "Electric range (km)", Key: "electric_range", Type: model.TypeNumber},
			{Label: "Electric range city (km)", Key: "electric_range_city", Type: model.TypeNumber},
		},
	},
}

// SectionLayout 返回全部分区定义（稳定顺序，调用方不得修改）
func SectionLayout() []model.SectionDefinition {
	return sections
}

// AllFields 返回跨分区平铺后的全部字段（稳定顺序）
func AllFields() []model.FieldDefinition {
	var fields []model.FieldDefinition
	for _, s := range sections {
		fields = append(fields, s.Fields...)
	}
	return fields
}

// FieldByKey 按 key 查字段定义
func FieldByKey(key string) (model.FieldDefinition, bool) {
	for _, s := range sections {
		for _, f := range s.Fields {
			if f.Key == key {
				return f, true
			}
		}
	}
	return model.FieldDefinition{}, false
}

// Validate 校验目录自身的一致性：
// key 全局唯一；表格组行引用的字段存在于所在分区且被 FieldsInTable 覆盖。
// 配置错误属于构建期缺陷，由测试兜底。
func Validate() error {
	seen := make(map[string]bool)
	for _, s := range sections {
		for _, f := range s.Fields {
			if f.Key == "" {
				return fmt.Errorf("section %q: field with empty key", s.Title)
			}
			if seen[f.Key] {
				return fmt.Errorf("duplicate field key %q", f.Key)
			}
			seen[f.Key] = true
		}
	}

	for _, s := range sections {
		inSection := make(map[string]bool, len(s.Fields))
		for _, f := range s.Fields {
			inSection[f.Key] = true
		}
		for _, g := range s.TableGroups {
			covered := make(map[string]bool, len(g.FieldsInTable))
			for _, key := range g.FieldsInTable {
				if !inSection[key] {
					return fmt.Errorf("table group %q: fieldsInTable key %q not in section %q", g.ID, key, s.Title)
				}
				covered[key] = true
			}
			for _, row := range g.Rows {
				for col, key := range row.FieldKeys {
					if !inSection[key] {
						return fmt.Errorf("table group %q row %q col %q: unknown field key %q", g.ID, row.Label, col, key)
					}
					if !covered[key] {
						return fmt.Errorf("table group %q row %q col %q: field %q missing from fieldsInTable", g.ID, row.Label, col, key)
					}
				}
			}
		}
	}
	return nil
}
