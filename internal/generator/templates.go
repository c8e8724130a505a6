package generator

import (
	"fmt"
	"math/rand/v2"
)

// template describes how to synthesize cards for one equipment class.
type template struct {
	Manufacturers []string
	ModelPrefixes []string
	Attributes    []attribute
}

// attribute is one specification field with a numeric range or a fixed
// set of choices.
type attribute struct {
	Name    string
	Unit    string
	Min     int
	Max     int
	Choices []string
}

func (a attribute) render(rng *rand.Rand) string {
	if len(a.Choices) > 0 {
		return a.Choices[rng.IntN(len(a.Choices))]
	}
	v := a.Min + rng.IntN(a.Max-a.Min+1)
	if a.Unit == "" {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("%d %s", v, a.Unit)
}

// genericTemplate covers equipment classes without a dedicated template.
func genericTemplate(class string) template {
	return template{
		Manufacturers: []string{"Industrial Dynamics", "Vereinigte Maschinenbau", "Meridian Equipment Co."},
		ModelPrefixes: []string{"GX", "MK", "IND"},
		Attributes: []attribute{
			{Name: "rated_power_kw", Unit: "kW", Min: 5, Max: 500},
			{Name: "weight_kg", Unit: "kg", Min: 50, Max: 20000},
			{Name: "ip_rating", Choices: []string{"IP54", "IP55", "IP65", "IP66"}},
			{Name: "duty_cycle", Choices: []string{"continuous", "intermittent", "standby"}},
		},
	}
}

var templates = map[string]template{
	"pump": {
		Manufacturers: []string{"Norddeutsche Pumpenwerke", "Flowserve Industrial", "Cascadia Hydraulics"},
		ModelPrefixes: []string{"HX", "CP", "VS"},
		Attributes: []attribute{
			{Name: "rated_power_kw", Unit: "kW", Min: 5, Max: 750},
			{Name: "flow_rate_m3h", Unit: "m³/h", Min: 10, Max: 4000},
			{Name: "head_m", Unit: "m", Min: 5, Max: 320},
			{Name: "impeller_material", Choices: []string{"cast iron", "duplex steel", "bronze", "316 stainless"}},
			{Name: "seal_type", Choices: []string{"mechanical", "packed gland", "magnetic drive"}},
		},
	},
	"compressor": {
		Manufacturers: []string{"Atlas Industrial", "Bergmann Kompressoren", "Pacific Air Systems"},
		ModelPrefixes: []string{"AC", "RS", "ZT"},
		Attributes: []attribute{
			{Name: "rated_power_kw", Unit: "kW", Min: 15, Max: 2500},
			{Name: "discharge_pressure_bar", Unit: "bar", Min: 7, Max: 40},
			{Name: "capacity_m3min", Unit: "m³/min", Min: 1, Max: 400},
			{Name: "stage_count", Min: 1, Max: 4},
			{Name: "cooling", Choices: []string{"air-cooled", "water-cooled", "oil-flooded"}},
		},
	},
	"turbine": {
		Manufacturers: []string{"Siems Power Systems", "General Turbine Works", "Hokuriku Heavy Industries"},
		ModelPrefixes: []string{"ST", "GT", "HR"},
		Attributes: []attribute{
			{Name: "rated_output_mw", Unit: "MW", Min: 5, Max: 600},
			{Name: "inlet_temperature_c", Unit: "°C", Min: 400, Max: 1500},
			{Name: "shaft_speed_rpm", Unit: "rpm", Min: 1500, Max: 15000},
			{Name: "fuel", Choices: []string{"natural gas", "steam", "dual-fuel", "diesel"}},
		},
	},
	"transformer": {
		Manufacturers: []string{"Eastgate Electric", "Transformatorenwerk Dresden", "Unity Power Apparatus"},
		ModelPrefixes: []string{"TR", "PT", "DX"},
		Attributes: []attribute{
			{Name: "rated_capacity_mva", Unit: "MVA", Min: 1, Max: 500},
			{Name: "primary_voltage_kv", Unit: "kV", Min: 11, Max: 400},
			{Name: "secondary_voltage_kv", Unit: "kV", Min: 1, Max: 110},
			{Name: "cooling_class", Choices: []string{"ONAN", "ONAF", "OFAF", "ODAF"}},
			{Name: "vector_group", Choices: []string{"Dyn11", "Yyn0", "Dyn1", "YNd11"}},
		},
	},
	"heat-exchanger": {
		Manufacturers: []string{"Thermoflux", "Kelvion Process", "Arctic Thermal Systems"},
		ModelPrefixes: []string{"HE", "PH", "SX"},
		Attributes: []attribute{
			{Name: "heat_duty_kw", Unit: "kW", Min: 50, Max: 20000},
			{Name: "design_pressure_bar", Unit: "bar", Min: 6, Max: 100},
			{Name: "surface_area_m2", Unit: "m²", Min: 5, Max: 1500},
			{Name: "type", Choices: []string{"shell-and-tube", "plate", "air-cooled", "spiral"}},
		},
	},
	"valve": {
		Manufacturers: []string{"Velan Flow Control", "Armaturenfabrik Rhein", "Crest Valve Co."},
		ModelPrefixes: []string{"BV", "GV", "CV"},
		Attributes: []attribute{
			{Name: "nominal_diameter_mm", Unit: "mm", Min: 25, Max: 1200},
			{Name: "pressure_class", Choices: []string{"PN16", "PN25", "PN40", "Class 150", "Class 300"}},
			{Name: "body_material", Choices: []string{"carbon steel", "316 stainless", "ductile iron"}},
			{Name: "actuation", Choices: []string{"manual", "pneumatic", "electric", "hydraulic"}},
		},
	},
	"blower": {
		Manufacturers: []string{"Aerzen Machines", "TurboAir Industrial", "Vortex Blower Works"},
		ModelPrefixes: []string{"BL", "TB", "RB"},
		Attributes: []attribute{
			{Name: "rated_power_kw", Unit: "kW", Min: 5, Max: 400},
			{Name: "airflow_m3h", Unit: "m³/h", Min: 100, Max: 50000},
			{Name: "static_pressure_mbar", Unit: "mbar", Min: 50, Max: 1000},
			{Name: "type", Choices: []string{"rotary lobe", "centrifugal", "screw"}},
		},
	},
	"switchgear": {
		Manufacturers: []string{"Eastgate Electric", "Nordic Switch Systems", "Unity Power Apparatus"},
		ModelPrefixes: []string{"SG", "MV", "LV"},
		Attributes: []attribute{
			{Name: "rated_voltage_kv", Unit: "kV", Min: 1, Max: 36},
			{Name: "rated_current_a", Unit: "A", Min: 630, Max: 4000},
			{Name: "breaking_capacity_ka", Unit: "kA", Min: 16, Max: 63},
			{Name: "insulation", Choices: []string{"air", "SF6", "vacuum", "solid"}},
		},
	},
}
