package rag

import (
	"fmt"
	"strings"
)

// ClinicalAttributes is an optional, caller-supplied patient record.
// Every field is individually optional; absence means "omit from the
// rendered context", never "assume a typical value". The core reads it
// and never stores or mutates it.
type ClinicalAttributes struct {
	Age           *int     `json:"age,omitempty"`
	Gender        *string  `json:"gender,omitempty"`
	WeightKg      *float64 `json:"weight,omitempty"`
	HeightCm      *float64 `json:"height,omitempty"`
	Conditions    []string `json:"conditions,omitempty"`
	Allergies     []string `json:"allergies,omitempty"`
	Medications   []string `json:"medications,omitempty"`
	DietType      *string  `json:"diet_type,omitempty"`
	ActivityLevel *string  `json:"activity_level,omitempty"`
}

// clinicalHeader opens the patient block in the composed prompt.
const clinicalHeader = "INFORMACIÓN DEL PACIENTE:"

// BuildClinicalContext renders patient attributes into the natural-language
// block injected ahead of the evidence context. Returns the empty string
// when attrs is nil or every field is absent, so the caller never emits a
// bare header.
//
// BMI is derived only when both weight and height are present; a partial
// computation would be worse than omission. Allergy lines are correctness
// critical: when present they must reach the generator, which is instructed
// to exclude the listed allergens.
func BuildClinicalContext(attrs *ClinicalAttributes) string {
	if attrs == nil {
		return ""
	}

	var parts []string

	if attrs.Age != nil {
		parts = append(parts, fmt.Sprintf("Edad: %d años", *attrs.Age))
	}
	if attrs.Gender != nil && *attrs.Gender != "" {
		parts = append(parts, "Sexo: "+*attrs.Gender)
	}

	if attrs.WeightKg != nil && attrs.HeightCm != nil && *attrs.HeightCm > 0 {
		heightM := *attrs.HeightCm / 100
		bmi := *attrs.WeightKg / (heightM * heightM)
		parts = append(parts, fmt.Sprintf("IMC: %.1f", bmi))
	}

	if len(attrs.Conditions) > 0 {
		parts = append(parts, "Condiciones: "+strings.Join(attrs.Conditions, ", "))
	}
	if len(attrs.Allergies) > 0 {
		parts = append(parts, "Alergias: "+strings.Join(attrs.Allergies, ", "))
	}
	if len(attrs.Medications) > 0 {
		parts = append(parts, "Medicamentos: "+strings.Join(attrs.Medications, ", "))
	}

	if attrs.DietType != nil && *attrs.DietType != "" {
		parts = append(parts, "Tipo de dieta: "+*attrs.DietType)
	}
	if attrs.ActivityLevel != nil && *attrs.ActivityLevel != "" {
		parts = append(parts, "Nivel de actividad: "+*attrs.ActivityLevel)
	}

	if len(parts) == 0 {
		return ""
	}

	return "\n\n" + clinicalHeader + "\n" + strings.Join(parts, "\n") + "\n"
}
