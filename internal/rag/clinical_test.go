package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestBuildClinicalContextNil(t *testing.T) {
	assert.Equal(t, "", BuildClinicalContext(nil))
}

func TestBuildClinicalContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildClinicalContext(&ClinicalAttributes{}))
}

func TestBuildClinicalContextBMI(t *testing.T) {
	attrs := &ClinicalAttributes{
		WeightKg: floatPtr(70),
		HeightCm: floatPtr(175),
	}

	got := BuildClinicalContext(attrs)

	assert.Contains(t, got, "IMC: 22.9")
}

func TestBuildClinicalContextBMIRequiresBothMeasures(t *testing.T) {
	onlyWeight := BuildClinicalContext(&ClinicalAttributes{WeightKg: floatPtr(70)})
	assert.NotContains(t, onlyWeight, "IMC")

	onlyHeight := BuildClinicalContext(&ClinicalAttributes{HeightCm: floatPtr(175)})
	assert.NotContains(t, onlyHeight, "IMC")
}

func TestBuildClinicalContextAllFields(t *testing.T) {
	attrs := &ClinicalAttributes{
		Age:           intPtr(34),
		Gender:        strPtr("femenino"),
		WeightKg:      floatPtr(62),
		HeightCm:      floatPtr(165),
		Conditions:    []string{"diabetes tipo 2", "hipertensión"},
		Allergies:     []string{"maní", "mariscos"},
		Medications:   []string{"metformina"},
		DietType:      strPtr("vegetariana"),
		ActivityLevel: strPtr("moderado"),
	}

	got := BuildClinicalContext(attrs)

	assert.True(t, strings.HasPrefix(got, "\n\nINFORMACIÓN DEL PACIENTE:\n"))
	assert.Contains(t, got, "Edad: 34 años")
	assert.Contains(t, got, "Sexo: femenino")
	assert.Contains(t, got, "Condiciones: diabetes tipo 2, hipertensión")
	assert.Contains(t, got, "Alergias: maní, mariscos")
	assert.Contains(t, got, "Medicamentos: metformina")
	assert.Contains(t, got, "Tipo de dieta: vegetariana")
	assert.Contains(t, got, "Nivel de actividad: moderado")
	assert.True(t, strings.HasSuffix(got, "\n"))
}

func TestBuildClinicalContextPartial(t *testing.T) {
	attrs := &ClinicalAttributes{Age: intPtr(50)}

	got := BuildClinicalContext(attrs)

	assert.Contains(t, got, "INFORMACIÓN DEL PACIENTE:")
	assert.Contains(t, got, "Edad: 50 años")
	assert.NotContains(t, got, "Sexo")
	assert.NotContains(t, got, "Alergias")
}
