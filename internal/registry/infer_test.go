package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rendis/t2d/pkg/schema"
)

func TestInferType_KeywordTable(t *testing.T) {
	reg := Default()

	tests := []struct {
		description string
		want        schema.DiagramType
	}{
		{"sequence diagram of the checkout flow", schema.TypeSequence},
		{"Entity relationship diagram for the orders database", schema.TypeERD},
		{"high level system architecture", schema.TypeArchitecture},
		{"order lifecycle state machine", schema.TypeState},
		{"project roadmap for Q3", schema.TypeGantt},
		{"user journey through onboarding", schema.TypeJourney},
		{"deployment of services to kubernetes", schema.TypeDeployment},
		{"class diagram of the billing module", schema.TypeClass},
		{"login use case with two actors", schema.TypeUseCase},
		{"approval workflow with decision points", schema.TypeFlowchart},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reg.InferType(tt.description), "description %q", tt.description)
	}
}

func TestInferType_CaseInsensitive(t *testing.T) {
	reg := Default()
	assert.Equal(t, schema.TypeSequence, reg.InferType("SEQUENCE Diagram"))
}

func TestInferType_SpecificRulesBeforeGeneric(t *testing.T) {
	reg := Default()

	// "c4 container" also contains no generic trigger, but "c4 component"
	// overlaps with the plain "component" rule and must win.
	assert.Equal(t, schema.TypeC4Component, reg.InferType("C4 component diagram of the gateway"))
	assert.Equal(t, schema.TypeC4Context, reg.InferType("system context for the platform"))
}

func TestInferType_NoMatchYieldsUnknown(t *testing.T) {
	reg := Default()

	assert.Equal(t, schema.TypeUnknown, reg.InferType("a painting of a sunset"))
	assert.Equal(t, schema.TypeUnknown, reg.InferType(""))
	assert.Equal(t, schema.TypeUnknown, reg.InferType("   "))
}

func TestInferType_Deterministic(t *testing.T) {
	reg := Default()

	const desc = "sequence of calls between services"
	first := reg.InferType(desc)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, reg.InferType(desc))
	}
}
