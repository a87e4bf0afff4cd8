package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteJSONObject(t *testing.T) {
	r := NewRouter()

	d := r.Route(`{"triggers": {"manual": {"type": "Request"}}, "actions": {}}`)
	assert.Equal(t, ModeFlowReview, d.Mode)
	assert.Equal(t, "json", d.Signal)
}

func TestRouteJSONArray(t *testing.T) {
	r := NewRouter()

	d := r.Route(`[{"runAfter": {}}, {"type": "Compose"}]`)
	assert.Equal(t, ModeFlowReview, d.Mode)
	assert.Equal(t, "json", d.Signal)
}

func TestRouteJSONDominatesKeywords(t *testing.T) {
	r := NewRouter()

	// Governance vocabulary inside a JSON payload must not override the
	// JSON-shape rule.
	d := r.Route(`{"policy": "blocked", "tenant": "contoso"}`)
	assert.Equal(t, ModeFlowReview, d.Mode)
	assert.Equal(t, "json", d.Signal)
}

func TestRouteMalformedJSONFallsThrough(t *testing.T) {
	r := NewRouter()

	// Broken JSON with governance wording routes by vocabulary.
	d := r.Route(`{"policy": blocked`)
	assert.Equal(t, ModeGovernanceQnA, d.Mode)
}

func TestRouteJSONScalarNotStructured(t *testing.T) {
	r := NewRouter()

	assert.Equal(t, ModeOutOfScope, r.Route("42").Mode)
	assert.Equal(t, ModeOutOfScope, r.Route("true").Mode)
}

func TestRouteImprovementVocabulary(t *testing.T) {
	r := NewRouter()

	assert.Equal(t, ModeFlowReview, r.Route("Can you optimize this for me?").Mode)
	assert.Equal(t, ModeFlowReview, r.Route("please fix my flow").Mode)
	assert.Equal(t, ModeFlowReview, r.Route("it is NOT WORKING at all").Mode)
}

func TestRouteImprovementBeatsGovernance(t *testing.T) {
	r := NewRouter()

	// Both vocabularies present: improvement check runs first.
	d := r.Route("review our tenant policy setup")
	assert.Equal(t, ModeFlowReview, d.Mode)
}

func TestRouteGovernanceVocabulary(t *testing.T) {
	r := NewRouter()

	d := r.Route("Is SharePoint an approved connector in our tenant?")
	assert.Equal(t, ModeGovernanceQnA, d.Mode)
}

func TestRouteHowtoVocabulary(t *testing.T) {
	r := NewRouter()

	d := r.Route("How do I add a trigger to a flow?")
	assert.Equal(t, ModeHowtoQnA, d.Mode)
}

func TestRouteOutOfScope(t *testing.T) {
	r := NewRouter()

	d := r.Route("What is the best pizza in town?")
	assert.Equal(t, ModeOutOfScope, d.Mode)
	assert.Empty(t, d.Signal)
}

func TestRouteDeterministic(t *testing.T) {
	r := NewRouter()

	q := `{"actions": {"review": {}}}`
	first := r.Route(q)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Route(q))
	}
}
