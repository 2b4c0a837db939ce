package usertests

import (
	"net/http"

	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoUpdateTests(t *T) {
	tracker := t.NewTracker()
	base := t.Catalog().ValidBase()

	setupEmail := t.UniqueEmail("setup")
	var targetID string
	t.Step("create target user", func() {
		resp := t.RequireResponse(t.Client().Create(t.Ctx(),
			withProperty(base, servicedef.PropEmail, ldvalue.String(setupEmail))))
		tracker.RegisterCreated(resp)
		RequireStatus(t, resp, http.StatusCreated)
		targetID = resp.CreatedID()
		require.NotEmpty(t, targetID, "response to a successful create did not contain data.id")
	})

	for _, field := range UpdateFields(t.Catalog()) {
		field := field
		t.Run("field: "+field.Key, func(t *T) {
			doUpdateFieldTests(t, targetID, setupEmail, field)
		})
	}
}

func doUpdateFieldTests(t *T, targetID, setupEmail string, field FieldConfig) {
	base := t.Catalog().ValidBase()

	for _, scenario := range field.Scenarios.Positive {
		scenario := scenario
		t.Run("SUCCESS: "+scenario.TestName, func(t *T) {
			raw := scenario.Payload.RawValue()
			payload := ExpandScenario(base, field, raw, t.UniqueEmail("update"))

			resp := t.RequireResponse(t.Client().Update(t.Ctx(), targetID, payload))
			if resp.Status != http.StatusOK {
				t.Debug("Errors from rejected update: %s", resp.Body.GetByKey(servicedef.PropErrors).JSONString())
			}
			RequireStatus(t, resp, http.StatusOK)
			assert.Equal(t, servicedef.MessageSuccess,
				RequireJSONBody(t, resp).GetByKey(servicedef.PropMessage).StringValue())

			t.Step("verify persistence", func() {
				CheckPersisted(t, targetID, field, raw)
			})
		})
	}

	for _, scenario := range field.Scenarios.Negative {
		scenario := scenario
		t.Run("REJECT: "+scenario.TestName, func(t *T) {
			payload := ExpandScenario(base, field, scenario.Payload.RawValue(), setupEmail)

			resp := t.RequireResponse(t.Client().Update(t.Ctx(), targetID, payload))
			checkRejected(t, resp, field, scenario)
		})
	}
}
