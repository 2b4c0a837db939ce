package usertests

import (
	"net/http"

	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoDeleteTests(t *T) {
	tracker := t.NewTracker()

	t.Run("successful deletion and data removal", func(t *T) {
		var id string
		t.Step("PRE-CONDITION: create a user to delete", func() {
			payload := withProperty(t.Catalog().ValidBase(), servicedef.PropEmail, ldvalue.String(t.UniqueEmail("delete")))
			resp := t.RequireResponse(t.Client().Create(t.Ctx(), payload))
			// Tracked in case the deletion under test fails; Drain accepts a 404.
			tracker.RegisterCreated(resp)
			RequireStatus(t, resp, http.StatusCreated)
			id = resp.CreatedID()
			require.NotEmpty(t, id, "response to a successful create did not contain data.id")
		})

		t.Step("ACTION: delete the user", func() {
			resp := t.RequireResponse(t.Client().Delete(t.Ctx(), id))
			RequireStatus(t, resp, http.StatusOK)
			assert.Equal(t, servicedef.MessageSuccess,
				RequireJSONBody(t, resp).GetByKey(servicedef.PropMessage).StringValue())
		})

		t.Step("VERIFY: user is gone from storage", func() {
			resp := t.RequireResponse(t.Client().Get(t.Ctx(), id))
			RequireStatus(t, resp, http.StatusNotFound)
		})
	})

	for _, scenario := range t.Catalog().DeleteScenarios.Negative {
		scenario := scenario
		t.Run("REJECT: "+scenario.TestName, func(t *T) {
			resp := t.RequireResponse(t.Client().Delete(t.Ctx(), scenario.Params.Text()))
			RequireStatus(t, resp, scenario.Expected.Status.IntValue())
			t.Step("verify error content", func() {
				CheckErrorContains(t, RequireJSONBody(t, resp), scenario.Expected.Error.StringValue())
			})
		})
	}
}
