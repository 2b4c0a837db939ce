package usertests

import (
	"net/http"

	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// sortSeed is a user whose values make a wrong sort order easy to see.
type sortSeed struct {
	firstName, lastName, phoneNumber string
}

var sortSeeds = []sortSeed{
	{"Alpha", "Zebra", "+11111111111"},
	{"Zelda", "Alpha", "+22222222222"},
	{"Beta", "Beta", "+33333333333"},
}

func DoGetTests(t *T) {
	tracker := t.NewTracker()
	base := t.Catalog().ValidBase()

	var targetID string
	t.Step("create target user for retrieval tests", func() {
		payload := withProperty(base, servicedef.PropEmail, ldvalue.String(t.UniqueEmail("get_test")))
		resp := t.RequireResponse(t.Client().Create(t.Ctx(), payload))
		tracker.RegisterCreated(resp)
		RequireStatus(t, resp, http.StatusCreated)
		targetID = resp.CreatedID()
		require.NotEmpty(t, targetID, "response to a successful create did not contain data.id")
	})

	t.Step("seed users for sorting validation", func() {
		for _, seed := range sortSeeds {
			payload := ldvalue.ObjectBuild()
			for _, k := range base.Keys() {
				payload.Set(k, base.GetByKey(k))
			}
			payload.Set(servicedef.PropFirstName, ldvalue.String(seed.firstName))
			payload.Set("lastName", ldvalue.String(seed.lastName))
			payload.Set("phoneNumber", ldvalue.String(seed.phoneNumber))
			payload.Set(servicedef.PropEmail, ldvalue.String(t.UniqueEmail("sort")))
			resp := t.RequireResponse(t.Client().Create(t.Ctx(), payload.Build()))
			tracker.RegisterCreated(resp)
			if resp.Status != http.StatusCreated {
				t.Debug("Sort seed %s %s was not created: %s", seed.firstName, seed.lastName, resp)
			}
		}
	})

	t.Run("list structure", func(t *T) {
		resp := t.RequireResponse(t.Client().List(t.Ctx(), ""))
		RequireStatus(t, resp, http.StatusOK)
		body := RequireJSONBody(t, resp)

		t.Step("verify list envelope and array data", func() {
			CheckContract(t, body, t.Catalog().ContractExpectations.SuccessResponse, "response body")
			assert.Equal(t, ldvalue.ArrayType, body.GetByKey(servicedef.PropData).Type(), "data is not an array")
		})
	})

	t.Run("get user by ID", func(t *T) {
		resp := t.RequireResponse(t.Client().Get(t.Ctx(), targetID))
		RequireStatus(t, resp, http.StatusOK)
		data := RequireJSONBody(t, resp).GetByKey(servicedef.PropData)

		t.Step("verify data accuracy and schema", func() {
			assert.Equal(t, targetID, valueText(data.GetByKey(servicedef.PropID)))
			assert.Equal(t, base.GetByKey(servicedef.PropFirstName).StringValue(),
				data.GetByKey(servicedef.PropFirstName).StringValue())
			CheckContract(t, data, t.Catalog().ContractExpectations.UserObject, "data")
		})
	})

	t.Run("sorting", func(t *T) {
		for _, scenario := range t.Catalog().SharedSortingScenarios {
			scenario := scenario
			t.Run(scenario.TestName, func(t *T) {
				CheckSorted(t, scenario)
			})
		}
	})

	for _, scenario := range t.Catalog().GetScenarios.Negative {
		scenario := scenario
		t.Run("REJECT: "+scenario.TestName, func(t *T) {
			resp := t.RequireResponse(t.Client().Get(t.Ctx(), scenario.Params.Text()))
			RequireStatus(t, resp, scenario.Expected.Status.IntValue())
			t.Step("verify error content", func() {
				CheckErrorContains(t, RequireJSONBody(t, resp), scenario.Expected.Error.StringValue())
			})
		})
	}
}
