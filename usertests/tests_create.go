package usertests

import (
	"net/http"

	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoCreateTests(t *T) {
	tracker := t.NewTracker()

	t.Run("response schemas", func(t *T) { doCreateContractTests(t, tracker) })

	for _, field := range CreateFields(t.Catalog()) {
		field := field
		t.Run("validation: "+field.Key, func(t *T) { doCreateFieldTests(t, tracker, field) })
	}

	t.Run("business logic", func(t *T) { doCreateBusinessLogicTests(t, tracker) })
}

func doCreateContractTests(t *T, tracker *Tracker) {
	contract := t.Catalog().ContractExpectations
	base := t.Catalog().ValidBase()

	t.Step("success schema", func() {
		payload := withProperty(base, servicedef.PropEmail, ldvalue.String(t.UniqueEmail("contract")))
		resp := t.RequireResponse(t.Client().Create(t.Ctx(), payload))
		tracker.RegisterCreated(resp)
		RequireStatus(t, resp, http.StatusCreated)

		body := RequireJSONBody(t, resp)
		CheckContract(t, body, contract.SuccessResponse, "response body")
		CheckContract(t, resp.Data(), contract.UserObject, "data")
		CheckContract(t, resp.Data().GetByKey(servicedef.PropAddress), contract.AddressObject, "data.address")
	})

	t.Step("error schema", func() {
		resp := t.RequireResponse(t.Client().Create(t.Ctx(), ldvalue.ObjectBuild().Build()))
		tracker.RegisterCreated(resp)
		RequireStatus(t, resp, http.StatusBadRequest)
		CheckContract(t, RequireJSONBody(t, resp), contract.ErrorResponse, "response body")
	})
}

func doCreateFieldTests(t *T, tracker *Tracker, field FieldConfig) {
	base := t.Catalog().ValidBase()

	for _, scenario := range field.Scenarios.Positive {
		scenario := scenario
		t.Run("SUCCESS: "+scenario.TestName, func(t *T) {
			raw := scenario.Payload.RawValue()
			payload := ExpandScenario(base, field, raw, t.UniqueEmail("success_test"))

			resp := t.RequireResponse(t.Client().Create(t.Ctx(), payload))
			tracker.RegisterCreated(resp)
			RequireStatus(t, resp, http.StatusCreated)
			RequireJSONBody(t, resp)

			id := resp.CreatedID()
			require.NotEmpty(t, id, "response to a successful create did not contain data.id")

			t.Step("verify persistence", func() {
				CheckPersisted(t, id, field, raw)
			})
		})
	}

	for _, scenario := range field.Scenarios.Negative {
		scenario := scenario
		t.Run("REJECT: "+scenario.TestName, func(t *T) {
			payload := ExpandScenario(base, field, scenario.Payload.RawValue(), t.UniqueEmail("reject_test"))

			resp := t.RequireResponse(t.Client().Create(t.Ctx(), payload))
			tracker.RegisterCreated(resp)
			checkRejected(t, resp, field, scenario)
		})
	}
}

func doCreateBusinessLogicTests(t *T, tracker *Tracker) {
	base := t.Catalog().ValidBase()

	t.Run("REJECT: duplicate email conflict", func(t *T) {
		scenario := t.Catalog().ConflictScenario()
		payload := withProperty(base, servicedef.PropEmail, scenario.Payload.Value().GetByKey(servicedef.PropEmail))

		t.Step("PRE-CONDITION: ensure the email exists in storage", func() {
			// The user may be left over from an earlier run, so any status is acceptable here.
			resp := t.RequireResponse(t.Client().Create(t.Ctx(), payload))
			tracker.RegisterCreated(resp)
		})

		t.Step("ACTION: create a user with the same email", func() {
			resp := t.RequireResponse(t.Client().Create(t.Ctx(), payload))
			tracker.RegisterCreated(resp)
			RequireStatus(t, resp, http.StatusConflict)
			CheckErrorExact(t, RequireJSONBody(t, resp), scenario.Expected.Error.StringValue())
		})
	})

	t.Run("SUCCESS: create full valid user", func(t *T) {
		payload := withProperty(base, servicedef.PropEmail, ldvalue.String(t.UniqueEmail("success")))

		resp := t.RequireResponse(t.Client().Create(t.Ctx(), payload))
		tracker.RegisterCreated(resp)
		RequireStatus(t, resp, http.StatusCreated)
		body := RequireJSONBody(t, resp)
		assert.Equal(t, servicedef.MessageUserCreated, body.GetByKey(servicedef.PropMessage).StringValue())

		id := resp.CreatedID()
		require.NotEmpty(t, id, "response to a successful create did not contain data.id")

		t.Step("verify the user can be read back", func() {
			get := t.RequireResponse(t.Client().Get(t.Ctx(), id))
			RequireStatus(t, get, http.StatusOK)
			assert.Equal(t,
				base.GetByKey(servicedef.PropFirstName).StringValue(),
				RequireJSONBody(t, get).GetByKey(servicedef.PropData).GetByKey(servicedef.PropFirstName).StringValue())
		})
	})
}
