package usertests

import (
	"net/http"
	"sort"

	"github.com/AleksandrSamusev/user-api-contract-tests/fixtures"
	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ExpectedOrder returns a sorted copy of values. Strings are compared the way a user would
// expect to read them: by locale-aware collation with runs of digits compared numerically, so
// "user2" comes before "user10". values itself is not modified.
func ExpectedOrder(values []string, order string) []string {
	c := collate.New(language.Und, collate.Numeric)
	ret := make([]string, len(values))
	copy(ret, values)
	sort.SliceStable(ret, func(i, j int) bool {
		if order == fixtures.OrderDesc {
			return c.CompareString(ret[j], ret[i]) < 0
		}
		return c.CompareString(ret[i], ret[j]) < 0
	})
	return ret
}

// CheckSorted requests the user list with the scenario's sort parameter and verifies that it
// is already in the order ExpectedOrder would put it in.
func CheckSorted(t *T, scenario fixtures.SortScenario) {
	resp := t.RequireResponse(t.Client().List(t.Ctx(), scenario.QueryParam))
	RequireStatus(t, resp, http.StatusOK)
	data := RequireJSONBody(t, resp).GetByKey(servicedef.PropData)
	require.Equal(t, ldvalue.ArrayType, data.Type(), "data of the user list is not an array")

	actual := make([]string, 0, data.Count())
	for i := 0; i < data.Count(); i++ {
		actual = append(actual, valueText(data.GetByIndex(i).GetByKey(scenario.Field)))
	}
	t.Step("check order of "+scenario.Field+" ("+scenario.Order+")", func() {
		assert.Equal(t, ExpectedOrder(actual, scenario.Order), actual,
			"list returned for sortBy=%s is not in %s order of %s", scenario.QueryParam, scenario.Order, scenario.Field)
	})
}
