package dto

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequest_Identity(t *testing.T) {
	assert.Equal(t, "a@b.c", (&LoginRequest{Identifier: "a@b.c", Phone: "655000000"}).Identity())
	assert.Equal(t, "655000000", (&LoginRequest{Phone: "655000000"}).Identity())
	assert.Empty(t, (&LoginRequest{}).Identity())
}

func TestDate_Unmarshal(t *testing.T) {
	var req PaymentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"paymentDate":"2025-03-15"}`), &req))
	require.NotNil(t, req.PaymentDate.Value())
	assert.Equal(t, time.March, req.PaymentDate.Value().Month())
	assert.Equal(t, 15, req.PaymentDate.Value().Day())

	req = PaymentRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"paymentDate":"2025-03-15T10:00:00Z"}`), &req))
	assert.Equal(t, 10, req.PaymentDate.Value().UTC().Hour())

	req = PaymentRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"paymentDate":""}`), &req))
	assert.Nil(t, req.PaymentDate.Value())

	req = PaymentRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.Nil(t, req.PaymentDate.Value())

	assert.Error(t, json.Unmarshal([]byte(`{"paymentDate":"15/03/2025"}`), &req))
}

func TestMeResponse_Flattens(t *testing.T) {
	data, err := json.Marshal(MeResponse{
		UserInfo:    UserInfo{ID: "u1", Email: "a@b.c", Role: "ADMIN"},
		Association: &AssociationInfo{ID: "a1", Code: "X"},
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "u1", got["id"])
	assert.Equal(t, "ADMIN", got["role"])
	assert.Contains(t, got, "association")
}

func TestBindingRules(t *testing.T) {
	amount := 0.0
	cases := []struct {
		name  string
		req   any
		valid bool
	}{
		{"year", &CreateYearRequest{Year: 2025, MonthlyAmount: 5000}, true},
		{"negative year", &CreateYearRequest{Year: -2025, MonthlyAmount: 5000}, false},
		{"year without amount", &CreateYearRequest{Year: 2025}, false},
		{"zero monthly amount", &UpdateYearRequest{}, false},
		{"payment", &PaymentRequest{MemberID: "m", YearID: "y", Month: 13, AmountPaid: &amount}, true},
		{"payment without amount", &PaymentRequest{MemberID: "m", YearID: "y", Month: 1}, false},
		{"payment without month", &PaymentRequest{MemberID: "m", YearID: "y", AmountPaid: &amount}, false},
		{"contribution", &ContributionRequest{Title: "Décès", Type: "décès"}, true},
		{"contribution update without type", &ContributionRequest{Title: "Décès"}, true},
		{"unknown contribution type", &ContributionRequest{Type: "fête"}, false},
		{"exceptional payment", &ExceptionalPaymentRequest{MemberID: "m", Amount: &amount}, true},
		{"exceptional payment without member", &ExceptionalPaymentRequest{Amount: &amount}, false},
		{"empty import", &ImportMembersRequest{Members: []ImportMember{}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tc.req)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestContributionTypeRule(t *testing.T) {
	field, ok := reflect.TypeOf(ContributionRequest{}).FieldByName("Type")
	require.True(t, ok)
	rule := strings.TrimPrefix(field.Tag.Get("binding"), "omitempty,oneof=")
	assert.Equal(t, cnst.ContributionTypes, strings.Fields(rule))
	for _, ct := range cnst.ContributionTypes {
		assert.NoError(t, binding.Validator.ValidateStruct(&ContributionRequest{Type: ct}), ct)
	}
}
