package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Cohort string `param:"cohort" validate:"required,oneof=dram nand"`
	Limit  int    `query:"limit" default:"8" validate:"gte=1,lte=20"`
}

func bindTest(t *testing.T, target, cohort string) (*testRequest, interface{}) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	c.SetParamNames("cohort")
	c.SetParamValues(cohort)

	req := &testRequest{}
	return req, ReadAndValidateRequest(c, req)
}

func TestReadAndValidateRequest_Defaults(t *testing.T) {
	req, verr := bindTest(t, "/x", "dram")
	require.Nil(t, verr)
	assert.Equal(t, "dram", req.Cohort)
	assert.Equal(t, 8, req.Limit)
}

func TestReadAndValidateRequest_Query(t *testing.T) {
	req, verr := bindTest(t, "/x?limit=3", "nand")
	require.Nil(t, verr)
	assert.Equal(t, 3, req.Limit)
}

func TestReadAndValidateRequest_Errors(t *testing.T) {
	_, verr := bindTest(t, "/x?limit=50", "hdd")
	require.NotNil(t, verr)

	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 2)

	assert.Equal(t, "ERR_ONEOF", errs[0].Code)
	assert.Equal(t, "cohort", errs[0].Field)
	assert.Equal(t, "cohort must be one of: dram, nand", errs[0].Message)
	assert.Equal(t, []string{"dram", "nand"}, errs[0].Params["options"])
	assert.Equal(t, "ERR_LTE", errs[1].Code)
	assert.Equal(t, "limit", errs[1].Field)
	assert.Equal(t, "limit failed validation: lte", errs[1].Message)
}

func TestReadAndValidateRequest_MissingCohort(t *testing.T) {
	_, verr := bindTest(t, "/x", "")
	require.NotNil(t, verr)

	errs := verr.([]ValidationError)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_REQUIRED", errs[0].Code)
	assert.Equal(t, "cohort is required", errs[0].Message)
	assert.Nil(t, errs[0].Params)
}

func TestReadAndValidateRequest_BadQueryType(t *testing.T) {
	_, verr := bindTest(t, "/x?limit=abc", "dram")
	require.NotNil(t, verr)
	errs := verr.([]ValidationError)
	assert.Equal(t, "ERR_UNKNOWN", errs[0].Code)
}
