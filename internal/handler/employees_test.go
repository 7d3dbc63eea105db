package handler_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const patchJSON = "application/json-patch+json"

func employeesURL(companyID string) string {
	return "/api/companies/" + companyID + "/employees"
}

func employeeNames(arr *httpexpect.Array) []string {
	var out []string
	for _, v := range arr.Iter() {
		out = append(out, v.Object().Value("name").String().Raw())
	}
	return out
}

func TestListEmployees(t *testing.T) {
	e := newAPI(t)

	resp := e.GET(employeesURL(googleID)).Expect().Status(http.StatusOK)
	arr := resp.JSON().Array()
	if diff := cmp.Diff([]string{"Mary King", "Kevin Richardson"}, employeeNames(arr)); diff != "" {
		t.Fatalf("default order (-want +got):\n%s", diff)
	}
	mary := arr.Value(0).Object()
	mary.Value("genderDisplay").String().IsEqual("Female")
	mary.Value("employeeNo").String().IsEqual("G003000000")
	mary.Value("age").Number().IsEqual(time.Now().Year() - 1971)
	if got := pagination(t, resp).TotalCount; got != 2 {
		t.Fatalf("totalCount = %d", got)
	}

	arr = e.GET(employeesURL(googleID)).WithQuery("orderBy", "age desc").
		Expect().Status(http.StatusOK).JSON().Array()
	if diff := cmp.Diff([]string{"Kevin Richardson", "Mary King"}, employeeNames(arr)); diff != "" {
		t.Fatalf("age desc (-want +got):\n%s", diff)
	}
}

func TestListEmployeesFilters(t *testing.T) {
	e := newAPI(t)

	arr := e.GET(employeesURL(googleID)).WithQuery("gender", "female").
		Expect().Status(http.StatusOK).JSON().Array()
	if diff := cmp.Diff([]string{"Mary King"}, employeeNames(arr)); diff != "" {
		t.Fatalf("gender filter (-want +got):\n%s", diff)
	}

	arr = e.GET(employeesURL(googleID)).WithQuery("q", "kev").
		Expect().Status(http.StatusOK).JSON().Array()
	if diff := cmp.Diff([]string{"Kevin Richardson"}, employeeNames(arr)); diff != "" {
		t.Fatalf("q filter (-want +got):\n%s", diff)
	}

	e.GET(employeesURL(googleID)).WithQuery("fields", "name,age").
		Expect().Status(http.StatusOK).
		JSON().Array().Value(0).Object().Keys().ContainsOnly("name", "age")

	e.GET(employeesURL(googleID)).WithQuery("gender", "robot").Expect().Status(http.StatusBadRequest)
	e.GET(employeesURL(googleID)).WithQuery("orderBy", "salary").Expect().Status(http.StatusBadRequest)
	e.GET(employeesURL(googleID)).WithQuery("fields", "firstName").Expect().Status(http.StatusBadRequest)
	e.GET(employeesURL(missingID)).Expect().Status(http.StatusNotFound)
}

func TestGetEmployee(t *testing.T) {
	e := newAPI(t)

	e.GET(employeesURL(googleID) + "/" + maryID).Expect().Status(http.StatusOK).
		JSON().Object().Value("name").String().IsEqual("Mary King")
	e.GET(employeesURL(googleID) + "/" + missingID).Expect().Status(http.StatusNotFound)
	// employees are scoped by company
	e.GET(employeesURL(microsoftID) + "/" + maryID).Expect().Status(http.StatusNotFound)
}

func TestCreateEmployee(t *testing.T) {
	e := newAPI(t)

	resp := e.POST(employeesURL(alipayID)).WithJSON(map[string]any{
		"employeeNo":  "A500000000",
		"firstName":   "Jack",
		"lastName":    "Ma",
		"gender":      "Male",
		"dateOfBirth": "1964-09-10T00:00:00Z",
	}).Expect().Status(http.StatusCreated)
	obj := resp.JSON().Object()
	obj.Value("companyId").String().IsEqual(alipayID)
	obj.Value("genderDisplay").String().IsEqual("Male")
	location := resp.Header("Location").Raw()
	require.True(t, strings.HasPrefix(location, employeesURL(alipayID)+"/"), location)
	e.GET(location).Expect().Status(http.StatusOK)

	errs := problem(e.POST(employeesURL(alipayID)).WithJSON(map[string]any{
		"employeeNo": "Ma00000000",
		"firstName":  "Ma00000000",
		"lastName":   "Ma00000000",
		"gender":     2,
	}).Expect().Status(http.StatusUnprocessableEntity)).Value("errors").Object()
	errs.ContainsKey("firstName")
	errs.ContainsKey("lastName")
	errs.ContainsKey("employeeNo")

	e.POST(employeesURL(missingID)).WithJSON(map[string]any{
		"employeeNo": "X000000000", "firstName": "No", "lastName": "Body", "gender": 1,
	}).Expect().Status(http.StatusNotFound)
}

func TestPutEmployeeUpserts(t *testing.T) {
	e := newAPI(t)
	body := map[string]any{
		"employeeNo":  "G003000001",
		"firstName":   "Mary",
		"lastName":    "Queen",
		"gender":      "female",
		"dateOfBirth": "1971-07-16T00:00:00Z",
	}

	e.PUT(employeesURL(googleID) + "/" + maryID).WithJSON(body).
		Expect().Status(http.StatusNoContent)
	e.GET(employeesURL(googleID) + "/" + maryID).Expect().Status(http.StatusOK).
		JSON().Object().Value("name").String().IsEqual("Mary Queen")

	newID := "11111111-2222-3333-4444-555555555555"
	resp := e.PUT(employeesURL(googleID) + "/" + newID).WithJSON(body).
		Expect().Status(http.StatusCreated)
	resp.Header("Location").IsEqual(employeesURL(googleID) + "/" + newID)
	resp.JSON().Object().Value("id").String().IsEqual(newID)

	// the id belongs to an employee of another company
	e.PUT(employeesURL(microsoftID) + "/" + kevinID).WithJSON(body).
		Expect().Status(http.StatusConflict)

	body["lastName"] = "Mary"
	e.PUT(employeesURL(googleID) + "/" + maryID).WithJSON(body).
		Expect().Status(http.StatusUnprocessableEntity)
}

func TestPatchEmployee(t *testing.T) {
	e := newAPI(t)
	url := employeesURL(googleID) + "/" + kevinID

	e.PATCH(url).WithHeader("Content-Type", patchJSON).
		WithBytes([]byte(`[{"op":"replace","path":"/firstName","value":"Kev"}]`)).
		Expect().Status(http.StatusNoContent)
	obj := e.GET(url).Expect().Status(http.StatusOK).JSON().Object()
	obj.Value("name").String().IsEqual("Kev Richardson")
	obj.Value("employeeNo").String().IsEqual("G097000000")

	problem(e.PATCH(url).WithHeader("Content-Type", patchJSON).
		WithBytes([]byte(`[{"op":"replace","path":"/lastName","value":"Kev"}]`)).
		Expect().Status(http.StatusUnprocessableEntity)).
		Value("errors").Object().ContainsKey("lastName")

	problem(e.PATCH(url).WithHeader("Content-Type", patchJSON).
		WithBytes([]byte(`[{"op":"remove","path":"/nickname"}]`)).
		Expect().Status(http.StatusUnprocessableEntity)).
		Value("errors").Object().ContainsKey("patch")

	e.PATCH(url).WithHeader("Content-Type", patchJSON).WithBytes([]byte(`{"op":"replace"}`)).
		Expect().Status(http.StatusBadRequest)
	e.PATCH(url).WithJSON([]map[string]any{{"op": "replace", "path": "/firstName", "value": "K"}}).
		Expect().Status(http.StatusUnsupportedMediaType)
}

func TestPatchEmployeeCreatesMissing(t *testing.T) {
	e := newAPI(t)
	newID := "99999999-8888-7777-6666-555555555555"
	url := employeesURL(microsoftID) + "/" + newID

	problem(e.PATCH(url).WithHeader("Content-Type", patchJSON).
		WithBytes([]byte(`[{"op":"replace","path":"/firstName","value":"Bill"}]`)).
		Expect().Status(http.StatusUnprocessableEntity)).
		Value("errors").Object().ContainsKey("employeeNo")

	doc := `[
		{"op":"replace","path":"/employeeNo","value":"MSFT000001"},
		{"op":"replace","path":"/firstName","value":"Bill"},
		{"op":"replace","path":"/lastName","value":"Gates"},
		{"op":"replace","path":"/gender","value":"male"}
	]`
	resp := e.PATCH(url).WithHeader("Content-Type", patchJSON).WithBytes([]byte(doc)).
		Expect().Status(http.StatusCreated)
	resp.Header("Location").IsEqual(url)
	resp.JSON().Object().Value("name").String().IsEqual("Bill Gates")

	e.GET(employeesURL(microsoftID)).Expect().Status(http.StatusOK).
		JSON().Array().Length().IsEqual(3)
}

func TestDeleteEmployee(t *testing.T) {
	e := newAPI(t)
	url := employeesURL(googleID) + "/" + maryID

	e.DELETE(url).Expect().Status(http.StatusNoContent)
	e.DELETE(url).Expect().Status(http.StatusNotFound)
	resp := e.GET(employeesURL(googleID)).Expect().Status(http.StatusOK)
	if got := pagination(t, resp).TotalCount; got != 1 {
		t.Fatalf("totalCount after delete = %d", got)
	}
}
