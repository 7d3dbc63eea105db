package itests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"CompanyAPI/internal/query"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const (
	microsoftID = "bbdee09c-089b-4d30-bece-44df5923716c"
	googleID    = "6fb600c1-9011-4fd7-9234-881379716440"
	alipayID    = "5efc910b-2f45-43df-afee-620d40542853"
	maryID      = "72457e73-ea34-4e02-b575-8d384e82a481"
	kevinID     = "7644b71d-d74e-43e2-ac32-8cbadd7b1c3a"
	missingID   = "00000000-0000-0000-0000-00000000beef"
)

func companyNames(arr *httpexpect.Array) []string {
	var out []string
	for _, v := range arr.Iter() {
		out = append(out, v.Object().Value("companyName").String().Raw())
	}
	return out
}

func pagination(t *testing.T, resp *httpexpect.Response) query.Metadata {
	t.Helper()
	var meta query.Metadata
	require.NoError(t, json.Unmarshal([]byte(resp.Header("X-Pagination").Raw()), &meta))
	return meta
}

func TestHTTP_ListSeededCompanies(t *testing.T) {
	e := newAPI(t)

	arr := e.GET("/api/companies").
		WithQuery("queryString", "COMPANY").
		WithQuery("orderBy", "companyName desc").
		Expect().Status(http.StatusOK).JSON().Array()
	if diff := cmp.Diff([]string{"Microsoft", "Alipay"}, companyNames(arr)); diff != "" {
		t.Fatalf("filtered desc (-want +got):\n%s", diff)
	}

	resp := e.GET("/api/companies").WithQuery("companyName", "Alipay").Expect().Status(http.StatusOK)
	resp.JSON().Array().Value(0).Object().Value("id").String().IsEqual(alipayID)
	want := query.Metadata{TotalCount: 1, PageSize: 5, CurrentPage: 1, TotalPages: 1}
	if diff := cmp.Diff(want, pagination(t, resp)); diff != "" {
		t.Fatalf("X-Pagination (-want +got):\n%s", diff)
	}

	e.GET("/api/companies").WithQuery("orderBy", "salary").Expect().Status(http.StatusBadRequest)
}

func TestHTTP_CompanyPaging(t *testing.T) {
	e := newAPI(t)

	first := e.GET("/api/companies").WithQuery("pageSize", 1).WithQuery("pageNumber", 1).
		Expect().Status(http.StatusOK)
	second := e.GET("/api/companies").WithQuery("pageSize", 1).WithQuery("pageNumber", 2).
		Expect().Status(http.StatusOK)

	a := first.JSON().Array().Value(0).Object().Value("id").String().Raw()
	b := second.JSON().Array().Value(0).Object().Value("id").String().Raw()
	if a == b {
		t.Fatalf("pages overlap on %s", a)
	}
	if got := pagination(t, second).CurrentPage; got != 2 {
		t.Fatalf("currentPage = %d", got)
	}
}

func TestHTTP_GetCompanyRepresentations(t *testing.T) {
	e := newAPI(t)

	e.GET("/api/companies/" + googleID).Expect().Status(http.StatusOK).
		JSON().Object().Value("companyName").String().IsEqual("Google")

	// second read goes through the cache when redis is configured
	full := "application/vnd.company.company.full+json"
	obj := e.GET("/api/companies/"+googleID).WithHeader("Accept", full).
		Expect().Status(http.StatusOK).
		JSON(httpexpect.ContentOpts{MediaType: full}).Object()
	obj.Value("introduction").String().IsEqual("Don't be evil")
	obj.Value("industry").String().IsEqual("Internet")

	problem(e.GET("/api/companies/" + missingID).Expect().Status(http.StatusNotFound)).
		Value("status").Number().IsEqual(http.StatusNotFound)
}

func TestHTTP_CompanyLifecycle(t *testing.T) {
	e := newAPI(t)

	resp := e.POST("/api/companies").WithJSON(map[string]any{
		"name":         "Initech",
		"introduction": "TPS reports",
		"country":      "USA",
		"employees": []map[string]any{
			{"employeeNo": "INIT000001", "firstName": "Peter", "lastName": "Gibbons", "gender": "male", "dateOfBirth": "1970-02-19T00:00:00Z"},
		},
	}).Expect().Status(http.StatusCreated)
	location := resp.Header("Location").Raw()
	require.True(t, strings.HasPrefix(location, "/api/companies/"), location)

	e.GET(location + "/employees").Expect().Status(http.StatusOK).
		JSON().Array().Value(0).Object().Value("name").String().IsEqual("Peter Gibbons")

	e.DELETE(location).Expect().Status(http.StatusNoContent)
	e.GET(location).Expect().Status(http.StatusNotFound)
	e.GET(location + "/employees").Expect().Status(http.StatusNotFound)
	e.DELETE(location).Expect().Status(http.StatusNotFound)
}

func TestHTTP_CompanyCollections(t *testing.T) {
	e := newAPI(t)

	arr := e.GET("/api/companycollections/(" + microsoftID + "," + alipayID + ")").
		Expect().Status(http.StatusOK).JSON().Array()
	arr.Length().IsEqual(2)

	e.GET("/api/companycollections/(" + googleID + "," + missingID + ")").
		Expect().Status(http.StatusNotFound)

	resp := e.POST("/api/companycollections").WithJSON([]map[string]any{
		{"name": "Globex"},
		{"name": "Hooli"},
	}).Expect().Status(http.StatusCreated)
	location := resp.Header("Location").Raw()
	arr = e.GET(location).Expect().Status(http.StatusOK).JSON().Array()
	if diff := cmp.Diff([]string{"Globex", "Hooli"}, companyNames(arr)); diff != "" {
		t.Fatalf("created collection (-want +got):\n%s", diff)
	}
	for _, v := range arr.Iter() {
		e.DELETE("/api/companies/" + v.Object().Value("id").String().Raw()).
			Expect().Status(http.StatusNoContent)
	}
}
