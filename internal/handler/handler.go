// Package handler is the HTTP surface for companies, company collections and
// employees. Every request gets its own repository so staged writes never
// cross requests.
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"CompanyAPI/internal/config"
	"CompanyAPI/internal/mapping"
	"CompanyAPI/internal/query"
	"CompanyAPI/internal/repository"

	"github.com/google/uuid"
)

// RepositoryFactory opens a unit of work for one request.
type RepositoryFactory func() repository.CompanyRepository

type Handler struct {
	newRepo  RepositoryFactory
	mappings *mapping.Registry
	paging   config.PagingConfig
}

func New(newRepo RepositoryFactory, mappings *mapping.Registry, paging config.PagingConfig) *Handler {
	if paging.DefaultPageSize < 1 {
		paging.DefaultPageSize = 5
	}
	if paging.MaxPageSize < paging.DefaultPageSize {
		paging.MaxPageSize = paging.DefaultPageSize
	}
	return &Handler{newRepo: newRepo, mappings: mappings, paging: paging}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/companies", h.ListCompanies)
	mux.HandleFunc("POST /api/companies", h.CreateCompany)
	mux.HandleFunc("OPTIONS /api/companies", h.CompaniesOptions)
	mux.HandleFunc("GET /api/companies/{companyId}", h.GetCompany)
	mux.HandleFunc("DELETE /api/companies/{companyId}", h.DeleteCompany)

	mux.HandleFunc("GET /api/companycollections/{ids}", h.GetCompanyCollection)
	mux.HandleFunc("POST /api/companycollections", h.CreateCompanyCollection)

	mux.HandleFunc("GET /api/companies/{companyId}/employees", h.ListEmployees)
	mux.HandleFunc("POST /api/companies/{companyId}/employees", h.CreateEmployee)
	mux.HandleFunc("GET /api/companies/{companyId}/employees/{employeeId}", h.GetEmployee)
	mux.HandleFunc("PUT /api/companies/{companyId}/employees/{employeeId}", h.PutEmployee)
	mux.HandleFunc("PATCH /api/companies/{companyId}/employees/{employeeId}", h.PatchEmployee)
	mux.HandleFunc("DELETE /api/companies/{companyId}/employees/{employeeId}", h.DeleteEmployee)
}

// pageParams reads pageNumber and pageSize and clamps them to the configured bounds.
func (h *Handler) pageParams(r *http.Request) (int, int, bool) {
	q := r.URL.Query()
	number, ok := intParam(q.Get("pageNumber"), 1)
	if !ok {
		return 0, 0, false
	}
	size, ok := intParam(q.Get("pageSize"), h.paging.DefaultPageSize)
	if !ok {
		return 0, 0, false
	}
	number, size = query.Clamp(number, size, h.paging.DefaultPageSize, h.paging.MaxPageSize)
	return number, size, true
}

func intParam(raw string, fallback int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}

func pathID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	return id, err == nil
}

// orderByOrDefault treats a blank orderBy as the resource default.
func orderByOrDefault(orderBy, def string) string {
	if strings.TrimSpace(orderBy) == "" {
		return def
	}
	return orderBy
}

func (h *Handler) validOrderBy(dto, entity, orderBy string) (bool, error) {
	set, err := h.mappings.Lookup(dto, entity)
	if err != nil {
		return false, err
	}
	return mapping.ValidMappingExistsFor(set, orderBy), nil
}

const (
	companyOrderDefault  = "CompanyName"
	employeeOrderDefault = "EmployeeNo"
)
