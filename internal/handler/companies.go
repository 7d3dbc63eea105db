package handler

import (
	"encoding/json"
	"net/http"

	"CompanyAPI/internal/logger"
	"CompanyAPI/internal/model"
	"CompanyAPI/internal/query"
	"CompanyAPI/internal/repository"
	"CompanyAPI/internal/shape"
)

const (
	mediaCompanyFriendly = "application/vnd.company.company.friendly+json"
	mediaCompanyFull     = "application/vnd.company.company.full+json"

	mediaCompanyForCreation                 = "application/vnd.company.companyforcreation+json"
	mediaCompanyForCreationWithBankruptTime = "application/vnd.company.companyforcreationwithbankrupttime+json"
)

// ListCompanies serves GET and HEAD /api/companies.
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orderBy := orderByOrDefault(q.Get("orderBy"), companyOrderDefault)
	fields := q.Get("fields")

	valid, err := h.validOrderBy(model.CompanyDtoName, model.CompanyEntity, orderBy)
	if err != nil {
		fail(w, r, "list_companies", err)
		return
	}
	if !valid {
		statusProblem(w, r, http.StatusBadRequest, "orderBy references an unknown field")
		return
	}
	if !shape.HasAllProperties(model.CompanyDtoShape, fields) {
		statusProblem(w, r, http.StatusBadRequest, "fields references an unknown property")
		return
	}
	pageNumber, pageSize, ok := h.pageParams(r)
	if !ok {
		statusProblem(w, r, http.StatusBadRequest, "pageNumber and pageSize must be integers")
		return
	}

	page, err := h.newRepo().GetCompanies(r.Context(), repository.CompanyParameters{
		CompanyName: q.Get("companyName"),
		QueryString: q.Get("queryString"),
		PageNumber:  pageNumber,
		PageSize:    pageSize,
		OrderBy:     orderBy,
		Fields:      fields,
	})
	if err != nil {
		fail(w, r, "list_companies", err)
		return
	}

	shaped, err := shape.Data(model.ToCompanyDtos(page.Items), fields, model.CompanyDtoShape)
	if err != nil {
		fail(w, r, "list_companies", err)
		return
	}
	setPagination(w, page.Metadata())
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", mediaJSON)
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, shaped)
}

func setPagination(w http.ResponseWriter, meta query.Metadata) {
	raw, err := json.Marshal(meta)
	if err != nil {
		logger.Error("pagination_header_failed", map[string]any{"error": err.Error()})
		return
	}
	w.Header().Set("X-Pagination", string(raw))
}

// GetCompany serves GET /api/companies/{companyId}. The Accept header picks
// the friendly or the full representation.
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "companyId")
	if !ok {
		statusProblem(w, r, http.StatusBadRequest, "companyId is not a valid id")
		return
	}
	media, ok := negotiate(r.Header.Get("Accept"), mediaJSON, mediaCompanyFriendly, mediaCompanyFull)
	if !ok {
		statusProblem(w, r, http.StatusBadRequest, "Accept header is malformed")
		return
	}
	if media == "" {
		statusProblem(w, r, http.StatusNotAcceptable, "")
		return
	}

	fields := r.URL.Query().Get("fields")
	full := media == mediaCompanyFull
	if full && !shape.HasAllProperties(model.CompanyFullDtoShape, fields) ||
		!full && !shape.HasAllProperties(model.CompanyDtoShape, fields) {
		statusProblem(w, r, http.StatusBadRequest, "fields references an unknown property")
		return
	}

	company, err := h.newRepo().GetCompany(r.Context(), id)
	if err != nil {
		fail(w, r, "get_company", err)
		return
	}

	var rec *shape.Record
	if full {
		rec, err = shape.One(model.ToCompanyFullDto(*company), fields, model.CompanyFullDtoShape)
	} else {
		rec, err = shape.One(model.ToCompanyDto(*company), fields, model.CompanyDtoShape)
	}
	if err != nil {
		fail(w, r, "get_company", err)
		return
	}
	writeMedia(w, http.StatusOK, media, rec)
}

// CreateCompany serves POST /api/companies. The Content-Type selects the
// payload: with or without a bankruptcy time.
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var company model.Company
	switch contentType(r) {
	case mediaJSON, mediaCompanyForCreation:
		var dto model.CompanyAddDto
		if err := decodeBody(w, r, &dto); err != nil {
			statusProblem(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := model.Validate(dto); err != nil {
			fail(w, r, "create_company", err)
			return
		}
		company = model.CompanyFromAddDto(dto)
	case mediaCompanyForCreationWithBankruptTime:
		var dto model.CompanyAddWithBankruptTimeDto
		if err := decodeBody(w, r, &dto); err != nil {
			statusProblem(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := model.Validate(dto.CompanyAddDto); err != nil {
			fail(w, r, "create_company", err)
			return
		}
		company = model.CompanyFromAddWithBankruptTimeDto(dto)
	default:
		statusProblem(w, r, http.StatusUnsupportedMediaType, "")
		return
	}

	repo := h.newRepo()
	if err := repo.AddCompany(&company); err != nil {
		fail(w, r, "create_company", err)
		return
	}
	if !save(w, r, repo, "create_company") {
		return
	}
	w.Header().Set("Location", "/api/companies/"+company.ID.String())
	writeJSON(w, http.StatusCreated, model.ToCompanyDto(company))
}

func (h *Handler) CompaniesOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET,POST,OPTIONS")
	w.WriteHeader(http.StatusOK)
}

// DeleteCompany removes the company and, with it, its employees.
func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "companyId")
	if !ok {
		statusProblem(w, r, http.StatusBadRequest, "companyId is not a valid id")
		return
	}
	repo := h.newRepo()
	company, err := repo.GetCompany(r.Context(), id)
	if err != nil {
		fail(w, r, "delete_company", err)
		return
	}
	if err := repo.DeleteCompany(company); err != nil {
		fail(w, r, "delete_company", err)
		return
	}
	if !save(w, r, repo, "delete_company") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// save flushes the unit of work and writes the error response on failure.
func save(w http.ResponseWriter, r *http.Request, repo repository.CompanyRepository, endpoint string) bool {
	ok, err := repo.Save(r.Context())
	if err != nil {
		fail(w, r, endpoint, err)
		return false
	}
	if !ok {
		statusProblem(w, r, http.StatusInternalServerError, "changes were not saved")
		return false
	}
	return true
}
