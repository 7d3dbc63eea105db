package handler

import (
	"fmt"
	"net/http"
	"strings"

	"CompanyAPI/internal/model"

	"github.com/google/uuid"
)

// GetCompanyCollection serves GET /api/companycollections/{ids}, where ids is
// a comma list, optionally wrapped in parentheses. Every id must exist.
func (h *Handler) GetCompanyCollection(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.PathValue("ids"))
	if err != nil {
		statusProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	companies, err := h.newRepo().GetCompaniesByIDs(r.Context(), ids)
	if err != nil {
		fail(w, r, "get_company_collection", err)
		return
	}
	if len(companies) != len(ids) {
		statusProblem(w, r, http.StatusNotFound, "")
		return
	}
	writeJSON(w, http.StatusOK, model.ToCompanyDtos(companies))
}

// CreateCompanyCollection serves POST /api/companycollections. The whole
// collection is saved in one unit of work or not at all.
func (h *Handler) CreateCompanyCollection(w http.ResponseWriter, r *http.Request) {
	if ct := contentType(r); ct != mediaJSON && ct != mediaCompanyForCreation {
		statusProblem(w, r, http.StatusUnsupportedMediaType, "")
		return
	}
	var dtos []model.CompanyAddDto
	if err := decodeBody(w, r, &dtos); err != nil {
		statusProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(dtos) == 0 {
		statusProblem(w, r, http.StatusBadRequest, "collection is empty")
		return
	}
	if err := validateEach(dtos); err != nil {
		fail(w, r, "create_company_collection", err)
		return
	}

	repo := h.newRepo()
	companies := make([]model.Company, len(dtos))
	for i, dto := range dtos {
		companies[i] = model.CompanyFromAddDto(dto)
		if err := repo.AddCompany(&companies[i]); err != nil {
			fail(w, r, "create_company_collection", err)
			return
		}
	}
	if !save(w, r, repo, "create_company_collection") {
		return
	}

	ids := make([]string, len(companies))
	for i, c := range companies {
		ids[i] = c.ID.String()
	}
	w.Header().Set("Location", "/api/companycollections/("+strings.Join(ids, ",")+")")
	writeJSON(w, http.StatusCreated, model.ToCompanyDtos(companies))
}

// validateEach validates every element, prefixing error keys with the index.
func validateEach(dtos []model.CompanyAddDto) error {
	merged := &model.ValidationError{Errors: map[string][]string{}}
	for i, dto := range dtos {
		err := model.Validate(dto)
		if err == nil {
			continue
		}
		ve, ok := err.(*model.ValidationError)
		if !ok {
			return err
		}
		for k, msgs := range ve.Errors {
			key := fmt.Sprintf("[%d].%s", i, k)
			merged.Errors[key] = append(merged.Errors[key], msgs...)
		}
	}
	if len(merged.Errors) == 0 {
		return nil
	}
	return merged
}

func parseIDs(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "(")
	raw = strings.TrimSuffix(raw, ")")
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("ids are required")
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid id", strings.TrimSpace(p))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
